// Package ocr defines the text-detection boundary of the redaction
// pipeline. Detection itself is delegated to an external service; this
// package carries the detected-line model and the AWS Rekognition-backed
// implementation.
package ocr

import (
	"context"

	"github.com/MeKo-Tech/phiredact/internal/geometry"
)

// LineKind distinguishes whole detected lines from individual words.
type LineKind string

const (
	KindLine LineKind = "LINE"
	KindWord LineKind = "WORD"
)

// DetectedTextLine is one text unit returned by the detector. Geometry is
// normalized to the source image size; Box is always present, Polygon only
// when the detector reports one.
type DetectedTextLine struct {
	Text       string
	Kind       LineKind
	Confidence float64
	Box        geometry.NormalizedBox
	Polygon    geometry.NormalizedPolygon
}

// TextDetector locates text lines in a stored image.
type TextDetector interface {
	DetectText(ctx context.Context, bucket, key string) ([]DetectedTextLine, error)
}
