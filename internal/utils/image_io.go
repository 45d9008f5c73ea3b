// Package utils provides the image byte codec and rectangle drawing
// primitives used by the redaction pipeline.
package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// SupportedImageExtensions lists file extensions the pipeline accepts.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ImageProcessingError wraps codec failures with the operation that failed.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// DecodeImage decodes raw image bytes into a mutable RGBA buffer and
// reports the source format ("jpeg", "png", "bmp").
func DecodeImage(data []byte) (*image.RGBA, string, error) {
	if len(data) == 0 {
		return nil, "", &ImageProcessingError{Operation: "decode", Err: errors.New("empty input")}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &ImageProcessingError{Operation: "decode", Err: err}
	}
	return ToRGBA(img), format, nil
}

// EncodeImage encodes the image into the given format. The format is the
// one reported by DecodeImage; unknown formats fall back to JPEG, matching
// the pipeline's default output type.
func EncodeImage(img image.Image, format string) ([]byte, error) {
	if img == nil {
		return nil, &ImageProcessingError{Operation: "encode", Err: errors.New("nil image")}
	}
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(format) {
	case "png":
		err = imaging.Encode(&buf, img, imaging.PNG)
	case "bmp":
		err = imaging.Encode(&buf, img, imaging.BMP)
	default:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(92))
	}
	if err != nil {
		return nil, &ImageProcessingError{Operation: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

// ContentTypeForFormat maps a decoded format name to its MIME type.
func ContentTypeForFormat(format string) string {
	switch strings.ToLower(format) {
	case "png":
		return "image/png"
	case "bmp":
		return "image/bmp"
	default:
		return "image/jpeg"
	}
}

// ToRGBA returns img as an *image.RGBA, copying when necessary so the
// caller owns a mutable buffer anchored at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == image.Pt(0, 0) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
