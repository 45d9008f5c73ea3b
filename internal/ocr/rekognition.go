package ocr

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/MeKo-Tech/phiredact/internal/geometry"
)

// RekognitionAPI is the subset of the Rekognition client the detector uses.
type RekognitionAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput,
		optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// RekognitionDetector implements TextDetector against Amazon Rekognition,
// referencing the image by its S3 location so the bytes are not re-uploaded.
type RekognitionDetector struct {
	client RekognitionAPI
}

// NewRekognitionDetector wraps a Rekognition client.
func NewRekognitionDetector(client RekognitionAPI) *RekognitionDetector {
	return &RekognitionDetector{client: client}
}

// DetectText runs Rekognition text detection and converts the response
// into detected lines with normalized geometry.
func (d *RekognitionDetector) DetectText(ctx context.Context, bucket, key string) ([]DetectedTextLine, error) {
	out, err := d.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: detect text %s/%s: %w", ErrUnavailable, bucket, key, err)
	}

	lines := make([]DetectedTextLine, 0, len(out.TextDetections))
	for _, det := range out.TextDetections {
		lines = append(lines, convertDetection(det))
	}
	return lines, nil
}

// FetchFunc retrieves the raw image bytes for a bucket/key pair.
type FetchFunc func(ctx context.Context, bucket, key string) ([]byte, error)

// RekognitionBytesDetector implements TextDetector by fetching the image
// itself and submitting the bytes inline. This is for stores Rekognition
// cannot reach directly, such as a local directory during development.
type RekognitionBytesDetector struct {
	client RekognitionAPI
	fetch  FetchFunc
}

// NewRekognitionBytesDetector wraps a Rekognition client with a fetcher
// that resolves bucket/key pairs to image bytes.
func NewRekognitionBytesDetector(client RekognitionAPI, fetch FetchFunc) *RekognitionBytesDetector {
	return &RekognitionBytesDetector{client: client, fetch: fetch}
}

// DetectText fetches the image and runs Rekognition text detection on
// the inline bytes.
func (d *RekognitionBytesDetector) DetectText(ctx context.Context, bucket, key string) ([]DetectedTextLine, error) {
	data, err := d.fetch(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s/%s: %w", ErrUnavailable, bucket, key, err)
	}
	out, err := d.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: data},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: detect text %s/%s: %w", ErrUnavailable, bucket, key, err)
	}

	lines := make([]DetectedTextLine, 0, len(out.TextDetections))
	for _, det := range out.TextDetections {
		lines = append(lines, convertDetection(det))
	}
	return lines, nil
}

func convertDetection(det types.TextDetection) DetectedTextLine {
	line := DetectedTextLine{
		Text: aws.ToString(det.DetectedText),
	}
	switch det.Type {
	case types.TextTypesWord:
		line.Kind = KindWord
	default:
		line.Kind = KindLine
	}
	if det.Confidence != nil {
		// Rekognition reports percent; normalize to [0,1].
		line.Confidence = float64(*det.Confidence) / 100.0
	}
	if det.Geometry != nil {
		if bb := det.Geometry.BoundingBox; bb != nil {
			line.Box = geometry.NormalizedBox{
				Left:   float64(aws.ToFloat32(bb.Left)),
				Top:    float64(aws.ToFloat32(bb.Top)),
				Width:  float64(aws.ToFloat32(bb.Width)),
				Height: float64(aws.ToFloat32(bb.Height)),
			}
		}
		if len(det.Geometry.Polygon) > 0 {
			poly := make(geometry.NormalizedPolygon, 0, len(det.Geometry.Polygon))
			for _, p := range det.Geometry.Polygon {
				poly = append(poly, geometry.NormalizedPoint{
					X: float64(aws.ToFloat32(p.X)),
					Y: float64(aws.ToFloat32(p.Y)),
				})
			}
			line.Polygon = poly
		}
	}
	return line
}
