// Package geometry maps normalized text-detection geometry onto pixel
// coordinates of a concrete image. All functions are pure.
package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidImageDimensions is returned when a mapping is requested for a
// non-positive image width or height.
var ErrInvalidImageDimensions = errors.New("invalid image dimensions")

// NormalizedPoint is a point with coordinates relative to image size,
// each in [0,1].
type NormalizedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NormalizedBox is an axis-aligned box with edges relative to image size.
// Left and Width scale by image width, Top and Height by image height.
type NormalizedBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizedPolygon is an ordered point sequence relative to image size.
type NormalizedPolygon []NormalizedPoint

// PixelBox is an axis-aligned box in absolute pixel coordinates with
// X1 <= X2 and Y1 <= Y2, clamped to the image bounds it was mapped for.
type PixelBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the box to an image.Rectangle.
func (b PixelBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Width returns the box width in pixels.
func (b PixelBox) Width() int { return b.X2 - b.X1 }

// Height returns the box height in pixels.
func (b PixelBox) Height() int { return b.Y2 - b.Y1 }

// Empty reports whether the box covers no pixels.
func (b PixelBox) Empty() bool { return b.X1 >= b.X2 || b.Y1 >= b.Y2 }

// Clamp limits the box to [0,w]x[0,h], preserving coordinate ordering.
func (b PixelBox) Clamp(w, h int) PixelBox {
	out := PixelBox{
		X1: clampInt(b.X1, 0, w),
		Y1: clampInt(b.Y1, 0, h),
		X2: clampInt(b.X2, 0, w),
		Y2: clampInt(b.Y2, 0, h),
	}
	if out.X2 < out.X1 {
		out.X1, out.X2 = out.X2, out.X1
	}
	if out.Y2 < out.Y1 {
		out.Y1, out.Y2 = out.Y2, out.Y1
	}
	return out
}

// BoxToPixels converts a normalized box into a clamped pixel box for an
// image of the given size. Horizontal components scale by width, vertical
// components by height.
func BoxToPixels(b NormalizedBox, width, height int) (PixelBox, error) {
	if width <= 0 || height <= 0 {
		return PixelBox{}, fmt.Errorf("%w: %dx%d", ErrInvalidImageDimensions, width, height)
	}
	x1 := int(math.Round(b.Left * float64(width)))
	y1 := int(math.Round(b.Top * float64(height)))
	x2 := x1 + int(math.Round(b.Width*float64(width)))
	y2 := y1 + int(math.Round(b.Height*float64(height)))
	return PixelBox{X1: x1, Y1: y1, X2: x2, Y2: y2}.Clamp(width, height), nil
}

// PolygonToPixels converts a normalized polygon into the clamped pixel
// bounding box of its scaled points.
func PolygonToPixels(p NormalizedPolygon, width, height int) (PixelBox, error) {
	if width <= 0 || height <= 0 {
		return PixelBox{}, fmt.Errorf("%w: %dx%d", ErrInvalidImageDimensions, width, height)
	}
	if len(p) == 0 {
		return PixelBox{}, nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range p {
		x := pt.X * float64(width)
		y := pt.Y * float64(height)
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	box := PixelBox{
		X1: int(math.Floor(minX)),
		Y1: int(math.Floor(minY)),
		X2: int(math.Ceil(maxX)),
		Y2: int(math.Ceil(maxY)),
	}
	return box.Clamp(width, height), nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
