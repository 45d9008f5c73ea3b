package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillRect(t *testing.T) {
	img := solidImage(10, 10, color.White)
	fill := color.RGBA{R: 20, G: 20, B: 20, A: 255}

	FillRect(img, image.Rect(2, 3, 6, 7), fill)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			inside := x >= 2 && x < 6 && y >= 3 && y < 7
			got := img.RGBAAt(x, y)
			if inside {
				assert.Equal(t, fill, got, "pixel (%d,%d) should be filled", x, y)
			} else {
				assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got,
					"pixel (%d,%d) should be untouched", x, y)
			}
		}
	}
}

func TestFillRect_ClampedToBounds(t *testing.T) {
	img := solidImage(4, 4, color.White)
	FillRect(img, image.Rect(-5, -5, 100, 100), color.Black)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(x, y))
		}
	}
}

func TestFillRect_EmptyRectNoop(t *testing.T) {
	img := solidImage(4, 4, color.White)
	FillRect(img, image.Rect(2, 2, 2, 2), color.Black)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(2, 2))
}

func TestDrawRect_OutlineOnly(t *testing.T) {
	img := solidImage(10, 10, color.Black)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	DrawRect(img, image.Rect(1, 1, 9, 9), white, 1)

	// Corners and edges painted
	assert.Equal(t, white, img.RGBAAt(1, 1))
	assert.Equal(t, white, img.RGBAAt(8, 8))
	assert.Equal(t, white, img.RGBAAt(4, 1))
	assert.Equal(t, white, img.RGBAAt(1, 4))
	// Interior untouched
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(4, 4))
}

func TestDrawRect_Thickness(t *testing.T) {
	img := solidImage(20, 20, color.Black)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	DrawRect(img, image.Rect(2, 2, 18, 18), white, 3)

	assert.Equal(t, white, img.RGBAAt(10, 2))
	assert.Equal(t, white, img.RGBAAt(10, 4))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(10, 5))
	assert.Equal(t, white, img.RGBAAt(4, 10))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(5, 10))
}

func TestDrawRect_DegenerateAndOutOfBounds(t *testing.T) {
	img := solidImage(5, 5, color.Black)
	DrawRect(img, image.Rect(10, 10, 20, 20), color.White, 2)
	DrawRect(img, image.Rect(1, 1, 1, 1), color.White, 2)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(x, y))
		}
	}
}
