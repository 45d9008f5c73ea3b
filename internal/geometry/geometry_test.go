package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxToPixels(t *testing.T) {
	tests := []struct {
		name   string
		box    NormalizedBox
		w, h   int
		expect PixelBox
	}{
		{
			name:   "patient banner on portrait xray",
			box:    NormalizedBox{Left: 0.1, Top: 0.05, Width: 0.3, Height: 0.04},
			w:      1000,
			h:      2000,
			expect: PixelBox{X1: 100, Y1: 100, X2: 400, Y2: 180},
		},
		{
			name:   "full image",
			box:    NormalizedBox{Left: 0, Top: 0, Width: 1, Height: 1},
			w:      640,
			h:      480,
			expect: PixelBox{X1: 0, Y1: 0, X2: 640, Y2: 480},
		},
		{
			name:   "zero area",
			box:    NormalizedBox{Left: 0.5, Top: 0.5},
			w:      100,
			h:      100,
			expect: PixelBox{X1: 50, Y1: 50, X2: 50, Y2: 50},
		},
		{
			name:   "rounding half up",
			box:    NormalizedBox{Left: 0.125, Top: 0.125, Width: 0.25, Height: 0.25},
			w:      10,
			h:      10,
			expect: PixelBox{X1: 1, Y1: 1, X2: 4, Y2: 4},
		},
		{
			name:   "overflow clamped to image edge",
			box:    NormalizedBox{Left: 0.9, Top: 0.9, Width: 0.5, Height: 0.5},
			w:      100,
			h:      100,
			expect: PixelBox{X1: 90, Y1: 90, X2: 100, Y2: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BoxToPixels(tt.box, tt.w, tt.h)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestBoxToPixels_InvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 100}, {100, 0}, {-1, 100}, {100, -1}, {0, 0}} {
		_, err := BoxToPixels(NormalizedBox{Width: 0.5, Height: 0.5}, dims[0], dims[1])
		require.ErrorIs(t, err, ErrInvalidImageDimensions)
	}
}

func TestPolygonToPixels(t *testing.T) {
	poly := NormalizedPolygon{
		{X: 0.1, Y: 0.2},
		{X: 0.4, Y: 0.2},
		{X: 0.4, Y: 0.3},
		{X: 0.1, Y: 0.3},
	}
	got, err := PolygonToPixels(poly, 1000, 500)
	require.NoError(t, err)
	assert.Equal(t, PixelBox{X1: 100, Y1: 100, X2: 400, Y2: 150}, got)
}

func TestPolygonToPixels_SkewedPolygonUsesBoundingBox(t *testing.T) {
	poly := NormalizedPolygon{
		{X: 0.2, Y: 0.1},
		{X: 0.5, Y: 0.15},
		{X: 0.45, Y: 0.25},
		{X: 0.15, Y: 0.2},
	}
	got, err := PolygonToPixels(poly, 200, 200)
	require.NoError(t, err)
	assert.Equal(t, PixelBox{X1: 30, Y1: 20, X2: 100, Y2: 50}, got)
}

func TestPolygonToPixels_Empty(t *testing.T) {
	got, err := PolygonToPixels(nil, 100, 100)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestPolygonToPixels_InvalidDimensions(t *testing.T) {
	_, err := PolygonToPixels(NormalizedPolygon{{X: 0.5, Y: 0.5}}, 0, 10)
	require.ErrorIs(t, err, ErrInvalidImageDimensions)
}

func TestPixelBoxClamp_OrderingPreserved(t *testing.T) {
	b := PixelBox{X1: 150, Y1: -20, X2: 50, Y2: 30}.Clamp(100, 100)
	assert.LessOrEqual(t, b.X1, b.X2)
	assert.LessOrEqual(t, b.Y1, b.Y2)
	assert.GreaterOrEqual(t, b.X1, 0)
	assert.GreaterOrEqual(t, b.Y1, 0)
	assert.LessOrEqual(t, b.X2, 100)
	assert.LessOrEqual(t, b.Y2, 100)
}

func TestPixelBoxRect(t *testing.T) {
	b := PixelBox{X1: 10, Y1: 20, X2: 30, Y2: 40}
	r := b.Rect()
	assert.Equal(t, 10, r.Min.X)
	assert.Equal(t, 20, r.Min.Y)
	assert.Equal(t, 30, r.Max.X)
	assert.Equal(t, 40, r.Max.Y)
	assert.Equal(t, 20, b.Width())
	assert.Equal(t, 20, b.Height())
}
