package redact

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/phiredact/internal/geometry"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255}) //nolint:gosec
		}
	}
	return img
}

func TestRedactor_NoInteriorPixelSurvives(t *testing.T) {
	img := gradientImage(200, 100)
	r := NewRedactor(DefaultRedactorConfig())
	box := geometry.PixelBox{X1: 20, Y1: 10, X2: 120, Y2: 60}

	require.NoError(t, r.Redact(img, []Region{{SourceText: "Patient X", Box: box}}))

	fill := r.Config().FillColor
	outline := r.Config().OutlineColor
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			got := img.RGBAAt(x, y)
			if got != fill && got != outline {
				t.Fatalf("pixel (%d,%d) kept original value %v", x, y, got)
			}
		}
	}
	// A pixel just outside is untouched.
	assert.Equal(t, color.RGBA{R: 19, G: 9, B: 128, A: 255}, img.RGBAAt(19, 9))
}

func TestRedactor_Idempotent(t *testing.T) {
	box := geometry.PixelBox{X1: 5, Y1: 5, X2: 45, Y2: 25}
	region := Region{SourceText: "MRN 123", Box: box}
	r := NewRedactor(DefaultRedactorConfig())

	once := gradientImage(50, 30)
	require.NoError(t, r.Redact(once, []Region{region}))

	twice := gradientImage(50, 30)
	require.NoError(t, r.Redact(twice, []Region{region}))
	require.NoError(t, r.Redact(twice, []Region{region}))

	assert.Equal(t, once.Pix, twice.Pix)
}

func TestRedactor_ClampsOutOfBoundsRegions(t *testing.T) {
	img := gradientImage(40, 40)
	r := NewRedactor(DefaultRedactorConfig())

	err := r.Redact(img, []Region{
		{Box: geometry.PixelBox{X1: -10, Y1: -10, X2: 100, Y2: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, r.Config().OutlineColor, img.RGBAAt(0, 0))
	assert.Equal(t, r.Config().FillColor, img.RGBAAt(20, 20))
}

func TestRedactor_EmptyRegionIsNoop(t *testing.T) {
	img := gradientImage(10, 10)
	want := gradientImage(10, 10)
	r := NewRedactor(DefaultRedactorConfig())

	require.NoError(t, r.Redact(img, []Region{
		{Box: geometry.PixelBox{X1: 5, Y1: 5, X2: 5, Y2: 9}},
	}))
	assert.Equal(t, want.Pix, img.Pix)
}

func TestRedactor_NilImage(t *testing.T) {
	r := NewRedactor(DefaultRedactorConfig())
	require.Error(t, r.Redact(nil, nil))
}

func TestRedactor_LaterRegionsDrawOnTop(t *testing.T) {
	img := gradientImage(60, 60)
	cfg := DefaultRedactorConfig()
	r := NewRedactor(cfg)

	first := Region{Box: geometry.PixelBox{X1: 10, Y1: 10, X2: 40, Y2: 40}}
	second := Region{Box: geometry.PixelBox{X1: 20, Y1: 20, X2: 50, Y2: 50}}
	require.NoError(t, r.Redact(img, []Region{first, second}))

	// The second region's fill overwrote the part of the first region's
	// outline that it covers.
	assert.Equal(t, cfg.FillColor, img.RGBAAt(38, 30))
}

func TestNewRedactor_ForcesOpaqueFill(t *testing.T) {
	cfg := DefaultRedactorConfig()
	cfg.FillColor.A = 100
	r := NewRedactor(cfg)
	assert.Equal(t, uint8(0xFF), r.Config().FillColor.A)
}
