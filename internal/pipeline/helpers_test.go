package pipeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/phiredact/internal/utils"
)

// encodeTestImage builds a light-gray JPEG of the given size.
func encodeTestImage(w, h int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 220, G: 220, B: 220, A: 255})
		}
	}
	return utils.EncodeImage(img, "jpeg")
}

// requireRegionObliterated decodes data and asserts that the interior of
// the given pixel box is dark (filled or outlined), i.e. nothing of the
// light-gray source survives inside it.
func requireRegionObliterated(t *testing.T, data []byte, x1, y1, x2, y2 int) {
	t.Helper()
	img, _, err := utils.DecodeImage(data)
	require.NoError(t, err)

	// Stay clear of the outline and JPEG edge ringing.
	for y := y1 + 4; y < y2-4; y += 8 {
		for x := x1 + 4; x < x2-4; x += 8 {
			c := img.RGBAAt(x, y)
			if c.R > 90 || c.G > 90 || c.B > 90 {
				t.Fatalf("pixel (%d,%d) = %v looks unredacted", x, y, c)
			}
		}
	}
}
