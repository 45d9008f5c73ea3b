package redact

import (
	"bytes"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/phiredact/internal/geometry"
)

func TestPreviewGIF(t *testing.T) {
	img := gradientImage(64, 64)
	r := NewRedactor(DefaultRedactorConfig())
	regions := []Region{
		{SourceText: "a", Box: geometry.PixelBox{X1: 4, Y1: 4, X2: 20, Y2: 14}},
		{SourceText: "b", Box: geometry.PixelBox{X1: 30, Y1: 30, X2: 60, Y2: 44}},
	}

	data, err := r.PreviewGIF(img, regions)
	require.NoError(t, err)

	anim, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	// Base frame plus one per region.
	assert.Len(t, anim.Image, 3)

	// The source image was not mutated.
	assert.Equal(t, gradientImage(64, 64).Pix, img.Pix)
}

func TestPreviewGIF_NilImage(t *testing.T) {
	r := NewRedactor(DefaultRedactorConfig())
	_, err := r.PreviewGIF(nil, nil)
	require.Error(t, err)
}

func TestPreviewGIF_SkipsEmptyRegions(t *testing.T) {
	img := gradientImage(32, 32)
	r := NewRedactor(DefaultRedactorConfig())

	data, err := r.PreviewGIF(img, []Region{{Box: geometry.PixelBox{X1: 5, Y1: 5, X2: 5, Y2: 5}}})
	require.NoError(t, err)

	anim, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, anim.Image, 1)
}
