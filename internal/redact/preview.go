package redact

import (
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"

	"github.com/disintegration/imaging"
)

// previewFrameDelay is the per-frame delay in 1/100ths of a second.
const previewFrameDelay = 30

// PreviewGIF renders an animated audit trail of the redaction: the
// untouched image, then one frame per region as it is burned in. The
// input image is cloned, never mutated; the frames show what Redact
// would do, region by region.
func (r *Redactor) PreviewGIF(img image.Image, regions []Region) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	work := imaging.Clone(img)
	working := image.NewRGBA(work.Bounds())
	draw.Draw(working, working.Bounds(), work, image.Point{}, draw.Src)

	anim := &gif.GIF{LoopCount: 0}
	appendFrame(anim, working)

	bounds := working.Bounds()
	for _, region := range regions {
		box := region.Box.Clamp(bounds.Dx(), bounds.Dy())
		if box.Empty() {
			continue
		}
		if err := r.Redact(working, []Region{region}); err != nil {
			return nil, err
		}
		appendFrame(anim, working)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("encode preview gif: %w", err)
	}
	return buf.Bytes(), nil
}

func appendFrame(anim *gif.GIF, src *image.RGBA) {
	frame := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(frame, src.Bounds(), src, image.Point{})
	anim.Image = append(anim.Image, frame)
	anim.Delay = append(anim.Delay, previewFrameDelay)
}
