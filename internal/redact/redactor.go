package redact

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/MeKo-Tech/phiredact/internal/utils"
)

// RedactorConfig holds the drawing parameters for applied regions.
type RedactorConfig struct {
	// FillColor paints region interiors. Fully opaque near-black by
	// default so no trace of the original pixels survives.
	FillColor color.RGBA `mapstructure:"-" yaml:"-" json:"-"`
	// OutlineColor marks redacted areas for visual audit.
	OutlineColor color.RGBA `mapstructure:"-" yaml:"-" json:"-"`
	// OutlineWidth is the outline thickness in pixels.
	OutlineWidth int `mapstructure:"outline_width" yaml:"outline_width" json:"outline_width"`
}

// DefaultRedactorConfig returns the default fill and outline styling.
func DefaultRedactorConfig() RedactorConfig {
	return RedactorConfig{
		FillColor:    color.RGBA{R: 20, G: 20, B: 20, A: 255},
		OutlineColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		OutlineWidth: 2,
	}
}

// Redactor burns redaction regions onto an image buffer.
type Redactor struct {
	cfg RedactorConfig
}

// NewRedactor creates a redactor with the given styling.
func NewRedactor(cfg RedactorConfig) *Redactor {
	if cfg.OutlineWidth < 1 {
		cfg.OutlineWidth = 1
	}
	if cfg.FillColor.A != 0xFF {
		// The output guarantee requires an opaque fill.
		cfg.FillColor.A = 0xFF
	}
	return &Redactor{cfg: cfg}
}

// Redact mutates img in place, applying regions in order: each region's
// interior is filled with the opaque fill color and then outlined. After
// Redact returns, no pixel strictly inside any region box retains its
// original value. Applying the same region twice yields identical pixels.
func (r *Redactor) Redact(img *image.RGBA, regions []Region) error {
	if img == nil {
		return errors.New("nil image")
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return fmt.Errorf("empty image bounds %v", bounds)
	}
	for _, region := range regions {
		box := region.Box.Clamp(bounds.Dx(), bounds.Dy())
		if box.Empty() {
			continue
		}
		rect := box.Rect()
		utils.FillRect(img, rect, r.cfg.FillColor)
		utils.DrawRect(img, rect, r.cfg.OutlineColor, r.cfg.OutlineWidth)
		slog.Debug("redacted region",
			"x1", box.X1, "y1", box.Y1, "x2", box.X2, "y2", box.Y2,
			"text_len", len(region.SourceText))
	}
	return nil
}

// Config returns the redactor's drawing configuration.
func (r *Redactor) Config() RedactorConfig { return r.cfg }
