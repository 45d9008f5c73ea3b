// Package redact plans and applies PHI redaction regions on images.
package redact

import (
	"github.com/MeKo-Tech/phiredact/internal/geometry"
)

// Region is one rectangle to be obliterated in the output image, together
// with the text that put it there.
type Region struct {
	SourceText string            `json:"source_text"`
	Box        geometry.PixelBox `json:"box"`
}

// LineFailure records a detected line whose classification failed. These
// are reported to the caller and logged, never silently dropped.
type LineFailure struct {
	Index int   // index into the original detected-line slice
	Err   error
}
