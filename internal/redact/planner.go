package redact

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MeKo-Tech/phiredact/internal/geometry"
	"github.com/MeKo-Tech/phiredact/internal/ocr"
	"github.com/MeKo-Tech/phiredact/internal/phi"
)

// PlannerConfig holds redaction planning settings.
type PlannerConfig struct {
	// Threshold is the minimum PHI confidence; a line is redacted only
	// when the scoring policy clears it (strictly greater than).
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	// Policy selects the scoring policy: "top" (default), "max" or "any".
	Policy string `mapstructure:"policy" yaml:"policy" json:"policy"`
	// Workers bounds concurrent classification calls. 1 disables
	// concurrency; higher values fan out per line and reassemble results
	// in input order.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// DefaultPlannerConfig returns planner defaults.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		Threshold: phi.DefaultThreshold,
		Policy:    "top",
		Workers:   4,
	}
}

// Planner turns detected text lines into an ordered list of redaction
// regions by classifying each whole line and mapping its geometry.
type Planner struct {
	classifier phi.Classifier
	policy     phi.ScoringPolicy
	cfg        PlannerConfig
}

// NewPlanner creates a planner over the given classifier.
func NewPlanner(classifier phi.Classifier, cfg PlannerConfig) *Planner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Planner{
		classifier: classifier,
		policy:     phi.PolicyByName(cfg.Policy),
		cfg:        cfg,
	}
}

type classification struct {
	entities []phi.Entity
	err      error
}

// Plan classifies every LINE detection and returns the regions whose text
// is PHI, in input order. WORD detections are skipped: the classifier gets
// whole-line context or nothing. Per-line classification failures are
// accumulated and returned alongside the successes; Plan fails outright
// only when an individual geometry is unmappable or when every attempted
// classification failed, which indicates a service outage rather than a
// bad line.
func (p *Planner) Plan(ctx context.Context, lines []ocr.DetectedTextLine,
	width, height int,
) ([]Region, []LineFailure, error) {
	candidates := make([]int, 0, len(lines))
	for i, line := range lines {
		if line.Kind == ocr.KindLine {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil, nil, nil
	}

	results := p.classifyAll(ctx, lines, candidates)

	var regions []Region
	var failures []LineFailure
	for ci, lineIdx := range candidates {
		res := results[ci]
		if res.err != nil {
			slog.Warn("line classification failed",
				"line", lineIdx, "text_len", len(lines[lineIdx].Text), "error", res.err)
			failures = append(failures, LineFailure{Index: lineIdx, Err: res.err})
			continue
		}
		if !p.policy.IsPHI(res.entities, p.cfg.Threshold) {
			continue
		}
		box, err := mapGeometry(lines[lineIdx], width, height)
		if err != nil {
			return nil, failures, fmt.Errorf("map line %d geometry: %w", lineIdx, err)
		}
		regions = append(regions, Region{SourceText: lines[lineIdx].Text, Box: box})
	}

	if len(failures) == len(candidates) {
		return nil, failures, fmt.Errorf("all %d lines failed: %w", len(candidates), phi.ErrUnavailable)
	}
	return regions, failures, nil
}

// classifyAll runs classification for the candidate lines, concurrently
// when configured, and returns results indexed like candidates.
func (p *Planner) classifyAll(ctx context.Context, lines []ocr.DetectedTextLine,
	candidates []int,
) []classification {
	results := make([]classification, len(candidates))
	if p.cfg.Workers <= 1 || len(candidates) == 1 {
		for ci, lineIdx := range candidates {
			entities, err := p.classifier.DetectPHI(ctx, lines[lineIdx].Text)
			results[ci] = classification{entities: entities, err: err}
		}
		return results
	}

	sem := make(chan struct{}, p.cfg.Workers)
	var wg sync.WaitGroup
	for ci, lineIdx := range candidates {
		ci, lineIdx := ci, lineIdx
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			entities, err := p.classifier.DetectPHI(ctx, lines[lineIdx].Text)
			results[ci] = classification{entities: entities, err: err}
		}()
	}
	wg.Wait()
	return results
}

// mapGeometry prefers the detector's bounding box and falls back to the
// polygon's bounding box when no box was reported.
func mapGeometry(line ocr.DetectedTextLine, width, height int) (geometry.PixelBox, error) {
	if line.Box.Width > 0 && line.Box.Height > 0 {
		return geometry.BoxToPixels(line.Box, width, height)
	}
	return geometry.PolygonToPixels(line.Polygon, width, height)
}
