// Package pipeline orchestrates one redaction invocation: fetch the image,
// detect text, plan redactions, burn them in, store the result. Every
// invocation is stateless and owns its image exclusively; retries belong
// to the trigger runtime.
package pipeline

import (
	"errors"
	"time"

	"github.com/MeKo-Tech/phiredact/internal/ocr"
	"github.com/MeKo-Tech/phiredact/internal/phi"
	"github.com/MeKo-Tech/phiredact/internal/redact"
	"github.com/MeKo-Tech/phiredact/internal/storage"
)

// Config holds configuration for the redaction pipeline.
type Config struct {
	// Planner configures classification threshold, policy and concurrency.
	Planner redact.PlannerConfig `mapstructure:"planner" yaml:"planner" json:"planner"`
	// Redactor configures fill and outline drawing.
	Redactor redact.RedactorConfig `mapstructure:"redactor" yaml:"redactor" json:"redactor"`
	// Rewrite derives the destination key from the source key.
	Rewrite storage.KeyRewrite `mapstructure:"rewrite" yaml:"rewrite" json:"rewrite"`
	// CallTimeout bounds each external call (fetch, detect, classify, store).
	CallTimeout time.Duration `mapstructure:"call_timeout" yaml:"call_timeout" json:"call_timeout"`
	// Preview also stores an animated audit GIF next to the output.
	Preview bool `mapstructure:"preview" yaml:"preview" json:"preview"`
	// PreviewSuffix is appended to the destination key for the audit GIF.
	PreviewSuffix string `mapstructure:"preview_suffix" yaml:"preview_suffix" json:"preview_suffix"`
}

// DefaultConfig returns pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Planner:       redact.DefaultPlannerConfig(),
		Redactor:      redact.DefaultRedactorConfig(),
		Rewrite:       storage.DefaultKeyRewrite(),
		CallTimeout:   30 * time.Second,
		Preview:       false,
		PreviewSuffix: ".audit.gif",
	}
}

// Builder constructs an Orchestrator with fluent configuration. The
// external collaborators are injected here, never held as globals, so
// tests can substitute doubles.
type Builder struct {
	cfg        Config
	store      storage.ObjectStore
	detector   ocr.TextDetector
	classifier phi.Classifier
}

// NewBuilder creates a builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithStore sets the object store collaborator.
func (b *Builder) WithStore(store storage.ObjectStore) *Builder {
	b.store = store
	return b
}

// WithDetector sets the text-detection collaborator.
func (b *Builder) WithDetector(det ocr.TextDetector) *Builder {
	b.detector = det
	return b
}

// WithClassifier sets the PHI-classification collaborator.
func (b *Builder) WithClassifier(cls phi.Classifier) *Builder {
	b.classifier = cls
	return b
}

// WithThreshold overrides the PHI confidence threshold.
func (b *Builder) WithThreshold(t float64) *Builder {
	if t > 0 {
		b.cfg.Planner.Threshold = t
	}
	return b
}

// WithPolicy selects the scoring policy by name ("top", "max", "any").
func (b *Builder) WithPolicy(name string) *Builder {
	if name != "" {
		b.cfg.Planner.Policy = name
	}
	return b
}

// WithWorkers bounds concurrent classification calls.
func (b *Builder) WithWorkers(n int) *Builder {
	if n > 0 {
		b.cfg.Planner.Workers = n
	}
	return b
}

// WithRewrite sets the destination key rewrite rule.
func (b *Builder) WithRewrite(rule storage.KeyRewrite) *Builder {
	b.cfg.Rewrite = rule
	return b
}

// WithCallTimeout bounds each external call.
func (b *Builder) WithCallTimeout(d time.Duration) *Builder {
	if d > 0 {
		b.cfg.CallTimeout = d
	}
	return b
}

// WithPreview toggles the animated audit artifact.
func (b *Builder) WithPreview(enabled bool) *Builder {
	b.cfg.Preview = enabled
	return b
}

// WithRedactorConfig overrides the drawing configuration.
func (b *Builder) WithRedactorConfig(cfg redact.RedactorConfig) *Builder {
	b.cfg.Redactor = cfg
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Build validates collaborators and assembles the orchestrator.
func (b *Builder) Build() (*Orchestrator, error) {
	if b.store == nil {
		return nil, errors.New("object store is required")
	}
	if b.detector == nil {
		return nil, errors.New("text detector is required")
	}
	if b.classifier == nil {
		return nil, errors.New("phi classifier is required")
	}
	if b.cfg.CallTimeout <= 0 {
		return nil, errors.New("call timeout must be positive")
	}
	return &Orchestrator{
		cfg:      b.cfg,
		store:    b.store,
		detector: b.detector,
		planner:  redact.NewPlanner(b.classifier, b.cfg.Planner),
		redactor: redact.NewRedactor(b.cfg.Redactor),
	}, nil
}

// Orchestrator runs the staged redaction pipeline.
type Orchestrator struct {
	cfg      Config
	store    storage.ObjectStore
	detector ocr.TextDetector
	planner  *redact.Planner
	redactor *redact.Redactor
}

// Config returns the orchestrator configuration.
func (o *Orchestrator) Config() Config { return o.cfg }
