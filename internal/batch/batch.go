// Package batch runs the redaction pipeline over many local image files:
// each file is staged into the object store under the incoming prefix,
// processed, and its result collected.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MeKo-Tech/phiredact/internal/pipeline"
	"github.com/MeKo-Tech/phiredact/internal/storage"
)

// Config holds batch processing settings.
type Config struct {
	// Bucket receives the staged files and their redacted copies.
	Bucket string
	// Workers bounds concurrent pipeline runs.
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Output settings
	Format     string
	OutputFile string
	Quiet      bool
	ShowStats  bool
}

// DefaultConfig returns batch settings with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Bucket:  "batch",
		Workers: 4,
		Format:  "json",
	}
}

// Item is the outcome of one file.
type Item struct {
	Path       string `json:"path"`
	Key        string `json:"key"`
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

// Result holds the outcome of a batch run.
type Result struct {
	Items       []Item
	Duration    time.Duration
	WorkerCount int
}

// Processed returns the number of successfully redacted files.
func (r *Result) Processed() int {
	n := 0
	for _, item := range r.Items {
		if item.StatusCode == 200 {
			n++
		}
	}
	return n
}

// Failed returns the number of files that did not redact cleanly.
func (r *Result) Failed() int {
	return len(r.Items) - r.Processed()
}

// Processor stages files into the store and runs the pipeline on each.
type Processor struct {
	orchestrator *pipeline.Orchestrator
	store        storage.ObjectStore
	cfg          Config
}

// NewProcessor creates a batch processor. The store must be the one the
// orchestrator reads from.
func NewProcessor(orch *pipeline.Orchestrator, store storage.ObjectStore, cfg Config) (*Processor, error) {
	if orch == nil {
		return nil, errors.New("orchestrator is required")
	}
	if store == nil {
		return nil, errors.New("object store is required")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "batch"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Processor{orchestrator: orch, store: store, cfg: cfg}, nil
}

// Run processes the given files with a bounded worker pool. Items come
// back in input order regardless of completion order. Run only errors
// when a file cannot be read; pipeline failures are reported per item.
func (p *Processor) Run(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	prefix := p.orchestrator.Config().Rewrite.FromPrefix

	items := make([]Item, len(paths))
	sem := make(chan struct{}, p.cfg.Workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			item, err := p.processFile(ctx, prefix, path)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			items[i] = item
		}(i, path)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &Result{
		Items:       items,
		Duration:    time.Since(start),
		WorkerCount: p.cfg.Workers,
	}, nil
}

func (p *Processor) processFile(ctx context.Context, prefix, path string) (Item, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from CLI file discovery
	if err != nil {
		return Item{}, fmt.Errorf("reading %s: %w", path, err)
	}

	key := prefix + filepath.Base(path)
	if err := p.store.Put(ctx, p.cfg.Bucket, key, storage.Object{Data: data}); err != nil {
		return Item{}, fmt.Errorf("staging %s: %w", path, err)
	}

	res := p.orchestrator.Run(ctx, pipeline.Event{Bucket: p.cfg.Bucket, Key: key})
	return Item{Path: path, Key: key, StatusCode: res.StatusCode, Body: res.Body}, nil
}
