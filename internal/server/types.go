package server

import (
	"github.com/MeKo-Tech/phiredact/internal/pipeline"
	"github.com/MeKo-Tech/phiredact/internal/storage"
)

// Config holds server configuration.
type Config struct {
	Host            string
	Port            int
	MaxUploadMB     int64
	TimeoutSec      int
	ShutdownTimeout int
	// UploadBucket receives images posted to /redact before the pipeline
	// picks them up, so uploads and trigger events share one code path.
	UploadBucket string
	// UploadPrefix is prepended to uploaded object keys; it should match
	// the pipeline's rewrite FromPrefix.
	UploadPrefix string
}

// Server exposes the redaction pipeline over HTTP.
type Server struct {
	orchestrator *pipeline.Orchestrator
	store        storage.ObjectStore
	cfg          Config
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// EventRequest is the POST /events body: one storage trigger delivery.
type EventRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// ErrorResponse is the body of non-2xx API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
