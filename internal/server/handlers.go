package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/MeKo-Tech/phiredact/internal/pipeline"
	"github.com/MeKo-Tech/phiredact/internal/storage"
	"github.com/MeKo-Tech/phiredact/internal/utils"
	"github.com/MeKo-Tech/phiredact/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// eventsHandler accepts one storage trigger event and runs the pipeline.
// The response mirrors the structured result handed to trigger runtimes.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var ev EventRequest
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid event body: " + err.Error()})
		return
	}
	if ev.Bucket == "" || ev.Key == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bucket and key are required"})
		return
	}

	res := s.orchestrator.Run(r.Context(), pipeline.Event{Bucket: ev.Bucket, Key: ev.Key})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	_, _ = io.WriteString(w, res.Body)
}

// redactHandler accepts a multipart image upload, stages it in the upload
// bucket, runs the pipeline and returns the redacted image bytes.
func (s *Server) redactHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	maxBytes := s.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "upload too large or malformed: " + err.Error()})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing image form field"})
		return
	}
	defer func() { _ = file.Close() }()

	filename := path.Base(header.Filename)
	if !utils.IsSupportedImage(filename) {
		writeJSON(w, http.StatusUnsupportedMediaType,
			ErrorResponse{Error: fmt.Sprintf("unsupported file type %q", path.Ext(filename))})
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "reading upload: " + err.Error()})
		return
	}

	key := s.cfg.UploadPrefix + fmt.Sprintf("%d-%s", time.Now().UnixNano(), filename)
	err = s.store.Put(r.Context(), s.cfg.UploadBucket, key, storage.Object{Data: data})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "staging upload: " + err.Error()})
		return
	}

	res := s.orchestrator.Run(r.Context(), pipeline.Event{Bucket: s.cfg.UploadBucket, Key: key})
	if res.StatusCode != http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(res.StatusCode)
		_, _ = io.WriteString(w, res.Body)
		return
	}

	destKey := s.orchestrator.Config().Rewrite.Apply(key)
	out, err := s.store.Get(r.Context(), s.cfg.UploadBucket, destKey)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "fetching redacted image: " + err.Error()})
		return
	}
	_, format, _ := utils.DecodeImage(out)
	w.Header().Set("Content-Type", utils.ContentTypeForFormat(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		fmt.Fprintf(os.Stderr, "error encoding response: %v\n", err)
	}
}
