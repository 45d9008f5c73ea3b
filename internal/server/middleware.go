package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// withMetrics records request metrics and an access log line.
func (s *Server) withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if r.ContentLength > 0 {
			uploadSizeBytes.Observe(float64(r.ContentLength))
		}

		start := time.Now()
		next(rw, r)
		elapsed := time.Since(start)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rw.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())
		slog.Debug("http request",
			"method", r.Method, "path", r.URL.Path,
			"status", rw.statusCode, "duration_ms", elapsed.Milliseconds())
	}
}
