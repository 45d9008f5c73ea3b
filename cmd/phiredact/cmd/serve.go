package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/phiredact/internal/pipeline"
	"github.com/MeKo-Tech/phiredact/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the redaction API",
	Long: `Start an HTTP server that exposes the redaction pipeline.

The server provides the following endpoints:
  POST /redact  - Upload an image and receive the redacted copy
  POST /events  - Submit a storage trigger event (bucket + key)
  GET  /health  - Health check endpoint
  GET  /metrics - Prometheus metrics

Examples:
  phiredact serve
  phiredact serve --port 8080
  phiredact serve --host 0.0.0.0 --port 3000 --upload-bucket scans`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := GetConfig()

	host := cfg.Server.Host
	if cmd.Flags().Changed("host") {
		host, _ = cmd.Flags().GetString("host")
	}
	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}
	maxUploadMB := cfg.Server.MaxUploadMB
	if cmd.Flags().Changed("max-upload-size") {
		maxUploadMB, _ = cmd.Flags().GetInt("max-upload-size")
	}
	timeout := cfg.Server.TimeoutSec
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetInt("timeout")
	}
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if cmd.Flags().Changed("shutdown-timeout") {
		shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
	}
	uploadBucket, _ := cmd.Flags().GetString("upload-bucket")
	localDir, _ := cmd.Flags().GetString("dir")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collab, err := buildCollaborators(ctx, cfg, localDir)
	if err != nil {
		return err
	}

	orch, err := pipeline.NewBuilder().
		WithConfig(cfg.Pipeline).
		WithStore(collab.store).
		WithDetector(collab.detector).
		WithClassifier(collab.classifier).
		Build()
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	srv, err := server.NewServer(orch, collab.store, server.Config{
		Host:            host,
		Port:            port,
		MaxUploadMB:     int64(maxUploadMB),
		TimeoutSec:      timeout,
		ShutdownTimeout: shutdownTimeout,
		UploadBucket:    uploadBucket,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func init() {
	serveCmd.Flags().String("host", "localhost", "host to bind the server to")
	serveCmd.Flags().Int("port", 8080, "port to bind the server to")
	serveCmd.Flags().Int("max-upload-size", 25, "maximum upload size in MB")
	serveCmd.Flags().Int("timeout", 120, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "graceful shutdown timeout in seconds")
	serveCmd.Flags().String("upload-bucket", "", "bucket that receives images posted to /redact")
	serveCmd.Flags().String("dir", "", "use a local directory as the object store instead of S3")

	rootCmd.AddCommand(serveCmd)
}
