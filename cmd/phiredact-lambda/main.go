// Lambda entrypoint for the redaction pipeline: S3 put events on the
// incoming prefix trigger one pipeline run per record.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehendmedical"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/MeKo-Tech/phiredact/internal/config"
	"github.com/MeKo-Tech/phiredact/internal/ocr"
	"github.com/MeKo-Tech/phiredact/internal/phi"
	"github.com/MeKo-Tech/phiredact/internal/pipeline"
	"github.com/MeKo-Tech/phiredact/internal/storage"
)

// Response carries the pipeline result back to the invoker in the shape
// API Gateway and test harnesses expect.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type handler struct {
	orchestrator *pipeline.Orchestrator
}

// Handle processes each S3 record in the event and returns the result of
// the last run. Object keys arrive URL-encoded and are decoded first.
func (h *handler) Handle(ctx context.Context, ev events.S3Event) (Response, error) {
	if len(ev.Records) == 0 {
		return Response{StatusCode: 400, Body: `{"error":"no records in event"}`}, nil
	}

	var res pipeline.Result
	for _, record := range ev.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			key = record.S3.Object.Key
		}
		res = h.orchestrator.Run(ctx, pipeline.Event{
			Bucket: record.S3.Bucket.Name,
			Key:    key,
		})
	}
	return Response{StatusCode: res.StatusCode, Body: res.Body}, nil
}

func newHandler(ctx context.Context) (*handler, error) {
	cfg := config.DefaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWS.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWS.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	orch, err := pipeline.NewBuilder().
		WithConfig(cfg.Pipeline).
		WithStore(storage.NewS3Store(s3.NewFromConfig(awsCfg))).
		WithDetector(ocr.NewRekognitionDetector(rekognition.NewFromConfig(awsCfg))).
		WithClassifier(phi.NewComprehendMedicalClassifier(comprehendmedical.NewFromConfig(awsCfg))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}
	return &handler{orchestrator: orch}, nil
}

// applyEnvOverrides maps the Lambda environment onto the configuration.
// The function environment is the only configuration surface here, so the
// file and flag layers of the CLI loader do not apply.
func applyEnvOverrides(cfg *config.Config) error {
	if v := os.Getenv("PHIREDACT_THRESHOLD"); v != "" {
		var threshold float64
		if _, err := fmt.Sscanf(v, "%f", &threshold); err != nil {
			return fmt.Errorf("parsing PHIREDACT_THRESHOLD %q: %w", v, err)
		}
		cfg.Pipeline.Planner.Threshold = threshold
	}
	if v := os.Getenv("PHIREDACT_POLICY"); v != "" {
		cfg.Pipeline.Planner.Policy = v
	}
	if v := os.Getenv("PHIREDACT_REWRITE_FROM"); v != "" {
		cfg.Pipeline.Rewrite.FromPrefix = v
	}
	if v := os.Getenv("PHIREDACT_REWRITE_TO"); v != "" {
		cfg.Pipeline.Rewrite.ToPrefix = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.AWS.Region = v
	}
	return cfg.Validate()
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()
	h, err := newHandler(ctx)
	if err != nil {
		slog.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	lambda.Start(h.Handle)
}
