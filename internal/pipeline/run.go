package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/phiredact/internal/ocr"
	"github.com/MeKo-Tech/phiredact/internal/phi"
	"github.com/MeKo-Tech/phiredact/internal/redact"
	"github.com/MeKo-Tech/phiredact/internal/storage"
	"github.com/MeKo-Tech/phiredact/internal/utils"
)

// Event is one trigger delivery: a newly created object to redact.
type Event struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// Result is the structured outcome handed back to the trigger runtime.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Summary is the success body of a Result.
type Summary struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Lines       int    `json:"lines"`
	Regions     int    `json:"regions"`
	FailedLines int    `json:"failed_lines"`
	ElapsedMS   int64  `json:"elapsed_ms"`
}

// Run executes one invocation. It never stores partial output: the result
// is written only after every region has been applied.
func (o *Orchestrator) Run(ctx context.Context, ev Event) Result {
	start := time.Now()
	log := slog.With("bucket", ev.Bucket, "key", ev.Key)
	log.Info("redaction invocation started")

	summary, err := o.run(ctx, ev, log)
	if err != nil {
		observeInvocation("error", time.Since(start))
		log.Error("redaction invocation failed", "error", err)
		return failureResult(err)
	}
	summary.ElapsedMS = time.Since(start).Milliseconds()
	observeInvocation("ok", time.Since(start))
	regionsRedacted.Observe(float64(summary.Regions))
	log.Info("redaction invocation completed",
		"destination", summary.Destination,
		"lines", summary.Lines,
		"regions", summary.Regions,
		"failed_lines", summary.FailedLines)

	body, _ := json.Marshal(summary)
	return Result{StatusCode: http.StatusOK, Body: string(body)}
}

func (o *Orchestrator) run(ctx context.Context, ev Event, log *slog.Logger) (*Summary, error) {
	img, format, err := o.fetchImage(ctx, ev)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	log.Debug("image fetched", "width", bounds.Dx(), "height", bounds.Dy(), "format", format)

	lines, err := o.detectText(ctx, ev)
	if err != nil {
		return nil, err
	}
	log.Debug("text detected", "lines", len(lines))

	regions, failures, err := o.planRedactions(ctx, lines, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		lineFailures.Inc()
		log.Warn("line skipped after classification failure", "line", f.Index, "error", f.Err)
	}
	log.Debug("redactions planned", "regions", len(regions), "failed_lines", len(failures))

	// The preview renders from the original pixels, so it is built
	// before the regions are burned in.
	var previewData []byte
	if o.cfg.Preview && len(regions) > 0 {
		if previewData, err = o.redactor.PreviewGIF(img, regions); err != nil {
			log.Warn("audit preview not rendered", "error", err)
			previewData = nil
		}
	}

	if err := o.applyRedactions(img, regions); err != nil {
		return nil, err
	}

	destKey, err := o.storeResult(ctx, ev, img, format)
	if err != nil {
		return nil, err
	}

	if previewData != nil {
		if err := o.storePreview(ctx, ev, destKey, previewData); err != nil {
			// Best effort: the redacted image is already stored.
			log.Warn("audit preview not stored", "error", err)
		}
	}

	return &Summary{
		Source:      ev.Bucket + "/" + ev.Key,
		Destination: ev.Bucket + "/" + destKey,
		Lines:       len(lines),
		Regions:     len(regions),
		FailedLines: len(failures),
	}, nil
}

func (o *Orchestrator) fetchImage(ctx context.Context, ev Event) (*image.RGBA, string, error) {
	defer observeStage(StageFetch, time.Now())
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()

	data, err := o.store.Get(callCtx, ev.Bucket, ev.Key)
	if err != nil {
		return nil, "", stageErr(StageFetch, err)
	}
	img, format, err := utils.DecodeImage(data)
	if err != nil {
		return nil, "", stageErr(StageFetch, err)
	}
	return img, format, nil
}

func (o *Orchestrator) detectText(ctx context.Context, ev Event) ([]ocr.DetectedTextLine, error) {
	defer observeStage(StageDetect, time.Now())
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()

	lines, err := o.detector.DetectText(callCtx, ev.Bucket, ev.Key)
	if err != nil {
		return nil, stageErr(StageDetect, err)
	}
	return lines, nil
}

func (o *Orchestrator) planRedactions(ctx context.Context, lines []ocr.DetectedTextLine,
	width, height int,
) ([]redact.Region, []redact.LineFailure, error) {
	defer observeStage(StagePlan, time.Now())
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()

	regions, failures, err := o.planner.Plan(callCtx, lines, width, height)
	if err != nil {
		return nil, nil, stageErr(StagePlan, err)
	}
	return regions, failures, nil
}

func (o *Orchestrator) applyRedactions(img *image.RGBA, regions []redact.Region) error {
	defer observeStage(StageApply, time.Now())
	if err := o.redactor.Redact(img, regions); err != nil {
		return stageErr(StageApply, err)
	}
	return nil
}

func (o *Orchestrator) storeResult(ctx context.Context, ev Event, img *image.RGBA,
	format string,
) (string, error) {
	defer observeStage(StageStore, time.Now())
	data, err := utils.EncodeImage(img, format)
	if err != nil {
		return "", stageErr(StageStore, err)
	}

	destKey := o.cfg.Rewrite.Apply(ev.Key)
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()
	err = o.store.Put(callCtx, ev.Bucket, destKey, storage.Object{
		Data:        data,
		ContentType: utils.ContentTypeForFormat(format),
	})
	if err != nil {
		return "", stageErr(StageStore, err)
	}
	return destKey, nil
}

func (o *Orchestrator) storePreview(ctx context.Context, ev Event, destKey string, data []byte) error {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()
	return o.store.Put(callCtx, ev.Bucket, destKey+o.cfg.PreviewSuffix, storage.Object{
		Data:        data,
		ContentType: "image/gif",
	})
}

func failureResult(err error) Result {
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	return Result{StatusCode: statusFor(err), Body: string(body)}
}

// statusFor maps the error taxonomy onto HTTP-shaped status codes for the
// trigger runtime. 5xx signals the infrastructure that a replay may help;
// 422 marks inputs that will never decode.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case isDecodeError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrFetch),
		errors.Is(err, storage.ErrStore),
		errors.Is(err, ocr.ErrUnavailable),
		errors.Is(err, phi.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func isDecodeError(err error) bool {
	var procErr *utils.ImageProcessingError
	if errors.As(err, &procErr) {
		return procErr.Operation == "decode"
	}
	return false
}

// StageOf extracts the failed stage from a Result-producing error chain,
// or an empty Stage for success paths. Used by log consumers and tests.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
