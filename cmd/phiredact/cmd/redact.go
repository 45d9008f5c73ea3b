package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/phiredact/internal/pipeline"
)

// redactCmd runs the pipeline once for a single stored image.
var redactCmd = &cobra.Command{
	Use:   "redact",
	Short: "Redact PHI from a single stored image",
	Long: `Run the redaction pipeline once for one object: fetch the image,
detect text, classify it for PHI, paint over the PHI regions and store
the redacted copy under the rewritten key.

By default the object lives in S3 and Rekognition reads it in place.
With --dir the object store is a local directory (the bucket is a
subdirectory, the key a relative path) and the image bytes are submitted
to Rekognition inline.

Examples:
  phiredact redact --bucket scans --key incoming/x_ray.jpg
  phiredact redact --bucket scans --key incoming/x_ray.jpg --threshold 0.5
  phiredact redact --dir ./data --bucket scans --key incoming/x_ray.jpg --preview`,
	RunE: runRedact,
}

func runRedact(cmd *cobra.Command, _ []string) error {
	cfg := GetConfig()

	bucket, _ := cmd.Flags().GetString("bucket")
	key, _ := cmd.Flags().GetString("key")
	if bucket == "" || key == "" {
		return fmt.Errorf("--bucket and --key are required")
	}
	localDir, _ := cmd.Flags().GetString("dir")

	pipelineCfg := cfg.Pipeline
	if cmd.Flags().Changed("threshold") {
		pipelineCfg.Planner.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("policy") {
		pipelineCfg.Planner.Policy, _ = cmd.Flags().GetString("policy")
	}
	if cmd.Flags().Changed("workers") {
		pipelineCfg.Planner.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("preview") {
		pipelineCfg.Preview, _ = cmd.Flags().GetBool("preview")
	}
	if cmd.Flags().Changed("call-timeout") {
		secs, _ := cmd.Flags().GetInt("call-timeout")
		pipelineCfg.CallTimeout = time.Duration(secs) * time.Second
	}

	ctx := cmd.Context()
	collab, err := buildCollaborators(ctx, cfg, localDir)
	if err != nil {
		return err
	}

	orch, err := pipeline.NewBuilder().
		WithConfig(pipelineCfg).
		WithStore(collab.store).
		WithDetector(collab.detector).
		WithClassifier(collab.classifier).
		Build()
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	res := orch.Run(ctx, pipeline.Event{Bucket: bucket, Key: key})
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Body)
	if res.StatusCode != 200 {
		return fmt.Errorf("redaction failed with status %d", res.StatusCode)
	}
	return nil
}

func init() {
	redactCmd.Flags().String("bucket", "", "bucket (or directory) holding the source image")
	redactCmd.Flags().String("key", "", "object key of the source image")
	redactCmd.Flags().String("dir", "", "use a local directory as the object store instead of S3")
	redactCmd.Flags().Float64("threshold", 0, "minimum PHI confidence for redaction")
	redactCmd.Flags().String("policy", "", "scoring policy (top, max, any)")
	redactCmd.Flags().Int("workers", 0, "concurrent classification calls (1 disables concurrency)")
	redactCmd.Flags().Bool("preview", false, "also store an animated audit preview next to the output")
	redactCmd.Flags().Int("call-timeout", 0, "per-call timeout in seconds for external services")

	rootCmd.AddCommand(redactCmd)
}
