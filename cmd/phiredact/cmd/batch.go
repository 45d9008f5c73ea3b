package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/phiredact/internal/batch"
	"github.com/MeKo-Tech/phiredact/internal/pipeline"
)

// batchCmd redacts many local image files in one run.
var batchCmd = &cobra.Command{
	Use:   "batch [files or directories...]",
	Short: "Redact PHI from multiple local images",
	Long: `Discover image files in the given paths, stage each into the object
store and run the redaction pipeline over them with a worker pool.

By default the files are staged into a local directory store (--dir) and
the image bytes are submitted to Rekognition inline; redacted copies land
under the store's redacted prefix.

Examples:
  phiredact batch ./scans --dir ./work
  phiredact batch ./scans --dir ./work --recursive --workers 8
  phiredact batch ./scans --dir ./work --include "*.jpg" --format text`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	batchCfg := batch.DefaultConfig()
	batchCfg.Bucket, _ = cmd.Flags().GetString("bucket")
	batchCfg.Workers, _ = cmd.Flags().GetInt("workers")
	batchCfg.Recursive, _ = cmd.Flags().GetBool("recursive")
	batchCfg.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	batchCfg.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	batchCfg.Format, _ = cmd.Flags().GetString("format")
	batchCfg.OutputFile, _ = cmd.Flags().GetString("output")
	batchCfg.Quiet, _ = cmd.Flags().GetBool("quiet")
	batchCfg.ShowStats, _ = cmd.Flags().GetBool("stats")
	localDir, _ := cmd.Flags().GetString("dir")

	files, err := batch.Discover(args, batchCfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no image files found in the given paths")
	}

	ctx := cmd.Context()
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

	proc, err := batch.NewProcessor(orch, collab.store, batchCfg)
	if err != nil {
		return err
	}

	res, err := proc.Run(ctx, files)
	if err != nil {
		return err
	}

	if err := res.SaveResults(batchCfg.Format, batchCfg.OutputFile, batchCfg.Quiet); err != nil {
		return err
	}
	if batchCfg.ShowStats {
		res.PrintStats(batchCfg.Quiet)
	}
	if res.Failed() > 0 {
		return fmt.Errorf("%d of %d images failed to redact", res.Failed(), len(res.Items))
	}
	return nil
}

func init() {
	batchCmd.Flags().String("bucket", "batch", "bucket (or directory) that receives staged files and redacted copies")
	batchCmd.Flags().String("dir", ".phiredact-work", "local directory used as the object store")
	batchCmd.Flags().Int("workers", 4, "concurrent pipeline runs")
	batchCmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns of filenames to include")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns of filenames to exclude")
	batchCmd.Flags().String("format", "json", "output format (json, text)")
	batchCmd.Flags().StringP("output", "o", "", "write results to this file instead of stdout")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress non-result output")
	batchCmd.Flags().Bool("stats", false, "print processing statistics")

	rootCmd.AddCommand(batchCmd)
}
