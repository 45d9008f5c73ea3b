package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// FormatResults renders the batch result in the given format: "json" is
// a machine-readable array of per-file outcomes, "text" a short table.
func (r *Result) FormatResults(format string) (string, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(r.Items, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding results: %w", err)
		}
		return string(out) + "\n", nil
	case "text":
		var b strings.Builder
		for _, item := range r.Items {
			status := "ok"
			if item.StatusCode != 200 {
				status = fmt.Sprintf("failed (%d)", item.StatusCode)
			}
			fmt.Fprintf(&b, "%s\t%s\t%s\n", item.Path, item.Key, status)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// SaveResults writes the formatted results to the output file, or stdout
// when none is configured.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
		return nil
	}
	_, _ = fmt.Fprint(os.Stdout, output)
	return nil
}

// PrintStats prints processing statistics to stdout.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}
	avg := time.Duration(0)
	if len(r.Items) > 0 {
		avg = r.Duration / time.Duration(len(r.Items))
	}
	_, _ = fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total images: %d\n", len(r.Items))
	_, _ = fmt.Fprintf(os.Stdout, "  Redacted: %d\n", r.Processed())
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", r.Failed())
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(os.Stdout, "  Avg per image: %v\n", avg.Round(time.Millisecond))
}
