package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/phiredact/internal/utils"
)

// Discover finds the image files named by args: files are taken as-is,
// directories are scanned for supported image types, honoring the
// configured include and exclude patterns.
func Discover(args []string, cfg Config) ([]string, error) {
	var imageFiles []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			files, err := discoverInDirectory(arg, cfg)
			if err != nil {
				return nil, err
			}
			imageFiles = append(imageFiles, files...)
		} else if shouldIncludeFile(arg, cfg) {
			imageFiles = append(imageFiles, arg)
		}
	}

	return imageFiles, nil
}

// discoverInDirectory scans a directory for redactable images.
func discoverInDirectory(dir string, cfg Config) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !cfg.Recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if utils.IsSupportedImage(path) && shouldIncludeFile(path, cfg) {
			files = append(files, path)
		}

		return nil
	}

	return files, filepath.Walk(dir, walkFn)
}

// shouldIncludeFile applies the exclude patterns first, then the include
// patterns; with no include patterns everything not excluded passes.
func shouldIncludeFile(path string, cfg Config) bool {
	if matchesAnyPattern(path, cfg.ExcludePatterns) {
		return false
	}
	if len(cfg.IncludePatterns) == 0 {
		return true
	}
	return matchesAnyPattern(path, cfg.IncludePatterns)
}

func matchesAnyPattern(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
