package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	docmodel "github.com/alnah/go-docmodel"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToCheck represents a single file to process. ReportPath is empty
// when no report file should be written for it.
type FileToCheck struct {
	Path       string
	ReportPath string
}

// discoverFiles finds all markdown files to check.
func discoverFiles(inputPath, reportDir string) ([]FileToCheck, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		reportPath := resolveReportPath(inputPath, reportDir, "")
		return []FileToCheck{{Path: inputPath, ReportPath: reportPath}}, nil
	}

	var files []FileToCheck
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".markdown" {
			return nil
		}
		reportPath := resolveReportPath(path, reportDir, inputPath)
		files = append(files, FileToCheck{Path: path, ReportPath: reportPath})
		return nil
	})

	return files, err
}

// resolveReportPath determines the JSON report path for a markdown file.
// An empty reportDir means no report file is written. Subdirectory
// structure under baseInputDir is mirrored into reportDir.
func resolveReportPath(inputPath, reportDir, baseInputDir string) string {
	if reportDir == "" {
		return ""
	}

	if strings.HasSuffix(reportDir, ".json") {
		return reportDir
	}

	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(reportDir, relDir, base+".json")
		}
	}

	return filepath.Join(reportDir, base+".json")
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > docmodel.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, docmodel.MaxPoolSize)
	}
	return nil
}
