package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-docmodel/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // DOCMODEL_CONFIG: config file name or path
	Format     string        // DOCMODEL_FORMAT: output format to validate against
	Timeout    time.Duration // DOCMODEL_TIMEOUT: per-run check timeout

	// Tier 2 - I/O and bibliography
	InputDir  string // DOCMODEL_INPUT_DIR: default input directory
	OutputDir string // DOCMODEL_OUTPUT_DIR: default report directory
	BibPath   string // DOCMODEL_BIB: BibTeX bibliography path
	Style     string // DOCMODEL_STYLE: citation style name

	// Tier 3 - Extended
	MathEngine string // DOCMODEL_MATH_ENGINE: registered math checker name
	DocAuthor  string // DOCMODEL_DOC_AUTHOR: document author override
	DocLang    string // DOCMODEL_DOC_LANG: document language override
	Workers    int    // DOCMODEL_WORKERS: parallel workers
}

// knownEnvVars lists valid DOCMODEL_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"DOCMODEL_CONFIG":  true,
	"DOCMODEL_FORMAT":  true,
	"DOCMODEL_TIMEOUT": true,
	// Tier 2 - I/O and bibliography
	"DOCMODEL_INPUT_DIR":  true,
	"DOCMODEL_OUTPUT_DIR": true,
	"DOCMODEL_BIB":        true,
	"DOCMODEL_STYLE":      true,
	// Tier 3 - Extended
	"DOCMODEL_MATH_ENGINE": true,
	"DOCMODEL_DOC_AUTHOR":  true,
	"DOCMODEL_DOC_LANG":    true,
	"DOCMODEL_WORKERS":     true,
	// Recognized by doctor, not by check
	"DOCMODEL_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized DOCMODEL_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("DOCMODEL_CONFIG"),
		Format:     os.Getenv("DOCMODEL_FORMAT"),
		// Tier 2
		InputDir:  os.Getenv("DOCMODEL_INPUT_DIR"),
		OutputDir: os.Getenv("DOCMODEL_OUTPUT_DIR"),
		BibPath:   os.Getenv("DOCMODEL_BIB"),
		Style:     os.Getenv("DOCMODEL_STYLE"),
		// Tier 3
		MathEngine: os.Getenv("DOCMODEL_MATH_ENGINE"),
		DocAuthor:  os.Getenv("DOCMODEL_DOC_AUTHOR"),
		DocLang:    os.Getenv("DOCMODEL_DOC_LANG"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("DOCMODEL_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("DOCMODEL_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized DOCMODEL_* variables.
// Helps catch typos like DOCMODEL_FROMAT instead of DOCMODEL_FORMAT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DOCMODEL_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Format (config path and timeout handled separately)
	if env.Format != "" && cfg.Document.Format == "" {
		cfg.Document.Format = env.Format
	}

	// Tier 2 - I/O
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}

	// Tier 2 - Bibliography
	if env.BibPath != "" && cfg.Bibliography.Path == "" {
		cfg.Bibliography.Path = env.BibPath
	}
	if env.Style != "" && cfg.Bibliography.Style == "" {
		cfg.Bibliography.Style = env.Style
	}

	// Tier 3 - Math and document metadata
	if env.MathEngine != "" && cfg.Math.Engine == "" {
		cfg.Math.Engine = env.MathEngine
	}
	if env.DocAuthor != "" && cfg.Document.Author == "" {
		cfg.Document.Author = env.DocAuthor
	}
	if env.DocLang != "" && cfg.Document.Lang == "" {
		cfg.Document.Lang = env.DocLang
	}
}
