package main

// Notes:
// - loadEnvConfig: we test all 11 environment variables across 3 tiers.
//   Invalid/negative values for timeout and workers are tested to verify
//   graceful handling (ignored, not errors).
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test priority behavior (env doesn't override config).
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"testing"
	"time"

	"github.com/alnah/go-docmodel/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("Tier 1 - Essential", func(t *testing.T) {
		t.Setenv("DOCMODEL_CONFIG", "/path/to/config.yaml")
		t.Setenv("DOCMODEL_FORMAT", "html")
		t.Setenv("DOCMODEL_TIMEOUT", "2m")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/path/to/config.yaml" {
			t.Errorf("ConfigPath = %q, want /path/to/config.yaml", cfg.ConfigPath)
		}
		if cfg.Format != "html" {
			t.Errorf("Format = %q, want html", cfg.Format)
		}
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
		}
	})

	t.Run("Tier 2 - I/O and bibliography", func(t *testing.T) {
		t.Setenv("DOCMODEL_INPUT_DIR", "/input")
		t.Setenv("DOCMODEL_OUTPUT_DIR", "/output")
		t.Setenv("DOCMODEL_BIB", "/refs/library.bib")
		t.Setenv("DOCMODEL_STYLE", "apa")

		cfg := loadEnvConfig()

		if cfg.InputDir != "/input" {
			t.Errorf("InputDir = %q, want /input", cfg.InputDir)
		}
		if cfg.OutputDir != "/output" {
			t.Errorf("OutputDir = %q, want /output", cfg.OutputDir)
		}
		if cfg.BibPath != "/refs/library.bib" {
			t.Errorf("BibPath = %q, want /refs/library.bib", cfg.BibPath)
		}
		if cfg.Style != "apa" {
			t.Errorf("Style = %q, want apa", cfg.Style)
		}
	})

	t.Run("Tier 3 - Extended", func(t *testing.T) {
		t.Setenv("DOCMODEL_MATH_ENGINE", "katex")
		t.Setenv("DOCMODEL_DOC_AUTHOR", "Jane Doe")
		t.Setenv("DOCMODEL_DOC_LANG", "fr")
		t.Setenv("DOCMODEL_WORKERS", "4")

		cfg := loadEnvConfig()

		if cfg.MathEngine != "katex" {
			t.Errorf("MathEngine = %q, want katex", cfg.MathEngine)
		}
		if cfg.DocAuthor != "Jane Doe" {
			t.Errorf("DocAuthor = %q, want Jane Doe", cfg.DocAuthor)
		}
		if cfg.DocLang != "fr" {
			t.Errorf("DocLang = %q, want fr", cfg.DocLang)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("invalid timeout ignored", func(t *testing.T) {
		t.Setenv("DOCMODEL_TIMEOUT", "invalid")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 (invalid value ignored)", cfg.Timeout)
		}
	})

	t.Run("negative timeout ignored", func(t *testing.T) {
		t.Setenv("DOCMODEL_TIMEOUT", "-5s")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 (negative value ignored)", cfg.Timeout)
		}
	})

	t.Run("invalid workers ignored", func(t *testing.T) {
		t.Setenv("DOCMODEL_WORKERS", "abc")

		cfg := loadEnvConfig()

		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0 (invalid value ignored)", cfg.Workers)
		}
	})

	t.Run("negative workers ignored", func(t *testing.T) {
		t.Setenv("DOCMODEL_WORKERS", "-2")

		cfg := loadEnvConfig()

		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0 (negative value ignored)", cfg.Workers)
		}
	})

	t.Run("empty env returns zero values", func(t *testing.T) {
		// No env vars set in this subtest

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "" {
			t.Errorf("ConfigPath = %q, want empty", cfg.ConfigPath)
		}
		if cfg.Format != "" {
			t.Errorf("Format = %q, want empty", cfg.Format)
		}
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Unknown variable detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("warns on unknown DOCMODEL_ vars", func(t *testing.T) {
		t.Setenv("DOCMODEL_TYPO", "value")
		t.Setenv("DOCMODEL_FROMAT", "latex")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		output := buf.String()
		if !bytes.Contains(buf.Bytes(), []byte("DOCMODEL_TYPO")) {
			t.Errorf("should warn about DOCMODEL_TYPO, got: %s", output)
		}
		if !bytes.Contains(buf.Bytes(), []byte("DOCMODEL_FROMAT")) {
			t.Errorf("should warn about DOCMODEL_FROMAT, got: %s", output)
		}
		if !bytes.Contains(buf.Bytes(), []byte("typo?")) {
			t.Errorf("should suggest typo, got: %s", output)
		}
	})

	t.Run("no warning for known vars", func(t *testing.T) {
		t.Setenv("DOCMODEL_CONFIG", "/path")
		t.Setenv("DOCMODEL_FORMAT", "latex")
		t.Setenv("DOCMODEL_TIMEOUT", "2m")
		t.Setenv("DOCMODEL_INPUT_DIR", "/input")
		t.Setenv("DOCMODEL_OUTPUT_DIR", "/output")
		t.Setenv("DOCMODEL_BIB", "/refs/library.bib")
		t.Setenv("DOCMODEL_STYLE", "apa")
		t.Setenv("DOCMODEL_MATH_ENGINE", "katex")
		t.Setenv("DOCMODEL_DOC_AUTHOR", "Jane")
		t.Setenv("DOCMODEL_DOC_LANG", "en")
		t.Setenv("DOCMODEL_WORKERS", "4")
		t.Setenv("DOCMODEL_CONTAINER", "1")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if buf.Len() > 0 {
			t.Errorf("should not warn for known vars, got: %s", buf.String())
		}
	})

	t.Run("ignores non-DOCMODEL vars", func(t *testing.T) {
		t.Setenv("PATH", "/usr/bin")
		t.Setenv("SOME_OTHER_VAR", "value")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		// Should not warn about unrelated env vars
		if bytes.Contains(buf.Bytes(), []byte("PATH")) {
			t.Errorf("should not warn about PATH")
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Config application with priority
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Run("applies env to empty config", func(t *testing.T) {
		env := &envConfig{
			Format:     "html",
			InputDir:   "/input",
			OutputDir:  "/output",
			BibPath:    "/refs/library.bib",
			Style:      "ieee",
			MathEngine: "katex",
			DocAuthor:  "Jane Doe",
			DocLang:    "fr",
		}
		cfg := config.DefaultConfig()

		applyEnvConfig(env, cfg)

		if cfg.Document.Format != "html" {
			t.Errorf("Document.Format = %q, want html", cfg.Document.Format)
		}
		if cfg.Input.DefaultDir != "/input" {
			t.Errorf("Input.DefaultDir = %q, want /input", cfg.Input.DefaultDir)
		}
		if cfg.Output.DefaultDir != "/output" {
			t.Errorf("Output.DefaultDir = %q, want /output", cfg.Output.DefaultDir)
		}
		if cfg.Bibliography.Path != "/refs/library.bib" {
			t.Errorf("Bibliography.Path = %q, want /refs/library.bib", cfg.Bibliography.Path)
		}
		if cfg.Bibliography.Style != "ieee" {
			t.Errorf("Bibliography.Style = %q, want ieee", cfg.Bibliography.Style)
		}
		if cfg.Math.Engine != "katex" {
			t.Errorf("Math.Engine = %q, want katex", cfg.Math.Engine)
		}
		if cfg.Document.Author != "Jane Doe" {
			t.Errorf("Document.Author = %q, want Jane Doe", cfg.Document.Author)
		}
		if cfg.Document.Lang != "fr" {
			t.Errorf("Document.Lang = %q, want fr", cfg.Document.Lang)
		}
	})

	t.Run("does not override existing config values", func(t *testing.T) {
		env := &envConfig{
			Format:    "html",
			Style:     "ieee",
			DocAuthor: "Env Author",
		}
		cfg := config.DefaultConfig()
		cfg.Document.Format = "epub"
		cfg.Bibliography.Style = "apa"
		cfg.Document.Author = "Config Author"

		applyEnvConfig(env, cfg)

		// Config values should be preserved (env only fills empty values)
		if cfg.Document.Format != "epub" {
			t.Errorf("Document.Format = %q, want epub (should not override)", cfg.Document.Format)
		}
		if cfg.Bibliography.Style != "apa" {
			t.Errorf("Bibliography.Style = %q, want apa (should not override)", cfg.Bibliography.Style)
		}
		if cfg.Document.Author != "Config Author" {
			t.Errorf("Document.Author = %q, want Config Author (should not override)", cfg.Document.Author)
		}
	})

	t.Run("empty env values do not affect config", func(t *testing.T) {
		env := &envConfig{} // All empty
		cfg := config.DefaultConfig()
		cfg.Document.Format = "latex"
		cfg.Document.Author = "Existing Author"

		applyEnvConfig(env, cfg)

		if cfg.Document.Format != "latex" {
			t.Errorf("Document.Format = %q, want latex", cfg.Document.Format)
		}
		if cfg.Document.Author != "Existing Author" {
			t.Errorf("Document.Author = %q, want Existing Author", cfg.Document.Author)
		}
	})
}

// ---------------------------------------------------------------------------
// TestKnownEnvVars - Known variable list completeness
// ---------------------------------------------------------------------------

func TestKnownEnvVars(t *testing.T) {
	expected := []string{
		"DOCMODEL_CONFIG",
		"DOCMODEL_FORMAT",
		"DOCMODEL_TIMEOUT",
		"DOCMODEL_INPUT_DIR",
		"DOCMODEL_OUTPUT_DIR",
		"DOCMODEL_BIB",
		"DOCMODEL_STYLE",
		"DOCMODEL_MATH_ENGINE",
		"DOCMODEL_DOC_AUTHOR",
		"DOCMODEL_DOC_LANG",
		"DOCMODEL_WORKERS",
		"DOCMODEL_CONTAINER",
	}

	for _, name := range expected {
		if !knownEnvVars[name] {
			t.Errorf("knownEnvVars missing %s", name)
		}
	}

	if len(knownEnvVars) != len(expected) {
		t.Errorf("knownEnvVars has %d entries, want %d", len(knownEnvVars), len(expected))
	}
}
