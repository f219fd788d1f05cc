package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docmodel/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits for multi-tenant safety.
const (
	MaxTitleLength      = 200  // Document title
	MaxAuthorLength     = 100  // Author name
	MaxDateLength       = 30   // "2025-12-31" or "December 31, 2025"
	MaxLangLength       = 35   // BCP 47 language tag
	MaxFormatLength     = 10   // "latex", "revealjs", "docx", "epub"
	MaxPathLength       = 4096 // PATH_MAX on Linux
	MaxStyleLength      = 20   // "apa", "vancouver"
	MaxSortFieldLength  = 50   // BibTeX field name
	MaxEngineLength     = 50   // Registered checker name
	MaxDuplicatesLength = 10   // "first", "last"
)

// Config holds all configuration for document checking.
type Config struct {
	Input        InputConfig        `yaml:"input"`
	Output       OutputConfig       `yaml:"output"`
	Document     DocumentConfig     `yaml:"document"`
	Bibliography BibliographyConfig `yaml:"bibliography"`
	Math         MathConfig         `yaml:"math"`
	Strict       bool               `yaml:"strict"` // Treat warnings as failures
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines report destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default report directory (empty = stdout only)
}

// DocumentConfig defines document metadata defaults. Front matter in
// the document itself overrides these.
type DocumentConfig struct {
	Format string `yaml:"format"` // Target format: "latex", "html", "docx", "epub", ...
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Date   string `yaml:"date"` // "auto", a preset name, or a literal date
	Lang   string `yaml:"lang"` // BCP 47 tag, e.g. "en-US"
}

// BibliographyConfig defines citation resolution options.
type BibliographyConfig struct {
	Path       string `yaml:"path"`       // BibTeX file (empty = citations skipped)
	Style      string `yaml:"style"`      // "apa", "chicago", "mla", "harvard", "ieee", "vancouver"
	SortField  string `yaml:"sortField"`  // Field for numeric list ordering (empty = occurrence order)
	CaseFold   bool   `yaml:"caseFold"`   // Case-insensitive key matching
	Duplicates string `yaml:"duplicates"` // "first" or "last" occurrence wins (default: "first")
}

// MathConfig defines math validation options.
type MathConfig struct {
	Engine string `yaml:"engine"` // Registered checker name (empty = built-in syntactic)
	Skip   bool   `yaml:"skip"`   // Skip math validation entirely
}

// Validate checks field lengths to prevent abuse in multi-tenant scenarios.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., API adapters, library users).
func (c *Config) Validate() error {
	// Validate directory fields
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	// Validate document fields
	if err := validateFieldLength("document.format", c.Document.Format, MaxFormatLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.title", c.Document.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.author", c.Document.Author, MaxAuthorLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.date", c.Document.Date, MaxDateLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.lang", c.Document.Lang, MaxLangLength); err != nil {
		return err
	}

	// Validate bibliography fields
	if err := validateFieldLength("bibliography.path", c.Bibliography.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("bibliography.style", c.Bibliography.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("bibliography.sortField", c.Bibliography.SortField, MaxSortFieldLength); err != nil {
		return err
	}
	if err := validateFieldLength("bibliography.duplicates", c.Bibliography.Duplicates, MaxDuplicatesLength); err != nil {
		return err
	}
	if c.Bibliography.Duplicates != "" {
		switch strings.ToLower(c.Bibliography.Duplicates) {
		case "first", "last":
			// valid
		default:
			return fmt.Errorf("bibliography.duplicates: invalid value %q (must be first or last)", c.Bibliography.Duplicates)
		}
	}

	// Validate math fields
	if err := validateFieldLength("math.engine", c.Math.Engine, MaxEngineLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration with no defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Input:        InputConfig{DefaultDir: ""},
		Output:       OutputConfig{DefaultDir: ""},
		Document:     DocumentConfig{},
		Bibliography: BibliographyConfig{},
		Math:         MathConfig{},
		Strict:       false,
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the candidate paths LoadConfig tries for a config
// name, in search order. Useful for error hints.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "docmodel", name+ext))
		}
	}
	return paths
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/docmodel/
func resolveConfigPath(name string) (string, error) {
	candidates := SearchPaths(name)
	for _, p := range candidates {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(candidates, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
