package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	docmodel "github.com/alnah/go-docmodel"
	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/internal/config"
	"github.com/alnah/go-docmodel/internal/dateutil"
	"github.com/alnah/go-docmodel/internal/fileutil"
	"github.com/alnah/go-docmodel/internal/hints"
	"github.com/alnah/go-docmodel/internal/mathcheck"
)

// Sentinel errors for check command settings.
var (
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrUnknownStyle     = errors.New("unknown citation style")
	ErrInvalidTimeout   = errors.New("invalid timeout")
	ErrDocumentsInvalid = errors.New("documents failed validation")
)

// defaultFormat is assumed when neither flags, environment, nor config
// name one.
const defaultFormat = docmodel.FormatLaTeX

// runCheck orchestrates the check command.
func runCheck(ctx context.Context, positionalArgs []string, flags *checkFlags, pool Pool, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	// Environment variables fill gaps the config file leaves; CLI flags
	// override both below.
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	// Load configuration
	cfg := config.DefaultConfig()
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		loaded, err := config.LoadConfig(configName)
		if err != nil {
			// Search-path hints only make sense for config names; a path
			// was tried literally.
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(configName) {
				return fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(configName)))
			}
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)

	// Merge CLI flags into config (CLI wins)
	mergeFlags(flags, cfg)

	// Resolve "auto" date once for the entire batch
	resolvedDate, err := dateutil.ResolveDate(cfg.Document.Date, env.Now())
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	cfg.Document.Date = resolvedDate

	// Settle the target format
	format := defaultFormat
	if cfg.Document.Format != "" {
		parsed, ok := docmodel.ParseFormat(cfg.Document.Format)
		if !ok {
			return fmt.Errorf("%w: %q%s", ErrUnknownFormat, cfg.Document.Format, hints.ForUnknownFormat(formatNames()))
		}
		format = parsed
	}

	// Reject unknown citation styles before any file work
	if cfg.Bibliography.Style != "" {
		style := docmodel.CitationStyle(strings.ToLower(strings.TrimSpace(cfg.Bibliography.Style)))
		if !style.Valid() {
			return fmt.Errorf("%w: %q%s", ErrUnknownStyle, cfg.Bibliography.Style, hints.ForUnknownStyle(styleNames()))
		}
		cfg.Bibliography.Style = string(style)
	}

	// An unregistered engine degrades per document downstream; say so once
	if cfg.Math.Engine != "" && !cfg.Math.Skip {
		if _, ok := mathcheck.Lookup(cfg.Math.Engine); !ok {
			fmt.Fprintf(env.Stderr, "warning: math engine %q is not registered, math validation will be skipped%s\n",
				cfg.Math.Engine, hints.ForUnknownEngine(nil))
		}
	}

	// Load the bibliography once; it is shared across the batch
	bibSource, err := loadBibliography(cfg.Bibliography.Path)
	if err != nil {
		return err
	}

	// Resolve input path
	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	// Resolve report destination
	reportDir := resolveReportDir(flags.output, cfg)

	// Resolve per-run timeout
	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	params := &checkParams{
		opts:   buildOptions(cfg, bibSource),
		format: format,
	}

	runOnce := func(ctx context.Context) error {
		return checkOnce(ctx, inputPath, reportDir, timeout, params, flags, cfg.Strict, pool, env)
	}

	if flags.watch {
		return runWatch(ctx, inputPath, env, runOnce)
	}
	return runOnce(ctx)
}

// checkOnce discovers, checks, and reports one pass over the input.
func checkOnce(ctx context.Context, inputPath, reportDir string, timeout time.Duration, params *checkParams, flags *checkFlags, strict bool, pool Pool, env *Environment) error {
	files, err := discoverFiles(inputPath, reportDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no markdown files found in %s", inputPath)
	}

	checkCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		checkCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	results := checkBatch(checkCtx, pool, files, params)

	var summary ResultSummary
	if flags.jsonOutput {
		summary, err = printJSONResults(results, flags.common.verbose, env)
		if err != nil {
			return err
		}
	} else {
		summary = printResults(results, flags.common.quiet, flags.common.verbose, env)
	}

	if summary.Failed > 0 {
		if errors.Is(checkCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%d check(s) failed: %w%s", summary.Failed, checkCtx.Err(), hints.ForTimeout())
		}
		return fmt.Errorf("%d check(s) failed", summary.Failed)
	}

	invalid := summary.Invalid
	if strict {
		invalid += summary.Warned
	}
	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d document(s)", ErrDocumentsInvalid, invalid, len(results))
	}

	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *checkFlags, cfg *config.Config) {
	// Document flags
	if flags.document.format != "" {
		cfg.Document.Format = flags.document.format
	}
	if flags.document.title != "" {
		cfg.Document.Title = flags.document.title
	}
	if flags.document.author != "" {
		cfg.Document.Author = flags.document.author
	}
	if flags.document.date != "" {
		cfg.Document.Date = flags.document.date
	}
	if flags.document.lang != "" {
		cfg.Document.Lang = flags.document.lang
	}

	// Bibliography flags
	if flags.bibliography.path != "" {
		cfg.Bibliography.Path = flags.bibliography.path
	}
	if flags.bibliography.style != "" {
		cfg.Bibliography.Style = flags.bibliography.style
	}
	if flags.bibliography.sortField != "" {
		cfg.Bibliography.SortField = flags.bibliography.sortField
	}
	if flags.bibliography.caseFold {
		cfg.Bibliography.CaseFold = true
	}
	if flags.bibliography.dupPolicy != "" {
		cfg.Bibliography.Duplicates = flags.bibliography.dupPolicy
	}

	// Math flags
	if flags.math.engine != "" {
		cfg.Math.Engine = flags.math.engine
	}
	if flags.math.skip {
		cfg.Math.Skip = true
	}

	// Strict mode
	if flags.strict {
		cfg.Strict = true
	}
}

// loadBibliography reads the BibTeX source when a path is configured.
// Remote sources are rejected up front rather than failing the file probe.
func loadBibliography(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if fileutil.IsURL(path) {
		return "", fmt.Errorf("%w: %s (remote bibliographies are not supported)", ErrReadBibliography, path)
	}
	if !fileutil.FileExists(path) {
		return "", fmt.Errorf("%w: %s%s", ErrReadBibliography, path, hints.ForBibliographyNotFound())
	}
	data, err := os.ReadFile(path) // #nosec G304 -- bibliography path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadBibliography, err)
	}
	return string(data), nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveReportDir determines the report destination from flag or config.
// Empty means findings are printed without writing report files.
func resolveReportDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolveTimeout picks the per-run timeout: flag > environment > none.
func resolveTimeout(flagTimeout string, envTimeout time.Duration) (time.Duration, error) {
	if flagTimeout == "" {
		return envTimeout, nil
	}
	d, err := time.ParseDuration(flagTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use formats like 30s or 2m)", ErrInvalidTimeout, flagTimeout)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagTimeout)
	}
	return d, nil
}

// buildOptions maps the merged config onto the request options shared
// by every file in the batch.
func buildOptions(cfg *config.Config, bibSource string) *docmodel.Options {
	opts := docmodel.DefaultOptions()

	fm := ast.Metadata{}
	if cfg.Document.Title != "" {
		fm[ast.FieldTitle] = cfg.Document.Title
	}
	if cfg.Document.Author != "" {
		fm[ast.FieldAuthor] = cfg.Document.Author
	}
	if cfg.Document.Date != "" {
		fm[ast.FieldDate] = cfg.Document.Date
	}
	if cfg.Document.Lang != "" {
		fm[ast.FieldLang] = cfg.Document.Lang
	}
	if len(fm) > 0 {
		opts.Frontmatter = fm
	}

	if bibSource != "" {
		opts.Bibliography = &docmodel.BibliographyOptions{
			Source:     bibSource,
			Style:      docmodel.CitationStyle(cfg.Bibliography.Style),
			SortField:  cfg.Bibliography.SortField,
			CaseFold:   cfg.Bibliography.CaseFold,
			Duplicates: parseDupPolicy(cfg.Bibliography.Duplicates),
		}
	}

	if cfg.Math.Engine != "" || cfg.Math.Skip {
		opts.Math = &docmodel.MathOptions{
			Engine: cfg.Math.Engine,
			Skip:   cfg.Math.Skip,
		}
	}

	return opts
}

// parseDupPolicy maps the config value onto the request policy.
// Config validation already rejected anything else.
func parseDupPolicy(value string) docmodel.DuplicatePolicy {
	if strings.EqualFold(value, "last") {
		return docmodel.DuplicateLast
	}
	return docmodel.DuplicateFirst
}

// formatNames lists the supported formats for hints and completion.
func formatNames() []string {
	formats := docmodel.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// styleNames lists the supported citation styles for hints and completion.
func styleNames() []string {
	styles := docmodel.CitationStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return names
}
