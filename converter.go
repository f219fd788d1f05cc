package docmodel

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/bibtex"
	"github.com/alnah/go-docmodel/diag"
	"github.com/alnah/go-docmodel/internal/citation"
	"github.com/alnah/go-docmodel/internal/frontmatter"
	"github.com/alnah/go-docmodel/internal/linkcheck"
	"github.com/alnah/go-docmodel/internal/mathcheck"
	"github.com/alnah/go-docmodel/internal/mdparse"
	"github.com/alnah/go-docmodel/internal/metrics"
	"github.com/alnah/go-docmodel/internal/schema"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ mathcheck.Checker = mathcheck.Syntactic{}
	_ mathcheck.Checker = missingEngine{}
	_ metrics.Recorder  = metrics.NoopRecorder{}
	_ metrics.Recorder  = (*metrics.PrometheusRecorder)(nil)
)

// MathChecker validates one math expression. Implement it to plug an
// external engine in, then register it with RegisterMathChecker and
// select it through MathOptions.Engine.
type MathChecker = mathcheck.Checker

// MathResult reports one expression's verdict.
type MathResult = mathcheck.Result

// RegisterMathChecker makes an external math checker selectable by
// name through MathOptions.Engine.
func RegisterMathChecker(name string, c MathChecker) {
	mathcheck.Register(name, c)
}

// CitationManager resolves citation keys against a parsed
// bibliography index.
type CitationManager = citation.Manager

// NewCitationManager builds a citation manager from bibliography
// options. Duplicate keys in the bibliography are reported as
// warnings; which occurrence wins follows opts.Duplicates. Fails with
// ErrNoBibliography when no source is configured.
func NewCitationManager(opts *BibliographyOptions) (*CitationManager, []diag.Warning, error) {
	if opts == nil || opts.Source == "" {
		return nil, nil, ErrNoBibliography
	}
	entries := bibtex.Parse(opts.Source)
	idx := bibtex.NewIndex(entries, bibtex.IndexOptions{
		Duplicates: opts.Duplicates.Policy(),
		CaseFold:   opts.CaseFold,
	})
	var warns []diag.Warning
	for _, key := range idx.Duplicates() {
		warns = append(warns, diag.Warningf(diag.WarnDuplicateBibKey,
			"bibliography key %q appears more than once", key))
	}
	return citation.NewManager(idx), warns, nil
}

// Converter runs the document modeling pipeline: request validation,
// front matter extraction, parsing, math and link checks, and citation
// resolution. Create with New, then call Convert per request. A
// Converter is safe for concurrent use; every request gets its own
// tree, citation manager, and pipeline.
type Converter struct {
	cfg       converterConfig
	validator *schema.Validator
	parser    *mdparse.Parser
	logger    *slog.Logger
}

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	formats        []Format
	checker        mathcheck.Checker
	strictPipeline bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithFormats restricts the formats Convert accepts. Without this
// option every known format is allowed.
func WithFormats(formats ...Format) Option {
	return func(c *Converter) {
		c.cfg.formats = formats
	}
}

// WithLogger sets the logger for stage records. The default discards.
// Panics if l is nil (programmer error).
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("docmodel: WithLogger requires a non-nil logger")
	}
	return func(c *Converter) {
		c.logger = l
	}
}

// WithMathChecker overrides the math checker for every request,
// regardless of MathOptions.Engine.
func WithMathChecker(mc MathChecker) Option {
	return func(c *Converter) {
		c.cfg.checker = mc
	}
}

// WithStrictPipeline makes each request's pipeline fail stages left
// running at completion instead of recording them as-is.
func WithStrictPipeline() Option {
	return func(c *Converter) {
		c.cfg.strictPipeline = true
	}
}

// New creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithFormats, WithLogger).
func New(opts ...Option) *Converter {
	c := &Converter{
		parser: mdparse.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.validator = schema.New(c.cfg.formats...)
	return c
}

// Convert runs the full pipeline and returns the modeled document with
// its diagnostics. Validation problems are reported as data in
// result.Validation, never as a returned error; the error return is
// reserved for cancellation, an empty source, and internal failures.
// Recovers from internal panics to prevent crashes from propagating to
// callers.
func (c *Converter) Convert(ctx context.Context, req Request) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrConversionFailed, r)
		}
	}()

	if req.Source == "" {
		return nil, ErrEmptySource
	}

	opts := req.Options
	if opts == nil {
		opts = DefaultOptions()
	}

	p := NewPipeline(req.ID, c.pipelineOptions()...)
	log := c.logger.With("requestId", req.ID, "pipelineId", p.ID())

	var (
		errs  []diag.Error
		warns []diag.Warning
	)

	// Validate the request shape.
	p.StartStage(StageValidate)
	vErrs, vWarns := c.validator.ValidateRequest(req)
	errs = append(errs, vErrs...)
	warns = append(warns, vWarns...)
	c.closeStage(log, p, StageValidate, vErrs)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Split and validate front matter; request-level overrides win.
	p.StartStage(StageFrontmatter)
	meta, body, found := frontmatter.Split(req.Source)
	if meta == nil {
		meta = ast.Metadata{}
	}
	for k, v := range opts.Frontmatter {
		meta[k] = v
	}
	fmErrs, fmWarns := frontmatter.Validate(meta)
	for _, e := range fmErrs {
		// The request validator already reported override problems.
		if !hasErrorCode(errs, e.Code) {
			errs = append(errs, e)
		}
	}
	warns = append(warns, fmWarns...)
	log.Debug("front matter split", "found", found, "keys", len(meta))
	c.closeStage(log, p, StageFrontmatter, fmErrs)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Parse the body into the typed tree. Parsing never rejects
	// content, so the stage only completes.
	p.StartStage(StageParse)
	nodes, parseWarns := c.parser.Parse(body)
	doc := &ast.Document{Frontmatter: meta, Children: nodes}
	warns = append(warns, parseWarns...)
	c.closeStage(log, p, StageParse, nil)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Validate math expressions sequentially, in document order.
	if opts.Math == nil || !opts.Math.Skip {
		p.StartStage(StageMath)
		mResults, mWarns, mErr := mathcheck.CheckBatch(ctx, c.resolveChecker(opts.Math), mathcheck.Collect(doc))
		if mErr != nil {
			return nil, mErr
		}
		warns = append(warns, mWarns...)
		mathErrs := mathcheck.Errors(mResults)
		errs = append(errs, mathErrs...)
		c.closeStage(log, p, StageMath, mathErrs)
	}

	// Check link targets and internal anchors.
	p.StartStage(StageLinks)
	lErrs, lWarns := linkcheck.Check(doc)
	errs = append(errs, lErrs...)
	warns = append(warns, lWarns...)
	c.closeStage(log, p, StageLinks, lErrs)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Resolve and render citations when a bibliography is configured.
	var (
		stats    *CitationStats
		records  []CitationRecord
		rendered *RenderedCitations
	)
	if opts.Bibliography != nil && opts.Bibliography.Source != "" {
		p.StartStage(StageCitations)
		mgr, dupWarns, mgrErr := NewCitationManager(opts.Bibliography)
		if mgrErr != nil {
			p.FailStage(StageCitations, mgrErr.Error())
		} else {
			warns = append(warns, dupWarns...)
			keys := citation.ExtractKeys(doc)
			st := mgr.Stats(keys)
			warns = append(warns, st.Warnings()...)
			records = mgr.Records(keys)
			r := citation.Render(records, opts.Bibliography.Style, citation.RenderOptions{
				SortField: opts.Bibliography.SortField,
			})
			stats = &st
			rendered = &r
			c.closeStage(log, p, StageCitations, nil)
		}
	}

	res := diag.NewResult(errs, warns)
	var firstErr *diag.Error
	if len(res.Errors) > 0 {
		firstErr = &res.Errors[0]
	}
	p.Complete(len(res.Errors) == 0, firstErr)
	log.Info("conversion finished",
		"status", p.Status(),
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"elapsedMs", p.Elapsed(),
	)

	return &ConvertResult{
		Tree:        doc,
		Frontmatter: meta,
		Citations:   stats,
		Records:     records,
		Rendered:    rendered,
		Validation:  res,
		Pipeline:    p.State(),
	}, nil
}

// closeStage finishes a stage from its error slice and records the
// outcome.
func (c *Converter) closeStage(log *slog.Logger, p *Pipeline, name string, stageErrs []diag.Error) {
	if len(stageErrs) > 0 {
		p.FailStage(name, stageErrs[0].Message)
	} else {
		p.CompleteStage(name)
	}
	log.Debug("stage finished", "stage", name, "errors", len(stageErrs))
}

func (c *Converter) pipelineOptions() []PipelineOption {
	if c.cfg.strictPipeline {
		return []PipelineOption{WithStrictCompletion()}
	}
	return nil
}

// resolveChecker picks the math checker for a request: an explicit
// override first, then the engine named in the options. An unknown
// engine yields a checker that always degrades, so the batch reports
// it instead of failing.
func (c *Converter) resolveChecker(mo *MathOptions) mathcheck.Checker {
	if c.cfg.checker != nil {
		return c.cfg.checker
	}
	engine := ""
	if mo != nil {
		engine = mo.Engine
	}
	checker, ok := mathcheck.Lookup(engine)
	if !ok {
		return missingEngine{name: engine}
	}
	return checker
}

// missingEngine stands in for an engine name with no registration; its
// failure downgrades the math stage to accept-with-warning.
type missingEngine struct {
	name string
}

func (m missingEngine) Check(context.Context, string, ast.MathMode) (mathcheck.Result, error) {
	return mathcheck.Result{}, fmt.Errorf("math engine %q is not registered", m.name)
}

func hasErrorCode(errs []diag.Error, code diag.Code) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}
