package docmodel

// Notes:
// - Convert reports content problems as diagnostics, so most tests
//   assert on result.Validation and the pipeline record, not on err.
// - The error return is exercised only by cancellation, empty source,
//   and the panic guard.

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/diag"
)

const testBib = `@article{smith2020,
  author  = {Jane Smith},
  title   = {A Study},
  journal = {Journal of Tests},
  year    = {2020}
}`

func bibOptions() *BibliographyOptions {
	return &BibliographyOptions{Source: testBib, Style: StyleAPA}
}

func hasWarnCode(warns []diag.Warning, code diag.Code) bool {
	for _, w := range warns {
		if w.Code == code {
			return true
		}
	}
	return false
}

func stageByName(stages []Stage, name string) (Stage, bool) {
	for _, s := range stages {
		if s.Name == name {
			return s, true
		}
	}
	return Stage{}, false
}

// ---------------------------------------------------------------------------
// TestConvert_EndToEnd - full pipeline on a clean document
// ---------------------------------------------------------------------------

func TestConvert_EndToEnd(t *testing.T) {
	t.Parallel()

	conv := New()
	result, err := conv.Convert(context.Background(), Request{
		ID:     "req-1",
		Source: "# Title\n\nSee [@smith2020].\n",
		Format: FormatLaTeX,
		Options: &Options{
			Bibliography: bibOptions(),
		},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	if !result.Validation.Valid {
		t.Fatalf("Validation.Valid = false, errors: %v", result.Validation.Errors)
	}
	if len(result.Tree.Children) != 1 {
		t.Fatalf("tree has %d top-level nodes, want 1", len(result.Tree.Children))
	}
	sec, ok := result.Tree.Children[0].(*ast.Section)
	if !ok || sec.Title != "Title" {
		t.Fatalf("top node = %#v, want section %q", result.Tree.Children[0], "Title")
	}

	if result.Citations == nil || result.Citations.Total != 1 || result.Citations.Resolved != 1 {
		t.Fatalf("Citations = %+v, want 1 total, 1 resolved", result.Citations)
	}
	if result.Rendered == nil {
		t.Fatal("Rendered is nil with a bibliography configured")
	}
	if len(result.Rendered.InText) != 1 || result.Rendered.InText[0] != "(Smith, 2020)" {
		t.Errorf("InText = %v, want [(Smith, 2020)]", result.Rendered.InText)
	}
	if len(result.Rendered.Bibliography) != 1 || !strings.Contains(result.Rendered.Bibliography[0], "2020") {
		t.Errorf("Bibliography = %v, want the entry rendered", result.Rendered.Bibliography)
	}

	p := result.Pipeline
	if p.Status != StatusCompleted {
		t.Errorf("pipeline status = %s, want %s", p.Status, StatusCompleted)
	}
	wantStages := []string{StageValidate, StageFrontmatter, StageParse, StageMath, StageLinks, StageCitations}
	if len(p.Stages) != len(wantStages) {
		t.Fatalf("pipeline has %d stages, want %d", len(p.Stages), len(wantStages))
	}
	for i, name := range wantStages {
		if p.Stages[i].Name != name {
			t.Errorf("stage[%d] = %s, want %s", i, p.Stages[i].Name, name)
		}
		if p.Stages[i].Status != StageComplete {
			t.Errorf("stage %s = %s, want complete", name, p.Stages[i].Status)
		}
	}
	if p.Result == nil || !p.Result.Success {
		t.Errorf("pipeline result = %+v, want success", p.Result)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_EmptySource - the one thrown request error
// ---------------------------------------------------------------------------

func TestConvert_EmptySource(t *testing.T) {
	t.Parallel()

	_, err := New().Convert(context.Background(), Request{ID: "req-1"})
	if !errors.Is(err, ErrEmptySource) {
		t.Fatalf("Convert error = %v, want ErrEmptySource", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_InvalidFormat - diagnostics without aborting
// ---------------------------------------------------------------------------

func TestConvert_InvalidFormat(t *testing.T) {
	t.Parallel()

	result, err := New().Convert(context.Background(), Request{
		ID:      "req-1",
		Source:  "# Still Parsed\n\nBody.\n",
		Format:  "docbook",
		Options: &Options{},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	if result.Validation.Valid {
		t.Fatal("Validation.Valid = true for unknown format")
	}
	found := false
	for _, e := range result.Validation.Errors {
		if e.Code == diag.CodeInvalidFormat {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want %s", result.Validation.Errors, diag.CodeInvalidFormat)
	}

	// Best effort: the tree is still built.
	if len(result.Tree.Children) != 1 {
		t.Errorf("tree has %d nodes, want the section parsed anyway", len(result.Tree.Children))
	}
	if result.Pipeline.Status != StatusFailed {
		t.Errorf("pipeline status = %s, want %s", result.Pipeline.Status, StatusFailed)
	}
	if s, ok := stageByName(result.Pipeline.Stages, StageValidate); !ok || s.Status != StageFailed {
		t.Errorf("validate stage = %+v, want failed", s)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_AllowedFormats - caller allow-list
// ---------------------------------------------------------------------------

func TestConvert_AllowedFormats(t *testing.T) {
	t.Parallel()

	conv := New(WithFormats(FormatHTML))
	result, err := conv.Convert(context.Background(), Request{
		ID:      "req-1",
		Source:  "# T\n\nx.\n",
		Format:  FormatLaTeX,
		Options: &Options{},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	found := false
	for _, e := range result.Validation.Errors {
		if e.Code == diag.CodeUnsupportedFormat {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want %s", result.Validation.Errors, diag.CodeUnsupportedFormat)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_FrontmatterOverrides - request metadata wins
// ---------------------------------------------------------------------------

func TestConvert_FrontmatterOverrides(t *testing.T) {
	t.Parallel()

	result, err := New().Convert(context.Background(), Request{
		ID:     "req-1",
		Source: "---\ntitle: Draft\nauthor: Ada\n---\n\n# Body\n\nText.\n",
		Format: FormatHTML,
		Options: &Options{
			Frontmatter: ast.Metadata{"title": "Final"},
		},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	if got := result.Frontmatter["title"]; got != "Final" {
		t.Errorf("title = %v, want the override", got)
	}
	if got := result.Frontmatter["author"]; got != "Ada" {
		t.Errorf("author = %v, want the document value kept", got)
	}
	if hasWarnCode(result.Validation.Warnings, diag.WarnMissingTitle) {
		t.Error("missing-title warned despite a title")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_MissingTitleWarning
// ---------------------------------------------------------------------------

func TestConvert_MissingTitleWarning(t *testing.T) {
	t.Parallel()

	result, err := New().Convert(context.Background(), Request{
		ID:      "req-1",
		Source:  "# No Front Matter\n\nText.\n",
		Format:  FormatHTML,
		Options: &Options{},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !result.Validation.Valid {
		t.Fatalf("warnings must not invalidate: %v", result.Validation.Errors)
	}
	if !hasWarnCode(result.Validation.Warnings, diag.WarnMissingTitle) {
		t.Errorf("warnings = %v, want %s", result.Validation.Warnings, diag.WarnMissingTitle)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_InvalidMath - expression errors carry positions
// ---------------------------------------------------------------------------

func TestConvert_InvalidMath(t *testing.T) {
	t.Parallel()

	result, err := New().Convert(context.Background(), Request{
		ID:      "req-1",
		Source:  "# T\n\nBroken $\\frac{1}{$ here.\n",
		Format:  FormatLaTeX,
		Options: &Options{},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	if result.Validation.Valid {
		t.Fatal("Validation.Valid = true for broken math")
	}
	var mathErr *diag.Error
	for i, e := range result.Validation.Errors {
		if e.Code == diag.CodeInvalidMath {
			mathErr = &result.Validation.Errors[i]
		}
	}
	if mathErr == nil {
		t.Fatalf("errors = %v, want %s", result.Validation.Errors, diag.CodeInvalidMath)
	}
	if mathErr.Location != "math[0]" {
		t.Errorf("location = %q, want math[0]", mathErr.Location)
	}
	if s, ok := stageByName(result.Pipeline.Stages, StageMath); !ok || s.Status != StageFailed {
		t.Errorf("math stage = %+v, want failed", s)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_SkipMath
// ---------------------------------------------------------------------------

func TestConvert_SkipMath(t *testing.T) {
	t.Parallel()

	result, err := New().Convert(context.Background(), Request{
		ID:     "req-1",
		Source: "# T\n\nBroken $\\frac{1}{$ here.\n",
		Format: FormatLaTeX,
		Options: &Options{
			Math: &MathOptions{Skip: true},
		},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !result.Validation.Valid {
		t.Fatalf("skip still validated math: %v", result.Validation.Errors)
	}
	if _, ok := stageByName(result.Pipeline.Stages, StageMath); ok {
		t.Error("math stage recorded despite Skip")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_UnknownEngineDegrades
// ---------------------------------------------------------------------------

func TestConvert_UnknownEngineDegrades(t *testing.T) {
	t.Parallel()

	result, err := New().Convert(context.Background(), Request{
		ID:     "req-1",
		Source: "# T\n\nFine $x^2$ math.\n",
		Format: FormatLaTeX,
		Options: &Options{
			Math: &MathOptions{Engine: "tex-daemon"},
		},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !result.Validation.Valid {
		t.Fatalf("degraded checker must accept: %v", result.Validation.Errors)
	}
	if !hasWarnCode(result.Validation.Warnings, diag.WarnCheckerUnavailable) {
		t.Fatalf("warnings = %v, want %s", result.Validation.Warnings, diag.WarnCheckerUnavailable)
	}
	for _, w := range result.Validation.Warnings {
		if w.Code == diag.WarnCheckerUnavailable && !strings.Contains(w.Message, "tex-daemon") {
			t.Errorf("warning message = %q, want the engine named", w.Message)
		}
	}
}

// ---------------------------------------------------------------------------
// TestConvert_LinkDiagnostics
// ---------------------------------------------------------------------------

func TestConvert_LinkDiagnostics(t *testing.T) {
	t.Parallel()

	result, err := New().Convert(context.Background(), Request{
		ID:      "req-1",
		Source:  "# T\n\n[bad](http://) and [lost](#nowhere).\n",
		Format:  FormatHTML,
		Options: &Options{},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	foundURL := false
	for _, e := range result.Validation.Errors {
		if e.Code == diag.CodeMalformedURL {
			foundURL = true
		}
	}
	if !foundURL {
		t.Errorf("errors = %v, want %s", result.Validation.Errors, diag.CodeMalformedURL)
	}
	if !hasWarnCode(result.Validation.Warnings, diag.WarnBrokenAnchor) {
		t.Errorf("warnings = %v, want %s", result.Validation.Warnings, diag.WarnBrokenAnchor)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_UnresolvedCitations
// ---------------------------------------------------------------------------

func TestConvert_UnresolvedCitations(t *testing.T) {
	t.Parallel()

	result, err := New().Convert(context.Background(), Request{
		ID:     "req-1",
		Source: "# T\n\nSee [@ghost2024] and [@smith2020].\n",
		Format: FormatLaTeX,
		Options: &Options{
			Bibliography: bibOptions(),
		},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	if !result.Validation.Valid {
		t.Fatalf("unresolved citations are warnings, got errors: %v", result.Validation.Errors)
	}
	if !hasWarnCode(result.Validation.Warnings, diag.WarnUnresolvedCitation) {
		t.Fatalf("warnings = %v, want %s", result.Validation.Warnings, diag.WarnUnresolvedCitation)
	}
	st := result.Citations
	if st.Total != 2 || st.Resolved != 1 {
		t.Errorf("stats = %+v, want 2 total, 1 resolved", st)
	}
	if len(st.Unresolved) != 1 || st.Unresolved[0] != "ghost2024" {
		t.Errorf("Unresolved = %v, want [ghost2024]", st.Unresolved)
	}
	if len(result.Records) != 1 || result.Records[0].Key != "smith2020" {
		t.Errorf("Records = %v, want only the resolved key", result.Records)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_DuplicateBibKeys
// ---------------------------------------------------------------------------

func TestConvert_DuplicateBibKeys(t *testing.T) {
	t.Parallel()

	dupBib := testBib + "\n@article{smith2020,\n  author = {Someone Else},\n  title = {Shadowed},\n  year = {2021}\n}"
	result, err := New().Convert(context.Background(), Request{
		ID:     "req-1",
		Source: "# T\n\nSee [@smith2020].\n",
		Format: FormatLaTeX,
		Options: &Options{
			Bibliography: &BibliographyOptions{Source: dupBib, Style: StyleAPA},
		},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !hasWarnCode(result.Validation.Warnings, diag.WarnDuplicateBibKey) {
		t.Errorf("warnings = %v, want %s", result.Validation.Warnings, diag.WarnDuplicateBibKey)
	}
	if len(result.Records) != 1 {
		t.Fatalf("Records = %v, want one", result.Records)
	}
	// First occurrence wins by default.
	if got := result.Records[0].Entry.Field("title"); got != "A Study" {
		t.Errorf("resolved title = %q, want the first occurrence", got)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_NoBibliographySkipsCitations
// ---------------------------------------------------------------------------

func TestConvert_NoBibliographySkipsCitations(t *testing.T) {
	t.Parallel()

	result, err := New().Convert(context.Background(), Request{
		ID:      "req-1",
		Source:  "# T\n\nSee [@smith2020].\n",
		Format:  FormatLaTeX,
		Options: &Options{},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if result.Citations != nil || result.Rendered != nil {
		t.Errorf("citation output without a bibliography: %+v / %+v", result.Citations, result.Rendered)
	}
	if _, ok := stageByName(result.Pipeline.Stages, StageCitations); ok {
		t.Error("citations stage recorded without a bibliography")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_ContextCancelled
// ---------------------------------------------------------------------------

func TestConvert_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Convert(ctx, Request{
		ID:      "req-1",
		Source:  "# T\n\nx.\n",
		Format:  FormatHTML,
		Options: &Options{},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Convert error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_RecoversFromPanic
// ---------------------------------------------------------------------------

type panickingChecker struct{}

func (panickingChecker) Check(context.Context, string, ast.MathMode) (MathResult, error) {
	panic("checker exploded")
}

func TestConvert_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	conv := New(WithMathChecker(panickingChecker{}))
	_, err := conv.Convert(context.Background(), Request{
		ID:      "req-1",
		Source:  "# T\n\nSome $x$ math.\n",
		Format:  FormatLaTeX,
		Options: &Options{},
	})
	if !errors.Is(err, ErrConversionFailed) {
		t.Fatalf("Convert error = %v, want ErrConversionFailed", err)
	}
	if !strings.Contains(err.Error(), "internal error") {
		t.Errorf("error = %q, want the panic wrapped", err)
	}
}

// ---------------------------------------------------------------------------
// TestRegisterMathChecker - engine selection end to end
// ---------------------------------------------------------------------------

type rejectAllChecker struct{}

func (rejectAllChecker) Check(context.Context, string, ast.MathMode) (MathResult, error) {
	return MathResult{Valid: false, Reason: "rejected by policy"}, nil
}

func TestRegisterMathChecker(t *testing.T) {
	t.Parallel()

	RegisterMathChecker("reject-all", rejectAllChecker{})

	result, err := New().Convert(context.Background(), Request{
		ID:     "req-1",
		Source: "# T\n\nFine $x^2$ math.\n",
		Format: FormatLaTeX,
		Options: &Options{
			Math: &MathOptions{Engine: "reject-all"},
		},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if result.Validation.Valid {
		t.Fatal("the registered engine's verdict was ignored")
	}
	found := false
	for _, e := range result.Validation.Errors {
		if e.Code == diag.CodeInvalidMath && strings.Contains(e.Message, "rejected by policy") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want the engine's reason", result.Validation.Errors)
	}
}

// ---------------------------------------------------------------------------
// TestNewCitationManager
// ---------------------------------------------------------------------------

func TestNewCitationManager(t *testing.T) {
	t.Parallel()

	if _, _, err := NewCitationManager(nil); !errors.Is(err, ErrNoBibliography) {
		t.Fatalf("NewCitationManager(nil) error = %v, want ErrNoBibliography", err)
	}
	if _, _, err := NewCitationManager(&BibliographyOptions{}); !errors.Is(err, ErrNoBibliography) {
		t.Fatalf("empty source error = %v, want ErrNoBibliography", err)
	}

	mgr, warns, err := NewCitationManager(bibOptions())
	if err != nil {
		t.Fatalf("NewCitationManager error: %v", err)
	}
	if mgr == nil {
		t.Fatal("manager is nil")
	}
	if len(warns) != 0 {
		t.Errorf("warnings = %v, want none for a clean bibliography", warns)
	}
	if _, ok := mgr.Resolve("smith2020"); !ok {
		t.Error("smith2020 should resolve")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_StrictPipeline - option smoke test
// ---------------------------------------------------------------------------

func TestConvert_StrictPipeline(t *testing.T) {
	t.Parallel()

	result, err := New(WithStrictPipeline()).Convert(context.Background(), Request{
		ID:      "req-1",
		Source:  "# T\n\nx.\n",
		Format:  FormatHTML,
		Options: &Options{},
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	// Convert closes every stage it starts, so strict mode changes
	// nothing on the happy path.
	if result.Pipeline.Status != StatusCompleted {
		t.Errorf("pipeline status = %s, want %s", result.Pipeline.Status, StatusCompleted)
	}
}
