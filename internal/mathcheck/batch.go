package mathcheck

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/diag"
)

// Expression is one math node lifted out of a document. Position is
// the node's order of appearance and fixes the result order.
type Expression struct {
	Position int
	Expr     string
	Mode     ast.MathMode
}

// BatchResult pairs a verdict with the expression it belongs to.
type BatchResult struct {
	Position int    `json:"position"`
	Expr     string `json:"expr"`
	Result
}

// Collect walks doc and returns every math expression in document
// order, positions starting at zero.
func Collect(doc *ast.Document) []Expression {
	var exprs []Expression
	_ = doc.Walk(func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if m, ok := n.(*ast.Math); ok {
			exprs = append(exprs, Expression{
				Position: len(exprs),
				Expr:     m.Expr,
				Mode:     m.Mode,
			})
		}
		return ast.WalkContinue, nil
	})
	return exprs
}

// CheckBatch validates expressions one at a time and returns results
// ordered by position. A nil or failing checker degrades to accepting
// every remaining expression, reported once as a warning; context
// cancellation still aborts the batch.
func CheckBatch(ctx context.Context, c Checker, exprs []Expression) ([]BatchResult, []diag.Warning, error) {
	ordered := make([]Expression, len(exprs))
	copy(ordered, exprs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	results := make([]BatchResult, 0, len(ordered))
	var warnings []diag.Warning
	degraded := c == nil

	for _, e := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if degraded {
			results = append(results, accepted(e))
			continue
		}
		res, err := c.Check(ctx, e.Expr, e.Mode)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, err
			}
			degraded = true
			warnings = append(warnings, diag.Warningf(diag.WarnCheckerUnavailable,
				"math checker unavailable: %v; remaining expressions accepted unchecked", err))
			results = append(results, accepted(e))
			continue
		}
		results = append(results, BatchResult{Position: e.Position, Expr: e.Expr, Result: res})
	}
	if degraded && len(warnings) == 0 && len(ordered) > 0 {
		warnings = append(warnings, diag.Warningf(diag.WarnCheckerUnavailable,
			"no math checker configured; expressions accepted unchecked"))
	}
	return results, warnings, nil
}

// Errors converts failed results into diagnostics, locating each by
// its position in the document.
func Errors(results []BatchResult) []diag.Error {
	var errs []diag.Error
	for _, r := range results {
		if r.Valid {
			continue
		}
		e := diag.Errorf(diag.CodeInvalidMath, "invalid math expression %q: %s", r.Expr, r.Reason)
		e.Location = locationOf(r.Position)
		errs = append(errs, e)
	}
	return errs
}

func locationOf(pos int) string {
	return "math[" + strconv.Itoa(pos) + "]"
}

func accepted(e Expression) BatchResult {
	return BatchResult{Position: e.Position, Expr: e.Expr, Result: Result{Valid: true}}
}
