// Package diag defines the structured diagnostics vocabulary shared by
// every validator: machine-comparable codes, error and warning records,
// and the aggregated Result handed to downstream renderers.
package diag

import (
	"fmt"
	"time"
)

// Error is one structural or business-rule violation, reported as data.
// Location and Suggestions are optional.
type Error struct {
	Code        Code     `json:"code"`
	Message     string   `json:"message"`
	Location    string   `json:"location,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Error implements the error interface so diagnostics can travel through
// error-shaped plumbing when a caller escalates one.
func (e Error) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Location)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Warning is a non-fatal finding. Warnings never affect validity.
type Warning struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result aggregates the findings of one validation pass.
// Valid is derived: true exactly when Errors is empty.
type Result struct {
	Valid       bool      `json:"valid"`
	Errors      []Error   `json:"errors"`
	Warnings    []Warning `json:"warnings"`
	ValidatedAt time.Time `json:"validatedAt"`
}

// NewResult builds a Result, deriving Valid from the error count and
// stamping the validation time. Nil slices are normalized to empty so
// the JSON form always carries arrays.
func NewResult(errs []Error, warns []Warning) Result {
	if errs == nil {
		errs = []Error{}
	}
	if warns == nil {
		warns = []Warning{}
	}
	return Result{
		Valid:       len(errs) == 0,
		Errors:      errs,
		Warnings:    warns,
		ValidatedAt: time.Now().UTC(),
	}
}

// Combine merges several results into one, concatenating findings in
// argument order and re-deriving Valid. The combined result gets a fresh
// timestamp.
func Combine(results ...Result) Result {
	var errs []Error
	var warns []Warning
	for _, r := range results {
		errs = append(errs, r.Errors...)
		warns = append(warns, r.Warnings...)
	}
	return NewResult(errs, warns)
}

// Errorf builds an Error with a formatted message.
func Errorf(code Code, format string, args ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Warningf builds a Warning with a formatted message.
func Warningf(code Code, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}
