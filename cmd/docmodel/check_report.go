package main

import (
	"encoding/json"
	"fmt"
	"time"

	docmodel "github.com/alnah/go-docmodel"
	"github.com/alnah/go-docmodel/diag"
)

// documentReport is the JSON form of one checked document.
type documentReport struct {
	Path       string                  `json:"path"`
	Valid      bool                    `json:"valid"`
	Error      string                  `json:"error,omitempty"`
	DurationMS int64                   `json:"durationMs"`
	Validation *diag.Result            `json:"validation,omitempty"`
	Citations  *docmodel.CitationStats `json:"citations,omitempty"`
	Pipeline   *docmodel.PipelineData  `json:"pipeline,omitempty"`
}

// batchReport is the JSON form of one check run.
type batchReport struct {
	CheckedAt time.Time        `json:"checkedAt"`
	Documents []documentReport `json:"documents"`
	Summary   ResultSummary    `json:"summary"`
}

// toDocumentReport converts a CheckResult for serialization. Pipeline
// detail is heavy and only included when asked for.
func toDocumentReport(r *CheckResult, includePipeline bool) documentReport {
	rep := documentReport{
		Path:       r.Path,
		DurationMS: r.Duration.Milliseconds(),
	}
	if r.Err != nil {
		rep.Error = r.Err.Error()
		return rep
	}
	rep.Valid = r.Outcome.Validation.Valid
	rep.Validation = &r.Outcome.Validation
	rep.Citations = r.Outcome.Citations
	if includePipeline {
		rep.Pipeline = &r.Outcome.Pipeline
	}
	return rep
}

// marshalDocumentReport serializes one document report for its report
// file. File reports always carry the pipeline record.
func marshalDocumentReport(result *CheckResult) ([]byte, error) {
	rep := toDocumentReport(result, true)
	return json.MarshalIndent(rep, "", "  ")
}

// printJSONResults writes the whole run as one JSON document to stdout.
func printJSONResults(results []CheckResult, verbose bool, env *Environment) (ResultSummary, error) {
	summary := countResults(results)

	report := batchReport{
		CheckedAt: env.Now().UTC(),
		Documents: make([]documentReport, 0, len(results)),
		Summary:   summary,
	}
	for i := range results {
		report.Documents = append(report.Documents, toDocumentReport(&results[i], verbose))
	}

	enc := json.NewEncoder(env.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return summary, fmt.Errorf("encoding JSON report: %w", err)
	}
	return summary, nil
}

// printResults outputs check results using the provided writers.
// Findings and failures go to stderr, clean documents to stdout.
func printResults(results []CheckResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Path, r.Err)
			continue
		}

		v := r.Outcome.Validation
		if !v.Valid {
			fmt.Fprintf(env.Stderr, "INVALID %s: %d error(s)\n", r.Path, len(v.Errors))
			for _, e := range v.Errors {
				fmt.Fprintf(env.Stderr, "  %v\n", e)
				if verbose {
					for _, s := range e.Suggestions {
						fmt.Fprintf(env.Stderr, "    suggestion: %s\n", s)
					}
				}
			}
			continue
		}

		if quiet {
			continue
		}

		switch {
		case verbose:
			fmt.Fprintf(env.Stdout, "OK %s (%d warning(s), %v)\n", r.Path, len(v.Warnings), r.Duration.Round(time.Millisecond))
			for _, w := range v.Warnings {
				fmt.Fprintf(env.Stdout, "  warning %s: %s\n", w.Code, w.Message)
			}
		case len(v.Warnings) > 0:
			fmt.Fprintf(env.Stdout, "OK %s (%d warning(s))\n", r.Path, len(v.Warnings))
		default:
			fmt.Fprintf(env.Stdout, "OK %s\n", r.Path)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d valid, %d invalid, %d failed\n", summary.Valid, summary.Invalid, summary.Failed)
	}

	return summary
}
