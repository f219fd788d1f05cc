// Package docmodel models markdown documents as typed trees and
// verifies them: front matter, math expressions, link targets, and
// citations against a BibTeX bibliography.
//
// # Quick Start
//
// Create a converter and convert a request:
//
//	conv := docmodel.New()
//
//	result, err := conv.Convert(ctx, docmodel.Request{
//	    ID:     "req-1",
//	    Source: "# Hello\n\nSee [@smith2020].\n",
//	    Format: docmodel.FormatLaTeX,
//	    Options: &docmodel.Options{
//	        Bibliography: &docmodel.BibliographyOptions{
//	            Source: bibText,
//	            Style:  docmodel.StyleAPA,
//	        },
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Validation.Valid, len(result.Tree.Children))
//
// The result contains the typed document tree (result.Tree), the
// extracted front matter, resolved citations with their rendered
// in-text markers and bibliography lines, the aggregated diagnostics
// (result.Validation), and a stage-by-stage pipeline record
// (result.Pipeline). Content problems are reported as diagnostics, not
// errors: the error return is reserved for cancellation, an empty
// source, and internal failures.
//
// # Conversion Pipeline
//
// Convert runs these stages in order, recording each on the pipeline:
//
//  1. Request validation against the schema rule set
//  2. Front matter extraction and validation
//  3. Markdown parsing into the typed tree (math, citations, tables)
//  4. Math expression validation, sequential and in document order
//  5. Link target and internal anchor checks
//  6. Citation resolution and style rendering (when a bibliography
//     is configured)
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := docmodel.New(
//	    docmodel.WithFormats(docmodel.FormatLaTeX, docmodel.FormatHTML),
//	    docmodel.WithLogger(slog.Default()),
//	)
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to bound concurrency; each
// request owns an independent tree, citation manager, and pipeline:
//
//	pool := docmodel.NewConverterPool(4)
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, req)
//
// Service wraps a Converter when conversion volume, outcomes, and
// stage timings should land in a Prometheus registry.
package docmodel
