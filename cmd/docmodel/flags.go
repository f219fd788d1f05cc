package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata overrides.
type documentFlags struct {
	format string
	title  string
	author string
	date   string
	lang   string
}

// bibliographyFlags holds citation checking flags.
type bibliographyFlags struct {
	path      string
	style     string
	sortField string
	caseFold  bool
	dupPolicy string
}

// mathFlags holds math validation flags.
type mathFlags struct {
	engine string
	skip   bool
}

// checkFlags holds all flags for the check command.
type checkFlags struct {
	common       commonFlags
	output       string
	workers      int
	timeout      string
	watch        bool
	jsonOutput   bool
	strict       bool
	document     documentFlags
	bibliography bibliographyFlags
	math         mathFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show findings and failures")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show warnings, timing, and pipeline detail")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "output format to validate against (default: latex)")
	fs.StringVar(&f.title, "doc-title", "", "title override merged over front matter")
	fs.StringVar(&f.author, "doc-author", "", "author override merged over front matter")
	fs.StringVar(&f.date, "doc-date", "", "date override (\"auto\" = today)")
	fs.StringVar(&f.lang, "doc-lang", "", "language override merged over front matter")
}

// addBibliographyFlags adds citation checking flags to a FlagSet.
func addBibliographyFlags(fs *flag.FlagSet, f *bibliographyFlags) {
	fs.StringVarP(&f.path, "bib", "b", "", "BibTeX bibliography file")
	fs.StringVarP(&f.style, "style", "s", "", "citation style: apa, chicago, mla, harvard, ieee, vancouver")
	fs.StringVar(&f.sortField, "sort-field", "", "sort numeric citations by this bibliography field")
	fs.BoolVar(&f.caseFold, "case-fold", false, "match citation keys case-insensitively")
	fs.StringVar(&f.dupPolicy, "dup-policy", "", "duplicate bibliography keys: first, last")
}

// addMathFlags adds math validation flags to a FlagSet.
func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.StringVar(&f.engine, "engine", "", "registered math checker name (\"\" = built-in syntactic)")
	fs.BoolVar(&f.skip, "no-math", false, "skip math validation")
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string) (*checkFlags, []string, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	f := &checkFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "report file or directory (\"\" = stdout only)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "check timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.watch, "watch", false, "re-check on file changes")
	fs.BoolVar(&f.jsonOutput, "json", false, "print a JSON report to stdout")
	fs.BoolVar(&f.strict, "strict", false, "treat warnings as failures")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addBibliographyFlags(fs, &f.bibliography)
	addMathFlags(fs, &f.math)

	fs.Usage = func() { printCheckUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
