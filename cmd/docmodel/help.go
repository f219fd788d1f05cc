package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docmodel <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  check       Check markdown documents against their model")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  doctor      Diagnose the environment")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docmodel help <command>' for details on a specific command.")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docmodel check <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check markdown documents: front matter shape, structure, math,")
	fmt.Fprintln(w, "links, and citations. Findings are reported, never fixed.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Report file or directory (\"\" = stdout only)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Check timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --watch               Re-check on file changes")
	fmt.Fprintln(w, "      --json                Print a JSON report to stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -f, --format <s>          Output format to validate against (default: latex)")
	fmt.Fprintln(w, "                            Formats: latex, beamer, revealjs, html, mjml,")
	fmt.Fprintln(w, "                            epub, docx, pptx")
	fmt.Fprintln(w, "      --doc-title <s>       Title override merged over front matter")
	fmt.Fprintln(w, "      --doc-author <s>      Author override merged over front matter")
	fmt.Fprintln(w, "      --doc-date <s>        Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "      --doc-lang <s>        Language override merged over front matter")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Bibliography:")
	fmt.Fprintln(w, "  -b, --bib <path>          BibTeX bibliography file")
	fmt.Fprintln(w, "  -s, --style <s>           Citation style: apa, chicago, mla, harvard,")
	fmt.Fprintln(w, "                            ieee, vancouver (default: apa)")
	fmt.Fprintln(w, "      --sort-field <s>      Sort numeric citations by this field")
	fmt.Fprintln(w, "      --case-fold           Match citation keys case-insensitively")
	fmt.Fprintln(w, "      --dup-policy <s>      Duplicate bibliography keys: first, last")
	fmt.Fprintln(w, "                            (default: first)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Math:")
	fmt.Fprintln(w, "      --engine <s>          Registered math checker (\"\" = built-in syntactic)")
	fmt.Fprintln(w, "      --no-math             Skip math validation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "      --strict              Treat warnings as failures")
	fmt.Fprintln(w, "  -q, --quiet               Only show findings and failures")
	fmt.Fprintln(w, "  -v, --verbose             Show warnings, timing, and pipeline detail")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0  all documents valid")
	fmt.Fprintln(w, "  1  general error")
	fmt.Fprintln(w, "  2  invalid flags or config")
	fmt.Fprintln(w, "  3  file not found or unreadable")
	fmt.Fprintln(w, "  4  documents checked, findings remain")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "check":
		printCheckUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docmodel version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docmodel help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: docmodel doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Diagnose the environment: math engines, config resolution,")
		fmt.Fprintln(env.Stdout, "bibliography paths, and system prerequisites.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
