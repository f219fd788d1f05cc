// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/docmodel/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/docmodel) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/docmodel") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForBibliographyNotFound returns hints for bibliography file not found errors.
func ForBibliographyNotFound() string {
	return format("pass --bib /path/to/refs.bib or set bibliography.path in config")
}

// ForUnknownFormat returns hints for unknown output format errors.
func ForUnknownFormat(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownStyle returns hints for unknown citation style errors.
func ForUnknownStyle(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownEngine returns hints for unregistered math engine names.
// Lists known engines and suggests skipping math validation entirely.
func ForUnknownEngine(available []string) string {
	var hints []string
	if len(available) > 0 {
		hints = append(hints, "available: "+strings.Join(available, ", "))
	}
	hints = append(hints, "use --no-math to skip math validation")
	return formatHints(hints)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
