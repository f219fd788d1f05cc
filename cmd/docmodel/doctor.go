package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/alnah/go-docmodel/internal/config"
	"github.com/alnah/go-docmodel/internal/fileutil"
	"github.com/alnah/go-docmodel/internal/mathcheck"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Engine   engineInfo `json:"engine"`
	Config   configInfo `json:"config"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// engineInfo holds math checker detection results.
type engineInfo struct {
	Builtin    string `json:"builtin"`
	Configured string `json:"configured,omitempty"`
	Registered bool   `json:"registered"`
}

// configInfo holds config file resolution results.
type configInfo struct {
	Found        bool   `json:"found"`
	Path         string `json:"path,omitempty"`
	Bibliography string `json:"bibliography,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkEngine(result)
	checkConfig(result)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEngine verifies the configured math checker is registered.
func checkEngine(result *doctorResult) {
	// The syntactic checker ships built in and needs no registration.
	result.Engine.Builtin = "syntactic"

	engine := os.Getenv("DOCMODEL_MATH_ENGINE")
	if engine == "" {
		return
	}

	result.Engine.Configured = engine
	if _, ok := mathcheck.Lookup(engine); ok {
		result.Engine.Registered = true
		return
	}
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("Math engine %q is not registered; checks fall back to the built-in syntactic checker", engine))
}

// checkConfig resolves the config file the check command would load.
func checkConfig(result *doctorResult) {
	name := os.Getenv("DOCMODEL_CONFIG")
	if name != "" {
		if fileutil.FileExists(name) {
			result.Config.Found = true
			result.Config.Path = name
		} else {
			result.Errors = append(result.Errors,
				fmt.Sprintf("DOCMODEL_CONFIG points to %s but no file exists there", name))
		}
	} else {
		// No config is fine; check falls back to defaults.
		for _, path := range config.SearchPaths("docmodel") {
			if fileutil.FileExists(path) {
				result.Config.Found = true
				result.Config.Path = path
				break
			}
		}
	}

	bib := os.Getenv("DOCMODEL_BIB")
	if bib == "" {
		return
	}
	result.Config.Bibliography = bib
	if !fileutil.FileExists(bib) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("DOCMODEL_BIB points to %s but no file exists there", bib))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	// Detect container (multi-signal approach)
	result.Env.Container, result.Env.ContainerHint = isContainer()

	// Detect CI environments
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("DOCMODEL_CONTAINER") == "1" {
		return true, "DOCMODEL_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	// Report writing goes through temp-and-rename on some filesystems,
	// so a read-only temp directory breaks checks with reports.
	_, cleanup, err := fileutil.WriteTempFile("doctor probe", "txt")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %v", err))
		return
	}
	cleanup()
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "docmodel doctor")
	fmt.Fprintln(w)

	// Math engine section
	fmt.Fprintln(w, "Math engine")
	fmt.Fprintf(w, "  [OK] Built-in: %s\n", r.Engine.Builtin)
	if r.Engine.Configured != "" {
		if r.Engine.Registered {
			fmt.Fprintf(w, "  [OK] Configured: %s (registered)\n", r.Engine.Configured)
		} else {
			fmt.Fprintf(w, "  [WARN] Configured: %s (not registered)\n", r.Engine.Configured)
		}
	}
	fmt.Fprintln(w)

	// Config section
	fmt.Fprintln(w, "Config")
	if r.Config.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Config.Path)
	} else {
		fmt.Fprintln(w, "  [OK] No config file (defaults apply)")
	}
	if r.Config.Bibliography != "" {
		if fileutil.FileExists(r.Config.Bibliography) {
			fmt.Fprintf(w, "  [OK] Bibliography: %s\n", r.Config.Bibliography)
		} else {
			fmt.Fprintf(w, "  [ERROR] Bibliography missing: %s\n", r.Config.Bibliography)
		}
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to check")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
