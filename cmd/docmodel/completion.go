package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments (e.g., "*.md")
	ArgValues   []string // fixed positional values (e.g., shell names)
}

// completionMeta holds completion-specific metadata for flags.
// This is the ONLY place where completion hints are defined.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"format":     {Values: formatNames()},
	"style":      {Values: styleNames()},
	"dup-policy": {Values: []string{"first", "last"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},
	"bib":    {FileGlob: "*.bib"},

	// Directory flags
	"output": {IsDir: true},
}

// buildCheckFlagSet creates a FlagSet with all check command flags.
// This reuses the same flag registration as parseCheckFlags.
func buildCheckFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	f := &checkFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "report file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "check timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.watch, "watch", false, "re-check on file changes")
	fs.BoolVar(&f.jsonOutput, "json", false, "print a JSON report to stdout")
	fs.BoolVar(&f.strict, "strict", false, "treat warnings as failures")

	// Flag groups - same as parseCheckFlags
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addBibliographyFlags(fs, &f.bibliography)
	addMathFlags(fs, &f.math)

	return fs
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		// Determine base type from pflag type
		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		// Override type based on completion metadata
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if len(meta.Values) > 0 {
				fd.Type = flagEnum
				fd.Values = meta.Values
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet - single source of truth.
func getCommands() []commandDef {
	checkFlags := extractFlagsFromFlagSet(buildCheckFlagSet())

	return []commandDef{
		{
			Name:        "check",
			Desc:        "Check markdown documents against their model",
			Flags:       checkFlags,
			TakesFiles:  true,
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:  "version",
			Desc:  "Show version information",
			Flags: nil,
		},
		{
			Name:      "help",
			Desc:      "Show help for a command",
			Flags:     nil,
			ArgValues: []string{"check", "version", "help", "completion", "doctor"},
		},
		{
			Name:      "completion",
			Desc:      "Generate shell completion script",
			Flags:     nil,
			ArgValues: []string{"bash", "zsh", "fish", "powershell"},
		},
		{
			Name: "doctor",
			Desc: "Diagnose the environment",
			Flags: []flagDef{
				{Long: "json", Type: flagBool, Desc: "print diagnosis as JSON"},
			},
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docmodel completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(docmodel completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(docmodel completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    docmodel completion fish > ~/.config/fish/completions/docmodel.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    docmodel completion powershell | Out-String | Invoke-Expression")
}

// printer accumulates script output, keeping the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) println(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// commandNames returns the names of all registered commands.
func commandNames(commands []commandDef) []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return names
}

// flagWords returns every flag spelling for word-list completion.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// bashFlagPattern builds a case pattern matching both flag spellings.
func bashFlagPattern(f flagDef) string {
	if f.Short != "" {
		return "-" + f.Short + "|--" + f.Long
	}
	return "--" + f.Long
}

// globToBashExt converts "*.yaml,*.yml" to the extglob list "yaml|yml".
func globToBashExt(glob string) string {
	parts := strings.Split(glob, ",")
	exts := make([]string, 0, len(parts))
	for _, part := range parts {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(part), "*."))
	}
	return strings.Join(exts, "|")
}

// globToZshPattern converts "*.yaml,*.yml" to the zsh glob "*.(yaml|yml)".
func globToZshPattern(glob string) string {
	return "*.(" + globToBashExt(glob) + ")"
}

// generateBash writes a bash completion script.
func generateBash(w io.Writer) error {
	p := &printer{w: w}
	commands := getCommands()

	p.println("# bash completion for docmodel")
	p.println("_docmodel() {")
	p.println("    local cur prev")
	p.println("    cur=\"${COMP_WORDS[COMP_CWORD]}\"")
	p.println("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"")
	p.println("")
	p.printf("    local commands=\"%s\"\n", strings.Join(commandNames(commands), " "))
	p.println("")
	p.println("    if [[ $COMP_CWORD -eq 1 ]]; then")
	p.println("        COMPREPLY=($(compgen -W \"$commands\" -- \"$cur\"))")
	p.println("        return")
	p.println("    fi")
	p.println("")
	p.println("    case \"${COMP_WORDS[1]}\" in")

	for _, cmd := range commands {
		p.printf("    %s)\n", cmd.Name)
		writeBashCommand(p, cmd)
		p.println("        ;;")
	}

	p.println("    esac")
	p.println("}")
	p.println("")
	p.println("complete -F _docmodel docmodel")
	return p.err
}

// writeBashCommand writes the completion body for one command.
func writeBashCommand(p *printer, cmd commandDef) {
	// Flags whose value has a known shape complete that value after
	// the flag; other value-taking flags suppress completion.
	var valued, plain []flagDef
	for _, f := range cmd.Flags {
		switch f.Type {
		case flagEnum, flagFile, flagDir:
			valued = append(valued, f)
		case flagBool:
			// Takes no value
		default:
			plain = append(plain, f)
		}
	}

	if len(valued) > 0 || len(plain) > 0 {
		p.println("        case \"$prev\" in")
		for _, f := range valued {
			p.printf("        %s)\n", bashFlagPattern(f))
			switch f.Type {
			case flagEnum:
				p.printf("            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(f.Values, " "))
			case flagFile:
				p.printf("            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\"))\n", globToBashExt(f.FileGlob))
				p.println("            COMPREPLY+=($(compgen -d -- \"$cur\"))")
			case flagDir:
				p.println("            COMPREPLY=($(compgen -d -- \"$cur\"))")
			}
			p.println("            return")
			p.println("            ;;")
		}
		if len(plain) > 0 {
			patterns := make([]string, len(plain))
			for i, f := range plain {
				patterns[i] = bashFlagPattern(f)
			}
			p.printf("        %s)\n", strings.Join(patterns, "|"))
			p.println("            return")
			p.println("            ;;")
		}
		p.println("        esac")
	}

	switch {
	case len(cmd.Flags) > 0 && cmd.TakesFiles:
		p.println("        if [[ \"$cur\" == -* ]]; then")
		p.printf("            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(flagWords(cmd.Flags), " "))
		p.println("        else")
		p.printf("            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\"))\n", globToBashExt(cmd.FilePattern))
		p.println("            COMPREPLY+=($(compgen -d -- \"$cur\"))")
		p.println("        fi")
	case len(cmd.Flags) > 0:
		p.printf("        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(flagWords(cmd.Flags), " "))
	case len(cmd.ArgValues) > 0:
		p.printf("        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(cmd.ArgValues, " "))
	}
}

// generateZsh writes a zsh completion script.
func generateZsh(w io.Writer) error {
	p := &printer{w: w}
	commands := getCommands()

	p.println("#compdef docmodel")
	p.println("# zsh completion for docmodel")
	p.println("")
	p.println("_docmodel() {")
	p.println("    local -a commands")
	p.println("    commands=(")
	for _, cmd := range commands {
		p.printf("        '%s:%s'\n", cmd.Name, cmd.Desc)
	}
	p.println("    )")
	p.println("")
	p.println("    _arguments -C \\")
	p.println("        '1: :{_describe \"command\" commands}' \\")
	p.println("        '*::arg:->args'")
	p.println("")
	p.println("    case \"$words[1]\" in")

	for _, cmd := range commands {
		if len(cmd.Flags) == 0 && len(cmd.ArgValues) == 0 && !cmd.TakesFiles {
			continue
		}
		p.printf("    %s)\n", cmd.Name)
		writeZshCommand(p, cmd)
		p.println("        ;;")
	}

	p.println("    esac")
	p.println("}")
	p.println("")
	p.println("compdef _docmodel docmodel")
	return p.err
}

// writeZshCommand writes the completion body for one command.
func writeZshCommand(p *printer, cmd commandDef) {
	if len(cmd.Flags) == 0 {
		if len(cmd.ArgValues) > 0 {
			p.printf("        _values 'argument' %s\n", strings.Join(cmd.ArgValues, " "))
		}
		return
	}

	p.println("        _arguments \\")
	specs := make([]string, 0, len(cmd.Flags)+1)
	for _, f := range cmd.Flags {
		specs = append(specs, zshFlagSpec(f))
	}
	if cmd.TakesFiles {
		specs = append(specs, fmt.Sprintf("'*:file:_files -g \"%s\"'", globToZshPattern(cmd.FilePattern)))
	}
	for i, spec := range specs {
		cont := " \\"
		if i == len(specs)-1 {
			cont = ""
		}
		p.printf("            %s%s\n", spec, cont)
	}
}

// zshFlagSpec builds an _arguments spec for one flag.
func zshFlagSpec(f flagDef) string {
	action := ""
	switch f.Type {
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, globToZshPattern(f.FileGlob))
	case flagDir:
		action = fmt.Sprintf(":%s:_files -/", f.Long)
	case flagBool:
		// No value
	default:
		action = fmt.Sprintf(":%s:", f.Long)
	}

	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, f.Desc, action)
	}
	if f.Type == flagBool {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]'", f.Short, f.Long, f.Short, f.Long, f.Desc)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s+,--%s=}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Desc, action)
}

// generateFish writes a fish completion script.
func generateFish(w io.Writer) error {
	p := &printer{w: w}
	commands := getCommands()

	p.println("# fish completion for docmodel")
	p.println("")
	p.println("complete -c docmodel -f")
	p.println("")
	for _, cmd := range commands {
		p.printf("complete -c docmodel -n '__fish_use_subcommand' -a %s -d '%s'\n", cmd.Name, cmd.Desc)
	}

	for _, cmd := range commands {
		if len(cmd.Flags) == 0 && len(cmd.ArgValues) == 0 && !cmd.TakesFiles {
			continue
		}
		p.println("")
		cond := fmt.Sprintf("__fish_seen_subcommand_from %s", cmd.Name)
		for _, f := range cmd.Flags {
			p.printf("complete -c docmodel -n '%s' %s\n", cond, fishFlagSpec(f))
		}
		if cmd.TakesFiles {
			for _, part := range strings.Split(cmd.FilePattern, ",") {
				ext := strings.TrimPrefix(strings.TrimSpace(part), "*")
				p.printf("complete -c docmodel -n '%s' -a '(__fish_complete_suffix %s)'\n", cond, ext)
			}
			p.printf("complete -c docmodel -n '%s' -a '(__fish_complete_directories)'\n", cond)
		}
		if len(cmd.ArgValues) > 0 {
			p.printf("complete -c docmodel -n '%s' -x -a '%s'\n", cond, strings.Join(cmd.ArgValues, " "))
		}
	}
	return p.err
}

// fishFlagSpec builds the option part of a complete invocation.
func fishFlagSpec(f flagDef) string {
	var b strings.Builder
	if f.Short != "" {
		fmt.Fprintf(&b, "-s %s ", f.Short)
	}
	fmt.Fprintf(&b, "-l %s", f.Long)

	switch f.Type {
	case flagEnum:
		fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
	case flagFile:
		b.WriteString(" -rF")
	case flagDir:
		b.WriteString(" -x -a '(__fish_complete_directories)'")
	case flagBool:
		// Takes no value
	default:
		b.WriteString(" -x")
	}

	fmt.Fprintf(&b, " -d '%s'", fishEscape(f.Desc))
	return b.String()
}

// fishEscape escapes single quotes for fish string literals.
func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// generatePowerShell writes a PowerShell completion script.
func generatePowerShell(w io.Writer) error {
	p := &printer{w: w}
	commands := getCommands()

	p.println("# powershell completion for docmodel")
	p.println("")
	p.println("Register-ArgumentCompleter -Native -CommandName docmodel -ScriptBlock {")
	p.println("    param($wordToComplete, $commandAst, $cursorPosition)")
	p.println("")
	p.println("    $commands = @{")
	for _, cmd := range commands {
		words := append(flagWords(cmd.Flags), cmd.ArgValues...)
		quoted := make([]string, len(words))
		for i, word := range words {
			quoted[i] = "'" + word + "'"
		}
		p.printf("        '%s' = @(%s)\n", cmd.Name, strings.Join(quoted, ", "))
	}
	p.println("    }")
	p.println("")
	p.println("    $elements = $commandAst.CommandElements | ForEach-Object { $_.ToString() }")
	p.println("")
	p.println("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete)) {")
	p.println("        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {")
	p.println("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)")
	p.println("        }")
	p.println("        return")
	p.println("    }")
	p.println("")
	p.println("    $cmd = $elements[1]")
	p.println("    if ($commands.ContainsKey($cmd)) {")
	p.println("        $commands[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {")
	p.println("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)")
	p.println("        }")
	p.println("    }")
	p.println("}")
	return p.err
}
