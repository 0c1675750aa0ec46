package main

import (
	"errors"
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
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
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

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool {
	return f.Type != flagBool
}

// names returns the flag spellings, long form first.
func (f flagDef) names() []string {
	if f.Short == "" {
		return []string{"--" + f.Long}
	}
	return []string{"--" + f.Long, "-" + f.Short}
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments (e.g., "*.html")
	Default     bool     // runs when the first argument is a file or flag
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"cell-links": {Values: []string{"verbatim", "normalize"}},
	"code-lang":  {Values: []string{"none", "class", "detect"}},
	"naming":     {Values: []string{"title", "source"}},
	"log-format": {Values: []string{"text", "json"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},

	// Directory flags
	"output": {IsDir: true},
}

// htmlPattern is the glob for convert file arguments.
const htmlPattern = "*.html,*.htm"

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

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Convert flags come from the real FlagSet.
func getCommands() []commandDef {
	cmds := []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert HTML articles to Markdown",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})),
			TakesFiles:  true,
			FilePattern: htmlPattern,
			Default:     true,
		},
		{
			Name:  "doctor",
			Desc:  "Check the system for --render",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "print the report as JSON"}},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)},
		},
	}

	for i := range cmds {
		if cmds[i].Name == "help" {
			cmds[i].Args = commandNames(cmds)
		}
	}
	return cmds
}

// commandNames returns the names of cmds in order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// globs splits a comma-separated glob list.
func globs(pattern string) []string {
	var out []string
	for _, g := range strings.Split(pattern, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// globExtensions returns the extensions of "*.ext" globs ("html", "htm").
func globExtensions(pattern string) []string {
	var exts []string
	for _, g := range globs(pattern) {
		exts = append(exts, strings.TrimPrefix(g, "*."))
	}
	return exts
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

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

// bashFiles returns a COMPREPLY value listing directories and files matching
// pattern. One compgen per glob keeps the script free of extglob.
func bashFiles(pattern string) string {
	parts := []string{`$(compgen -d -- "$cur")`}
	for _, g := range globs(pattern) {
		parts = append(parts, fmt.Sprintf(`$(compgen -f -X '!%s' -- "$cur")`, g))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for html2md\n\n")
	b.WriteString("_html2md_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")

	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        if [[ \"$cur\" != -* ]]; then\n")
	fmt.Fprintf(&b, "            COMPREPLY+=%s\n", bashFiles(htmlPattern))
	b.WriteString("        fi\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}

		patterns := []string{c.Name}
		if c.Default {
			patterns = append(patterns, "-*")
			patterns = append(patterns, globs(c.FilePattern)...)
		}
		fmt.Fprintf(&b, "    %s)\n", strings.Join(patterns, "|"))

		writeBashFlagValues(&b, c.Flags)

		if len(c.Flags) > 0 {
			var words []string
			for _, f := range c.Flags {
				words = append(words, f.names()...)
			}
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(words, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}

		switch {
		case c.TakesFiles:
			fmt.Fprintf(&b, "        COMPREPLY=%s\n", bashFiles(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(c.Args, " "))
		}
		b.WriteString("        ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _html2md_completions html2md\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// writeBashFlagValues completes the value of the previous flag.
func writeBashFlagValues(b *strings.Builder, flags []flagDef) {
	var free []string
	var cases []string

	for _, f := range flags {
		if !f.takesValue() {
			continue
		}
		names := strings.Join(f.names(), "|")
		switch f.Type {
		case flagEnum:
			cases = append(cases, fmt.Sprintf("        %s)\n            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n            return\n            ;;\n",
				names, strings.Join(f.Values, " ")))
		case flagFile:
			cases = append(cases, fmt.Sprintf("        %s)\n            COMPREPLY=%s\n            return\n            ;;\n",
				names, bashFiles(f.FileGlob)))
		case flagDir:
			cases = append(cases, fmt.Sprintf("        %s)\n            COMPREPLY=($(compgen -d -- \"$cur\"))\n            return\n            ;;\n", names))
		default:
			free = append(free, f.names()...)
		}
	}
	if len(cases) == 0 && len(free) == 0 {
		return
	}

	b.WriteString("        case \"$prev\" in\n")
	for _, c := range cases {
		b.WriteString(c)
	}
	if len(free) > 0 {
		fmt.Fprintf(b, "        %s)\n            return\n            ;;\n", strings.Join(free, "|"))
	}
	b.WriteString("        esac\n")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshQuote escapes s for a single-quoted _arguments spec.
func zshQuote(s string) string {
	return strings.NewReplacer(`'`, `'\''`, "[", `\[`, "]", `\]`).Replace(s)
}

// zshGlob converts "*.html,*.htm" to "*.(html|htm)".
func zshGlob(pattern string) string {
	exts := globExtensions(pattern)
	if len(exts) == 1 {
		return "*." + exts[0]
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

// zshFlagSpec returns the _arguments spec for one flag.
func zshFlagSpec(f flagDef) string {
	desc := "[" + zshQuote(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"" + zshGlob(f.FileGlob) + "\""
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":" + f.Long + ": "
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef html2md\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "_html2md_%s() {\n", c.Name)
		b.WriteString("    _arguments -s \\\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        %s \\\n", zshFlagSpec(f))
		}
		switch {
		case c.TakesFiles:
			fmt.Fprintf(&b, "        '*:file:_files -g \"%s\"'\n", zshGlob(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        '1:%s:(%s)'\n", c.Name, strings.Join(c.Args, " "))
		default:
			b.WriteString("        '*: :'\n")
		}
		b.WriteString("}\n\n")
	}

	b.WriteString("_html2md() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	fmt.Fprintf(&b, "        _files -g \"%s\"\n", zshGlob(htmlPattern))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        shift words\n")
		b.WriteString("        (( CURRENT-- ))\n")
		fmt.Fprintf(&b, "        _html2md_%s\n", c.Name)
		b.WriteString("        ;;\n")
		if c.Default {
			patterns := append([]string{"-*"}, globs(c.FilePattern)...)
			fmt.Fprintf(&b, "    %s)\n", strings.Join(patterns, "|"))
			fmt.Fprintf(&b, "        _html2md_%s\n", c.Name)
			b.WriteString("        ;;\n")
		}
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _html2md html2md\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

// fishQuote escapes s for a single-quoted fish string.
func fishQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for html2md\n\n")
	b.WriteString("function __fish_html2md_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_html2md_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")

	b.WriteString("complete -c html2md -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c html2md -n __fish_html2md_needs_command -a %s -d '%s'\n", c.Name, fishQuote(c.Desc))
	}
	b.WriteString("complete -c html2md -n __fish_html2md_needs_command -F\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		b.WriteString("\n")
		cond := fmt.Sprintf("'__fish_html2md_using_command %s'", c.Name)

		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c html2md -n %s", cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long

			switch f.Type {
			case flagBool:
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			fmt.Fprintf(&b, "%s -d '%s'\n", line, fishQuote(f.Desc))
		}

		switch {
		case c.TakesFiles:
			fmt.Fprintf(&b, "complete -c html2md -n %s -F\n", cond)
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c html2md -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

// psQuote escapes s for a single-quoted PowerShell string.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// psList renders values as a PowerShell array literal.
func psList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + psQuote(v) + "'"
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# powershell completion for html2md\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName html2md -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, psQuote(c.Desc))
	}
	b.WriteString("    }\n")

	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		var words []string
		for _, f := range c.Flags {
			words = append(words, f.names()...)
		}
		words = append(words, c.Args...)
		fmt.Fprintf(&b, "        '%s' = %s\n", c.Name, psList(words))
	}
	b.WriteString("    }\n")

	b.WriteString("    $values = @{\n")
	seen := make(map[string]bool)
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.Type != flagEnum || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			fmt.Fprintf(&b, "        '--%s' = %s\n", f.Long, psList(f.Values))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString(`    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })
    if ($wordToComplete -ne '') {
        $elements = $elements[0..($elements.Count - 2)]
    }

    if ($elements.Count -le 1) {
        $commands.Keys | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])
        }
        return
    }

    $prev = $elements[-1]
    if ($values.ContainsKey($prev)) {
        $values[$prev] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    $cmd = $elements[1]
    if (-not $flags.Contains($cmd)) {
        $cmd = 'convert'
    }
    $flags[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)
    }
}
`)

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Command
// ---------------------------------------------------------------------------

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// runCompletionCmd runs the completion command and returns an exit code.
func runCompletionCmd(args []string, env *Environment) int {
	if err := runCompletion(args, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		if errors.Is(err, ErrUnsupportedShell) {
			return ExitUsage
		}
		return ExitGeneral
	}
	return ExitSuccess
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2md completion <shell>")
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
	fmt.Fprintln(w, "    eval \"$(html2md completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(html2md completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    html2md completion fish > ~/.config/fish/completions/html2md.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    html2md completion powershell | Out-String | Invoke-Expression")
}
