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
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// inputGlobs are the file patterns convert accepts as inputs.
var inputGlobs = []string{"*.html", "*.htm", "*.xhtml", "*.md", "*.markdown"}

// completionMeta holds completion hints for flags whose values can be
// suggested. Flag names and help text come from the FlagSet.
type completionMeta struct {
	Values []string // enum values
	Glob   string   // file pattern, e.g. "*.css"
	IsDir  bool     // directory completion
}

var flagCompletionMeta = map[string]completionMeta{
	"page-size":        {Values: []string{"A3", "A4", "A5", "Letter", "Legal"}},
	"orientation":      {Values: []string{"portrait", "landscape"}},
	"config":           {Glob: "*.yaml"},
	"style":            {Glob: "*.css"},
	"user-style-sheet": {Glob: "*.css"},
	"toc-xsl":          {Glob: "*.xsl"},
	"header-html":      {Glob: "*.html"},
	"footer-html":      {Glob: "*.html"},
	"cover":            {Glob: "*.html"},
	"style-dir":        {IsDir: true},
	"temp-dir":         {IsDir: true},
}

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string
	Short  string
	Desc   string
	IsBool bool
	Meta   completionMeta
}

// convertFlagDefs extracts completion data from the real convert FlagSet,
// so completions never drift from the parser.
func convertFlagDefs() []flagDef {
	var defs []flagDef
	newConvertFlagSet(&convertFlags{}).VisitAll(func(f *flag.Flag) {
		defs = append(defs, flagDef{
			Long:   f.Name,
			Short:  f.Shorthand,
			Desc:   f.Usage,
			IsBool: f.Value.Type() == "bool",
			Meta:   flagCompletionMeta[f.Name],
		})
	})
	return defs
}

var commandNames = []string{"convert", "doctor", "completion", "version", "help"}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	defs := convertFlagDefs()
	switch shell {
	case ShellBash:
		return generateBash(w, defs)
	case ShellZsh:
		return generateZsh(w, defs)
	case ShellFish:
		return generateFish(w, defs)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func generateBash(w io.Writer, defs []flagDef) error {
	var flags []string
	var cases strings.Builder
	for _, d := range defs {
		flags = append(flags, "--"+d.Long)
		if d.Short != "" {
			flags = append(flags, "-"+d.Short)
		}
		switch {
		case len(d.Meta.Values) > 0:
			fmt.Fprintf(&cases, "    --%s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", d.Long, strings.Join(d.Meta.Values, " "))
		case d.Meta.IsDir:
			fmt.Fprintf(&cases, "    --%s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", d.Long)
		case d.Meta.Glob != "":
			fmt.Fprintf(&cases, "    --%s) _filedir %s; return ;;\n", d.Long, strings.TrimPrefix(d.Meta.Glob, "*."))
		}
	}

	_, err := fmt.Fprintf(w, `# bash completion for wkpdf
_wkpdf() {
  local cur prev
  _init_completion || return
  case "$prev" in
%s  esac
  if [[ $COMP_CWORD -eq 1 ]]; then
    COMPREPLY=($(compgen -W "%s" -- "$cur"))
  fi
  if [[ "$cur" == -* ]]; then
    COMPREPLY+=($(compgen -W "%s" -- "$cur"))
    return
  fi
  _filedir '@(html|htm|xhtml|md|markdown)'
}
complete -F _wkpdf wkpdf
`, cases.String(), strings.Join(commandNames, " "), strings.Join(flags, " "))
	return err
}

func generateZsh(w io.Writer, defs []flagDef) error {
	var specs strings.Builder
	for _, d := range defs {
		desc := strings.NewReplacer("[", `\[`, "]", `\]`, "'", `'\''`).Replace(d.Desc)
		action := ""
		switch {
		case d.IsBool:
		case len(d.Meta.Values) > 0:
			action = fmt.Sprintf(":value:(%s)", strings.Join(d.Meta.Values, " "))
		case d.Meta.IsDir:
			action = ":directory:_files -/"
		case d.Meta.Glob != "":
			action = fmt.Sprintf(":file:_files -g '%s'", d.Meta.Glob)
		default:
			action = ":value:"
		}
		fmt.Fprintf(&specs, "    '--%s[%s]%s' \\\n", d.Long, desc, action)
	}

	_, err := fmt.Fprintf(w, `#compdef wkpdf
_wkpdf() {
  _arguments -s \
%s    '1:command or input:(%s)' \
    '*:input:_files -g "%s"'
}
compdef _wkpdf wkpdf
`, specs.String(), strings.Join(commandNames, " "), "("+strings.Join(inputGlobs, "|")+")")
	return err
}

func generateFish(w io.Writer, defs []flagDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for wkpdf\n")
	for _, name := range commandNames {
		fmt.Fprintf(&b, "complete -c wkpdf -n __fish_use_subcommand -a %s\n", name)
	}
	for _, d := range defs {
		fmt.Fprintf(&b, "complete -c wkpdf -l %s", d.Long)
		if d.Short != "" {
			fmt.Fprintf(&b, " -s %s", d.Short)
		}
		switch {
		case d.IsBool:
		case len(d.Meta.Values) > 0:
			fmt.Fprintf(&b, " -x -a '%s'", strings.Join(d.Meta.Values, " "))
		case d.Meta.IsDir:
			b.WriteString(" -x -a '(__fish_complete_directories)'")
		default:
			b.WriteString(" -r")
		}
		fmt.Fprintf(&b, " -d '%s'\n", strings.ReplaceAll(d.Desc, "'", `\'`))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wkpdf completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash   Bash completion script (needs bash-completion)")
	fmt.Fprintln(w, "  zsh    Zsh completion script")
	fmt.Fprintln(w, "  fish   Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(wkpdf completion bash)\"            # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(wkpdf completion zsh)\"             # in ~/.zshrc, after compinit")
	fmt.Fprintln(w, "  Fish:  wkpdf completion fish > ~/.config/fish/completions/wkpdf.fish")
}
