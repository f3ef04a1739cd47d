package runner

import (
	"strings"

	"github.com/repolint/repolint/internal/parsers"
	"github.com/repolint/repolint/internal/toolrun"
)

// Tool categories, used both for exception validation and for the
// deny-by-default fix policy.
const (
	CatFormat    = "format"
	CatLint      = "lint"
	CatDocstring = "docstring"
)

// ToolSpec binds one adapter to its output parser within a runner. Tools
// execute in the declared order: formatter before linter before
// docstring-class checks.
type ToolSpec struct {
	Adapter     toolrun.Adapter
	Parse       parsers.Func
	Category    string
	FixCategory string                // policy key, empty for non-fixing tools
	FileFilter  func(rel string) bool // nil = all discovered files
}

// Descriptor declares one language runner: its tag, file globs and tool
// chain. New languages are added here, never by editing dispatch code.
type Descriptor struct {
	Language string
	Globs    []string
	Tools    []ToolSpec
}

// Registry returns the fixed language registry in declared priority order.
func Registry() []Descriptor {
	return []Descriptor{
		{
			Language: "python",
			Globs:    []string{"**/*.py"},
			Tools: []ToolSpec{
				{
					Adapter: toolrun.Adapter{
						Tool:        "black",
						Binary:      "black",
						CheckArgs:   []string{"--check"},
						FixArgs:     []string{"--quiet"},
						InstallHint: "pip install black",
						PassFiles:   true,
					},
					Parse:       parsers.ParseBlack,
					Category:    CatFormat,
					FixCategory: "FORMAT.BLACK",
				},
				{
					Adapter: toolrun.Adapter{
						Tool:        "ruff",
						Binary:      "ruff",
						CheckArgs:   []string{"check"},
						FixArgs:     []string{"check", "--fix"},
						InstallHint: "pip install ruff",
						PassFiles:   true,
					},
					Parse:       parsers.ParseRuff,
					Category:    CatLint,
					FixCategory: "LINT.RUFF.SAFE",
				},
				{
					Adapter: toolrun.Adapter{
						Tool:        "pylint",
						Binary:      "pylint",
						CheckArgs:   []string{"--output-format=text", "--score=n"},
						InstallHint: "pip install pylint",
						PassFiles:   true,
					},
					Parse:    parsers.ParsePylint,
					Category: CatLint,
				},
				{
					Adapter: toolrun.Adapter{
						Tool:        "pydocstyle",
						Binary:      "pydocstyle",
						InstallHint: "pip install pydocstyle",
						PassFiles:   true,
					},
					Parse:    parsers.ParsePydocstyle,
					Category: CatDocstring,
				},
			},
		},
		{
			Language: "bash",
			Globs:    []string{"**/*.sh", "**/*.bash"},
			Tools: []ToolSpec{
				{
					Adapter: toolrun.Adapter{
						Tool:        "shfmt",
						Binary:      "shfmt",
						CheckArgs:   []string{"-l"},
						FixArgs:     []string{"-w"},
						InstallHint: "go install mvdan.cc/sh/v3/cmd/shfmt@latest",
						PassFiles:   true,
					},
					Parse:       parsers.ParseShfmt,
					Category:    CatFormat,
					FixCategory: "FORMAT.SHFMT",
				},
				{
					Adapter: toolrun.Adapter{
						Tool:        "shellcheck",
						Binary:      "shellcheck",
						CheckArgs:   []string{"-f", "json"},
						InstallHint: "apt-get install shellcheck (or brew install shellcheck)",
						PassFiles:   true,
					},
					Parse:    parsers.ParseShellcheck,
					Category: CatLint,
				},
			},
		},
		{
			Language: "powershell",
			Globs:    []string{"**/*.ps1", "**/*.psm1"},
			Tools: []ToolSpec{
				{
					Adapter: toolrun.Adapter{
						Tool:   "psscriptanalyzer",
						Binary: "pwsh",
						// pwsh joins everything after -Command into one
						// command line, so the file list lands between
						// -Path and the ConvertTo-Json pipe.
						CheckArgs: []string{
							"-NoProfile", "-NonInteractive", "-Command",
							"Invoke-ScriptAnalyzer", "-Path",
						},
						TrailArgs:   []string{"|", "ConvertTo-Json", "-Depth", "3"},
						InstallHint: "Install-Module -Name PSScriptAnalyzer",
						PassFiles:   true,
						FileJoin:    ",",
					},
					Parse:    parsers.ParsePSScriptAnalyzer,
					Category: CatLint,
				},
			},
		},
		{
			Language: "perl",
			Globs:    []string{"**/*.pl", "**/*.pm"},
			Tools: []ToolSpec{
				{
					Adapter: toolrun.Adapter{
						Tool:        "perlcritic",
						Binary:      "perlcritic",
						CheckArgs:   []string{"--verbose", "%f:%l:%c: %m [%p]\n"},
						InstallHint: "cpanm Perl::Critic",
						PassFiles:   true,
					},
					Parse:    parsers.ParsePerlCritic,
					Category: CatLint,
				},
			},
		},
		{
			Language: "yaml",
			Globs:    []string{"**/*.yml", "**/*.yaml"},
			Tools: []ToolSpec{
				{
					Adapter: toolrun.Adapter{
						Tool:        "yamllint",
						Binary:      "yamllint",
						CheckArgs:   []string{"-f", "parsable"},
						InstallHint: "pip install yamllint",
						PassFiles:   true,
					},
					Parse:    parsers.ParseYamllint,
					Category: CatLint,
				},
				{
					Adapter: toolrun.Adapter{
						Tool:        "actionlint",
						Binary:      "actionlint",
						CheckArgs:   []string{"-no-color"},
						InstallHint: "go install github.com/rhysd/actionlint/cmd/actionlint@latest",
						PassFiles:   true,
					},
					Parse:    parsers.ParseActionlint,
					Category: CatLint,
					FileFilter: func(rel string) bool {
						return strings.HasPrefix(rel, ".github/workflows/")
					},
				},
			},
		},
	}
}

// KnownTools maps every registered tool name to its category. The
// exception loader validates roster entries against this.
func KnownTools() map[string]string {
	out := map[string]string{}
	for _, d := range Registry() {
		for _, t := range d.Tools {
			out[t.Adapter.Tool] = t.Category
		}
	}
	return out
}

// Languages lists the registered language tags in priority order.
func Languages() []string {
	var out []string
	for _, d := range Registry() {
		out = append(out, d.Language)
	}
	return out
}
