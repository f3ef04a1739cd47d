package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/repolint/repolint/internal/model"
)

var (
	colorPass  = lipgloss.Color("#2CD7C7")
	colorFail  = lipgloss.Color("#E74C3C")
	colorWarn  = lipgloss.Color("#F4D03F")
	colorMuted = lipgloss.Color("#6C7A89")

	styleTitle  = lipgloss.NewStyle().Bold(true)
	stylePass   = lipgloss.NewStyle().Foreground(colorPass)
	styleFail   = lipgloss.NewStyle().Foreground(colorFail).Bold(true)
	styleWarn   = lipgloss.NewStyle().Foreground(colorWarn)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	stylePanel  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)

// WriteInteractive renders the styled report for TTY sessions. It carries
// the same counts as the CI renderer, plus fix hints.
func WriteInteractive(w io.Writer, results []model.RunnerResult, showIgnored bool) {
	fmt.Fprintln(w, styleTitle.Render("repo-lint results"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, styleHeader.Render(fmt.Sprintf("%-12s %-8s %8s %12s %10s",
		"Runner", "Status", "Files", "Violations", "Duration")))
	for _, r := range results {
		fmt.Fprintf(w, "%-12s %s %8d %12d %10s\n",
			r.Runner, styledStatus(r), r.FileCount, len(r.Violations), formatDuration(r.Duration))
	}

	for _, r := range results {
		if len(r.Violations) == 0 && len(r.MissingTools) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, styleFail.Render(r.Runner+" failures"))
		if len(r.MissingTools) > 0 {
			fmt.Fprintln(w, styleWarn.Render("missing tools: "+strings.Join(r.MissingTools, ", ")))
		}
		if len(r.Violations) > 0 {
			fmt.Fprintln(w, styleMuted.Render(fmt.Sprintf("%-30s %6s  %s", "File", "Line", "Message")))
			for _, v := range r.Violations {
				fmt.Fprintf(w, "%-30s %6s  %s %s\n",
					v.File, v.Line, styleMuted.Render("["+v.Tool+"]"), v.Message)
			}
		}
		for _, a := range r.Anomalies {
			fmt.Fprintln(w, styleMuted.Render("note: "+a))
		}
	}

	if showIgnored {
		writeIgnored(w, results)
	}

	t := Tally(results)
	code := ExitCodeFor(results)
	var b strings.Builder
	fmt.Fprintf(&b, "Runners: %d passed, %d failed\n", t.Passed, t.Failed)
	fmt.Fprintf(&b, "Total violations: %d\n", t.Violations)
	fmt.Fprintf(&b, "Ignored by YAML exceptions: %d\n", t.Suppression.YAML)
	fmt.Fprintf(&b, "Ignored by pragmas: %d\n", t.Suppression.Pragma)
	fmt.Fprintf(&b, "Suppression conflicts: %d\n", t.Suppression.Conflicts)
	fmt.Fprintf(&b, "Exit: %d (%s)", int(code), code)
	fmt.Fprintln(w)
	fmt.Fprintln(w, stylePanel.Render(b.String()))

	if t.Violations > 0 {
		fmt.Fprintln(w, styleMuted.Render("hint: run 'repo-lint fix' to apply formatter auto-fixes, then re-check"))
	}
	if len(t.Missing) > 0 {
		fmt.Fprintln(w, styleWarn.Render("hint: install the missing tools listed above and re-run"))
	}
}

func styledStatus(r model.RunnerResult) string {
	s := fmt.Sprintf("%-8s", status(r))
	switch {
	case r.TimedOut, len(r.MissingTools) > 0:
		return styleWarn.Render(s)
	case r.OK:
		return stylePass.Render(s)
	default:
		return styleFail.Render(s)
	}
}

// InstallHints renders per-tool installation guidance for missing tools.
func InstallHints(w io.Writer, hints map[string]string, missing []string) {
	if len(missing) == 0 {
		return
	}
	fmt.Fprintln(w, styleWarn.Render("Missing tools"))
	for _, tool := range missing {
		if hint, ok := hints[tool]; ok && hint != "" {
			fmt.Fprintf(w, "  %-18s %s\n", tool, styleMuted.Render(hint))
		} else {
			fmt.Fprintf(w, "  %s\n", tool)
		}
	}
}
