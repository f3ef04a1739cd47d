// Package report renders aggregated runner results and derives the final
// exit code. Interactive and CI mode emit the same logical content and
// identical counts; only presentation differs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/repolint/repolint/internal/model"
)

// ExitCodeFor derives the process exit code from the aggregated results.
// A missing tool or timeout means the run was incomplete, so it outranks
// violations: exit 1 is only ever reported for a full run.
func ExitCodeFor(results []model.RunnerResult) model.ExitCode {
	var anyViolations, anyInfra bool
	for _, r := range results {
		if len(r.Violations) > 0 {
			anyViolations = true
		}
		if r.Infra() {
			anyInfra = true
		}
	}
	if anyInfra {
		return model.ExitMissingTools
	}
	if anyViolations {
		return model.ExitViolations
	}
	return model.ExitSuccess
}

// Totals aggregates the counters every rendering mode reports.
type Totals struct {
	Runners     int
	Passed      int
	Failed      int
	Files       int
	Violations  int
	Suppression model.SuppressionCounts
	Missing     []string
}

// Tally computes the aggregate counters for a result set.
func Tally(results []model.RunnerResult) Totals {
	t := Totals{Runners: len(results)}
	for _, r := range results {
		t.Files += r.FileCount
		t.Violations += len(r.Violations)
		t.Suppression.YAML += r.Counts.YAML
		t.Suppression.Pragma += r.Counts.Pragma
		t.Suppression.Conflicts += r.Counts.Conflicts
		t.Missing = append(t.Missing, r.MissingTools...)
		if r.OK {
			t.Passed++
		} else {
			t.Failed++
		}
	}
	return t
}

// WriteCI renders the stable, colorless, width-independent report.
func WriteCI(w io.Writer, results []model.RunnerResult, showIgnored bool) {
	fmt.Fprintln(w, "Linting Results")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "%-12s %-8s %8s %12s %10s\n", "Runner", "Status", "Files", "Violations", "Duration")
	for _, r := range results {
		fmt.Fprintf(w, "%-12s %-8s %8d %12d %10s\n",
			r.Runner, status(r), r.FileCount, len(r.Violations), formatDuration(r.Duration))
	}

	for _, r := range results {
		if len(r.Violations) == 0 && len(r.MissingTools) == 0 && len(r.Anomalies) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s failures\n", r.Runner)
		fmt.Fprintln(w, strings.Repeat("-", 60))
		if len(r.MissingTools) > 0 {
			fmt.Fprintf(w, "missing tools: %s\n", strings.Join(r.MissingTools, ", "))
		}
		if len(r.Violations) > 0 {
			fmt.Fprintf(w, "%-30s %6s  %s\n", "File", "Line", "Message")
			for _, v := range r.Violations {
				fmt.Fprintf(w, "%-30s %6s  [%s] %s\n", v.File, v.Line, v.Tool, v.Message)
			}
		}
		for _, a := range r.Anomalies {
			fmt.Fprintf(w, "note: %s\n", a)
		}
	}

	if showIgnored {
		writeIgnored(w, results)
	}

	t := Tally(results)
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Runners: %d passed, %d failed\n", t.Passed, t.Failed)
	fmt.Fprintf(w, "Total violations: %d\n", t.Violations)
	fmt.Fprintf(w, "Ignored by YAML exceptions: %d\n", t.Suppression.YAML)
	fmt.Fprintf(w, "Ignored by pragmas: %d\n", t.Suppression.Pragma)
	fmt.Fprintf(w, "Suppression conflicts: %d\n", t.Suppression.Conflicts)
	if len(t.Missing) > 0 {
		fmt.Fprintf(w, "Missing tools: %s\n", strings.Join(t.Missing, ", "))
	}
	code := ExitCodeFor(results)
	fmt.Fprintf(w, "Exit code: %d (%s)\n", int(code), code)
}

func writeIgnored(w io.Writer, results []model.RunnerResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Suppressed findings (audit view)")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	any := false
	for _, r := range results {
		for _, s := range r.Suppressed {
			any = true
			ref := s.Source
			if s.EntryID != "" {
				ref = fmt.Sprintf("%s:%s", s.Source, s.EntryID)
			}
			v := s.Violation
			fmt.Fprintf(w, "%-30s %6s  [%s] %s (by %s)\n", v.File, v.Line, v.Tool, v.Message, ref)
		}
	}
	if !any {
		fmt.Fprintln(w, "(none)")
	}
}

// jsonReport is the machine-readable variant; key names are stable and
// carry the identical normalized violation fields.
type jsonReport struct {
	Results  []model.RunnerResult `json:"results"`
	Totals   jsonTotals           `json:"totals"`
	ExitCode int                  `json:"exit_code"`
}

type jsonTotals struct {
	Runners     int                     `json:"runners"`
	Passed      int                     `json:"passed"`
	Failed      int                     `json:"failed"`
	Files       int                     `json:"files"`
	Violations  int                     `json:"violations"`
	Suppression model.SuppressionCounts `json:"suppression"`
}

// WriteJSON emits the full aggregate as indented JSON.
func WriteJSON(w io.Writer, results []model.RunnerResult) error {
	t := Tally(results)
	doc := jsonReport{
		Results: results,
		Totals: jsonTotals{
			Runners:     t.Runners,
			Passed:      t.Passed,
			Failed:      t.Failed,
			Files:       t.Files,
			Violations:  t.Violations,
			Suppression: t.Suppression,
		},
		ExitCode: int(ExitCodeFor(results)),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func status(r model.RunnerResult) string {
	switch {
	case r.TimedOut:
		return "TIMEOUT"
	case len(r.MissingTools) > 0:
		return "NOTOOL"
	case r.OK:
		return "PASS"
	default:
		return "FAIL"
	}
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
