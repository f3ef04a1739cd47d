package model

import (
	"fmt"
	"strconv"
	"time"
)

// Line is a 1-based line number. Tools that have no line concept report
// NoLine, which renders and marshals as "-" rather than 0 or blank.
type Line int

const NoLine Line = 0

func (l Line) String() string {
	if l <= NoLine {
		return "-"
	}
	return strconv.Itoa(int(l))
}

func (l Line) MarshalJSON() ([]byte, error) {
	if l <= NoLine {
		return []byte(`"-"`), nil
	}
	return []byte(strconv.Itoa(int(l))), nil
}

// Violation is one normalized lint or docstring finding. It is created by
// the normalizer from a single raw tool record and never mutated afterward.
type Violation struct {
	Tool       string `json:"tool"`
	Code       string `json:"code,omitempty"`
	File       string `json:"file"` // basename only, never a partial path
	Line       Line   `json:"line"`
	Message    string `json:"message"`
	SourcePath string `json:"source_path"` // repo-relative, used for exception matching
}

// Identity is the de-duplication key used when merging the output of
// multiple adapters within one runner.
func (v Violation) Identity() string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%s", v.File, v.Line, v.Tool, v.Code)
}

// Suppressed records a violation hidden from the blocking count, together
// with what suppressed it. Suppressed findings stay available for audit.
type Suppressed struct {
	Violation Violation `json:"violation"`
	Source    string    `json:"source"` // "yaml" or "pragma"
	EntryID   string    `json:"entry_id,omitempty"`
}

// SuppressionCounts are always reported, even when zero.
type SuppressionCounts struct {
	YAML      int `json:"yaml"`
	Pragma    int `json:"pragma"`
	Conflicts int `json:"conflicts"`
}

// RunnerResult is one language runner's outcome. OK tracks the remaining
// violation count except when the runner failed for infrastructure reasons,
// which is a distinct state carried in MissingTools/TimedOut.
type RunnerResult struct {
	Runner       string            `json:"runner"`
	OK           bool              `json:"ok"`
	FileCount    int               `json:"file_count"`
	Violations   []Violation       `json:"violations"`
	Suppressed   []Suppressed      `json:"suppressed"`
	Counts       SuppressionCounts `json:"suppression_counts"`
	MissingTools []string          `json:"missing_tools,omitempty"`
	Anomalies    []string          `json:"anomalies,omitempty"`
	TimedOut     bool              `json:"timed_out,omitempty"`
	Duration     time.Duration     `json:"duration_ns"`
}

// Infra reports whether the runner failed for infrastructure reasons
// (missing tool, timeout) as opposed to finding violations.
func (r RunnerResult) Infra() bool {
	return len(r.MissingTools) > 0 || r.TimedOut
}

// ExitCode values mirror the documented CLI contract.
type ExitCode int

const (
	ExitSuccess      ExitCode = 0 // all checks passed
	ExitViolations   ExitCode = 1 // lint/docstring violations found
	ExitMissingTools ExitCode = 2 // required external tool absent
	ExitConfigError  ExitCode = 3 // invalid or expired configuration, bad flags
)

func (e ExitCode) String() string {
	switch e {
	case ExitSuccess:
		return "success"
	case ExitViolations:
		return "violations found"
	case ExitMissingTools:
		return "missing tools"
	case ExitConfigError:
		return "configuration error"
	default:
		return "unknown"
	}
}
