// Package parsers converts raw tool output into RawRecord sequences, one
// parser per (tool, output format) pair. Parsers never guess: a line they
// cannot confidently interpret becomes a diagnostic, never a fabricated
// record, and no line number is invented where the tool printed none.
package parsers

import (
	"regexp"
	"strconv"
	"strings"
)

// RawRecord is one tool-output record before normalization. Line 0 means
// the tool reported no line for this finding.
type RawRecord struct {
	Path    string
	Line    int
	Message string
	Code    string
}

// Result carries parsed records in tool emission order plus parser-level
// diagnostics for output the parser did not recognize.
type Result struct {
	Records   []RawRecord
	Anomalies []string
}

// Func is the parser contract: raw stdout/stderr in, records out.
type Func func(stdout, stderr []byte) Result

var colonLine = regexp.MustCompile(`^(.+?):(\d+):(?:(\d+):)?\s*(.*)$`)

// splitColonLine breaks the common "path:line[:col]: rest" layout shared
// by ruff, pylint, perlcritic, yamllint and actionlint output.
func splitColonLine(line string) (path string, lineNo int, rest string, ok bool) {
	m := colonLine.FindStringSubmatch(line)
	if m == nil {
		return "", 0, "", false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return "", 0, "", false
	}
	return m[1], n, strings.TrimSpace(m[4]), true
}

func textLines(b []byte) []string {
	s := strings.ReplaceAll(string(b), "\r\n", "\n")
	return strings.Split(s, "\n")
}
