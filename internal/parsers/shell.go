package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// shellcheck -f json schema (the fields repo-lint consumes)
type shellcheckJSON []struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Level   string `json:"level"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ParseShellcheck reads `shellcheck -f json` output.
func ParseShellcheck(stdout, _ []byte) Result {
	var res Result
	trimmed := strings.TrimSpace(string(stdout))
	if trimmed == "" || trimmed == "[]" {
		return res
	}
	var doc shellcheckJSON
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		res.Anomalies = append(res.Anomalies, "shellcheck: invalid JSON output: "+err.Error())
		return res
	}
	for _, c := range doc {
		res.Records = append(res.Records, RawRecord{
			Path:    c.File,
			Line:    c.Line,
			Message: c.Message,
			Code:    fmt.Sprintf("SC%d", c.Code),
		})
	}
	return res
}

// ParseShfmt reads `shfmt -l` output: one unformatted file per line, no
// line numbers.
func ParseShfmt(stdout, stderr []byte) Result {
	var res Result
	for _, line := range textLines(stdout) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		res.Records = append(res.Records, RawRecord{
			Path:    line,
			Message: "file is not formatted per shfmt style",
		})
	}
	for _, line := range textLines(stderr) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// shfmt reports syntax errors as path:line:col: message
		if path, lineNo, rest, ok := splitColonLine(line); ok {
			res.Records = append(res.Records, RawRecord{Path: path, Line: lineNo, Message: rest})
			continue
		}
		res.Anomalies = append(res.Anomalies, "shfmt: "+line)
	}
	return res
}
