package parsers

import (
	"regexp"
	"strings"
)

var (
	// yamllint -f parsable: path:line:col: [level] message (rule)
	yamllintRest = regexp.MustCompile(`^\[(error|warning)\]\s+(.*?)(?:\s+\(([a-z0-9-]+)\))?$`)
	// actionlint: path:line:col: message [rule]
	actionlintRule = regexp.MustCompile(`^(.*?)\s*\[([a-z0-9-]+)\]$`)
	// snippet gutter lines under each finding, e.g. "12 |   echo $FOO"
	actionlintGutter = regexp.MustCompile(`^\d+\s*\|`)
)

// ParseYamllint reads `yamllint -f parsable` output.
func ParseYamllint(stdout, _ []byte) Result {
	var res Result
	for _, line := range textLines(stdout) {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		path, lineNo, rest, ok := splitColonLine(line)
		if !ok {
			res.Anomalies = append(res.Anomalies, "yamllint: unrecognized output: "+line)
			continue
		}
		rec := RawRecord{Path: path, Line: lineNo, Message: rest}
		if m := yamllintRest.FindStringSubmatch(rest); m != nil {
			rec.Message = m[2]
			rec.Code = m[3]
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// ParseActionlint reads actionlint's default text output.
func ParseActionlint(stdout, _ []byte) Result {
	var res Result
	for _, line := range textLines(stdout) {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		// snippet/caret context lines under each finding are indented or
		// carry a line-number gutter
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") ||
			strings.HasPrefix(line, "|") || strings.HasPrefix(line, "^") ||
			actionlintGutter.MatchString(line) {
			continue
		}
		path, lineNo, rest, ok := splitColonLine(line)
		if !ok {
			res.Anomalies = append(res.Anomalies, "actionlint: unrecognized output: "+line)
			continue
		}
		rec := RawRecord{Path: path, Line: lineNo, Message: rest}
		if m := actionlintRule.FindStringSubmatch(rest); m != nil {
			rec.Message = m[1]
			rec.Code = m[2]
		}
		res.Records = append(res.Records, rec)
	}
	return res
}
