package parsers

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	blackReformat = regexp.MustCompile(`^would reformat (.+)$`)
	blackError    = regexp.MustCompile(`^error: cannot format (.+?): (.+)$`)
	ruffCode      = regexp.MustCompile(`^([A-Z]{1,4}\d{3,4})\s+(?:\[\*\]\s+)?(.*)$`)
	pylintCode    = regexp.MustCompile(`^([CRWEF]\d{4}):\s*(.*)$`)

	// pydocstyle location line: path:line at module level:
	pydocstyleLoc = regexp.MustCompile(`^(.+?):(\d+)\s+(?:in|at)\s+.+:$`)
	pydocstyleMsg = regexp.MustCompile(`^(D\d{3}):\s*(.*)$`)
)

// ParseBlack reads `black --check` output. Black reports whole files with
// no line concept, so records carry Line 0 and normalization renders the
// sentinel instead of inventing a line.
func ParseBlack(stdout, stderr []byte) Result {
	var res Result
	for _, line := range append(textLines(stderr), textLines(stdout)...) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := blackReformat.FindStringSubmatch(line); m != nil {
			res.Records = append(res.Records, RawRecord{
				Path:    m[1],
				Message: "code formatting does not match black style",
			})
			continue
		}
		if m := blackError.FindStringSubmatch(line); m != nil {
			res.Anomalies = append(res.Anomalies, "black: cannot format "+m[1]+": "+m[2])
			continue
		}
		// summary lines ("All done!", "1 file would be reformatted.") are
		// recognized non-records
		if strings.Contains(line, "file") || strings.HasPrefix(line, "All done!") ||
			strings.HasPrefix(line, "Oh no!") || strings.HasPrefix(line, "💥") {
			continue
		}
		res.Anomalies = append(res.Anomalies, "black: unrecognized output: "+line)
	}
	return res
}

// ParsePydocstyle reads pydocstyle's default two-line output:
//
//	path:line at module level:
//	        D100: Missing docstring in public module
func ParsePydocstyle(stdout, _ []byte) Result {
	var res Result
	var loc *RawRecord
	for _, line := range textLines(stdout) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := pydocstyleLoc.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[2])
			if err != nil || n < 1 {
				res.Anomalies = append(res.Anomalies, "pydocstyle: unrecognized location: "+line)
				continue
			}
			loc = &RawRecord{Path: m[1], Line: n}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if m := pydocstyleMsg.FindStringSubmatch(trimmed); m != nil && loc != nil {
			rec := *loc
			rec.Code = m[1]
			rec.Message = m[2]
			res.Records = append(res.Records, rec)
			loc = nil
			continue
		}
		res.Anomalies = append(res.Anomalies, "pydocstyle: unrecognized output: "+trimmed)
	}
	return res
}

// ParseRuff reads ruff's default text output:
// path:line:col: CODE [*] message
func ParseRuff(stdout, _ []byte) Result {
	var res Result
	for _, line := range textLines(stdout) {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		path, lineNo, rest, ok := splitColonLine(line)
		if !ok {
			if strings.HasPrefix(line, "Found ") || strings.HasPrefix(line, "[") ||
				strings.HasPrefix(line, "warning:") || strings.HasPrefix(line, "  ") {
				continue
			}
			res.Anomalies = append(res.Anomalies, "ruff: unrecognized output: "+line)
			continue
		}
		rec := RawRecord{Path: path, Line: lineNo, Message: rest}
		if m := ruffCode.FindStringSubmatch(rest); m != nil {
			rec.Code = m[1]
			rec.Message = m[2]
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// ParsePylint reads pylint's default text output:
// path:line:col: C0116: message (symbol)
// Module banners and the trailing score line are recognized non-records.
func ParsePylint(stdout, _ []byte) Result {
	var res Result
	for _, line := range textLines(stdout) {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "*************") {
			continue
		}
		if strings.HasPrefix(line, "Your code has been rated") || strings.HasPrefix(line, "-----") {
			continue
		}
		path, lineNo, rest, ok := splitColonLine(line)
		if !ok {
			res.Anomalies = append(res.Anomalies, "pylint: unrecognized output: "+line)
			continue
		}
		rec := RawRecord{Path: path, Line: lineNo, Message: rest}
		if m := pylintCode.FindStringSubmatch(rest); m != nil {
			rec.Code = m[1]
			rec.Message = m[2]
		}
		res.Records = append(res.Records, rec)
	}
	return res
}
