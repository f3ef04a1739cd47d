package parsers

import (
	"regexp"
	"strings"
)

// perlcritic is invoked with --verbose "%f:%l:%c: %m [%p]\n" so its output
// joins the shared colon layout, with the policy name bracketed.
var perlPolicy = regexp.MustCompile(`^(.*?)\s*\[([A-Za-z0-9:]+)\]$`)

// ParsePerlCritic reads perlcritic verbose-format output.
func ParsePerlCritic(stdout, _ []byte) Result {
	var res Result
	for _, line := range textLines(stdout) {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, "source OK") {
			continue
		}
		path, lineNo, rest, ok := splitColonLine(line)
		if !ok {
			res.Anomalies = append(res.Anomalies, "perlcritic: unrecognized output: "+line)
			continue
		}
		rec := RawRecord{Path: path, Line: lineNo, Message: rest}
		if m := perlPolicy.FindStringSubmatch(rest); m != nil {
			rec.Message = m[1]
			rec.Code = m[2]
		}
		res.Records = append(res.Records, rec)
	}
	return res
}
