package parsers

import (
	"encoding/json"
	"strings"
)

// PSScriptAnalyzer record shape after ConvertTo-Json. A single diagnostic
// serializes as a bare object, multiple as an array; both are accepted.
type psRecord struct {
	ScriptPath string `json:"ScriptPath"`
	ScriptName string `json:"ScriptName"`
	Line       int    `json:"Line"`
	RuleName   string `json:"RuleName"`
	Message    string `json:"Message"`
	Severity   any    `json:"Severity"`
}

// ParsePSScriptAnalyzer reads Invoke-ScriptAnalyzer | ConvertTo-Json output.
func ParsePSScriptAnalyzer(stdout, _ []byte) Result {
	var res Result
	trimmed := strings.TrimSpace(string(stdout))
	if trimmed == "" {
		return res
	}

	var records []psRecord
	if strings.HasPrefix(trimmed, "{") {
		var one psRecord
		if err := json.Unmarshal([]byte(trimmed), &one); err != nil {
			res.Anomalies = append(res.Anomalies, "psscriptanalyzer: invalid JSON output: "+err.Error())
			return res
		}
		records = []psRecord{one}
	} else {
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			res.Anomalies = append(res.Anomalies, "psscriptanalyzer: invalid JSON output: "+err.Error())
			return res
		}
	}

	for _, r := range records {
		path := r.ScriptPath
		if path == "" {
			path = r.ScriptName
		}
		if path == "" && r.Message == "" {
			continue
		}
		res.Records = append(res.Records, RawRecord{
			Path:    path,
			Line:    r.Line,
			Message: r.Message,
			Code:    r.RuleName,
		})
	}
	return res
}
