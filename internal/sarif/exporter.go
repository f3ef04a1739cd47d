// Package sarif exports normalized violations as SARIF 2.1.0 for CI
// annotation surfaces (GitHub code scanning, VS Code).
package sarif

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/repolint/repolint/internal/model"
)

type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Result struct {
	RuleID    string     `json:"ruleId"`
	Message   Message    `json:"message"`
	Level     string     `json:"level"` // error, warning, note
	Locations []Location `json:"locations"`
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

type Region struct {
	StartLine int `json:"startLine"`
}

// Export writes the remaining violations of every runner result as one
// SARIF run. SARIF requires a startLine, so sentinel lines map to 1 here;
// the canonical "-" rendering lives in the table and JSON reports.
func Export(w io.Writer, results []model.RunnerResult, toolVersion string) error {
	out := []Result{}
	for _, r := range results {
		for _, v := range r.Violations {
			uri := toURI(v.SourcePath)
			if uri == "" {
				uri = "UNKNOWN"
			}
			start := int(v.Line)
			if start <= 0 {
				start = 1
			}
			ruleID := v.Code
			if ruleID == "" {
				ruleID = v.Tool
			}
			out = append(out, Result{
				RuleID:  ruleID,
				Level:   "warning",
				Message: Message{Text: strings.TrimSpace("[" + v.Tool + "] " + v.Message)},
				Locations: []Location{
					{
						PhysicalLocation: PhysicalLocation{
							ArtifactLocation: ArtifactLocation{URI: uri},
							Region:           Region{StartLine: start},
						},
					},
				},
			})
		}
	}

	log := Log{
		Version: "2.1.0",
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{Name: "repo-lint", Version: toolVersion},
				},
				Results: out,
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func toURI(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	return strings.TrimPrefix(p, "./")
}
