package sarif

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/repolint/repolint/internal/model"
)

func TestExport(t *testing.T) {
	results := []model.RunnerResult{
		{
			Runner: "python",
			Violations: []model.Violation{
				{Tool: "ruff", Code: "F401", File: "app.py", Line: 3, Message: "F401: unused import", SourcePath: "src/app.py"},
				{Tool: "black", File: "app.py", Line: model.NoLine, Message: "code formatting does not match black style", SourcePath: "src/app.py"},
			},
		},
	}

	var buf bytes.Buffer
	if err := Export(&buf, results, "0.3.0"); err != nil {
		t.Fatal(err)
	}

	var log Log
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("exporter must emit valid JSON: %v", err)
	}
	if log.Version != "2.1.0" {
		t.Errorf("expected SARIF 2.1.0, got %q", log.Version)
	}
	if len(log.Runs) != 1 || len(log.Runs[0].Results) != 2 {
		t.Fatalf("expected one run with two results, got %+v", log.Runs)
	}

	first := log.Runs[0].Results[0]
	if first.RuleID != "F401" {
		t.Errorf("codes become rule IDs, got %q", first.RuleID)
	}
	if first.Locations[0].PhysicalLocation.ArtifactLocation.URI != "src/app.py" {
		t.Errorf("unexpected URI %q", first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	}

	second := log.Runs[0].Results[1]
	if second.RuleID != "black" {
		t.Errorf("codeless findings fall back to the tool name, got %q", second.RuleID)
	}
	if second.Locations[0].PhysicalLocation.Region.StartLine != 1 {
		t.Errorf("sentinel lines map to startLine 1, got %d", second.Locations[0].PhysicalLocation.Region.StartLine)
	}
}

func TestExportEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, nil, "0.3.0"); err != nil {
		t.Fatal(err)
	}
	var log Log
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if log.Runs[0].Results == nil {
		t.Error("an empty export still carries an empty results array")
	}
}
