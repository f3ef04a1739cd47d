package exceptions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/repolint/repolint/internal/model"
)

func TestScanPragmas(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("src/app.py", "import os\n# repolint: ignore=ruff:F401,pylint:C0114\n")
	write("src/strict.py", "# repolint: enforce=ruff:E501\n")
	write("docs/readme.md", "<!-- repolint: ignore=yamllint:line-length -->\n")
	write("src/clean.py", "x = 1\n")

	idx, err := ScanPragmas(root, []string{"src/app.py", "src/strict.py", "docs/readme.md", "src/clean.py"})
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 4 {
		t.Fatalf("expected 4 indexed declarations, got %d", idx.Len())
	}

	tests := []struct {
		name     string
		v        model.Violation
		suppress bool
		matched  bool
	}{
		{
			name:     "ignored_code",
			v:        model.Violation{Tool: "ruff", Code: "F401", SourcePath: "src/app.py"},
			suppress: true, matched: true,
		},
		{
			name:     "second_code_same_pragma",
			v:        model.Violation{Tool: "pylint", Code: "C0114", SourcePath: "src/app.py"},
			suppress: true, matched: true,
		},
		{
			name:    "enforced_code",
			v:       model.Violation{Tool: "ruff", Code: "E501", SourcePath: "src/strict.py"},
			matched: true,
		},
		{
			name:     "html_comment_form",
			v:        model.Violation{Tool: "yamllint", Code: "line-length", SourcePath: "docs/readme.md"},
			suppress: true, matched: true,
		},
		{
			name: "file_without_pragma",
			v:    model.Violation{Tool: "ruff", Code: "F401", SourcePath: "src/clean.py"},
		},
		{
			name: "pragma_is_file_scoped",
			v:    model.Violation{Tool: "ruff", Code: "F401", SourcePath: "src/strict.py"},
		},
		{
			name: "codeless_violation_never_matches",
			v:    model.Violation{Tool: "black", SourcePath: "src/app.py"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suppress, matched, _ := idx.Decide("python", tt.v)
			if suppress != tt.suppress || matched != tt.matched {
				t.Errorf("expected suppress=%v matched=%v, got suppress=%v matched=%v",
					tt.suppress, tt.matched, suppress, matched)
			}
		})
	}
}
