package excludes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultExclusions(t *testing.T) {
	l := Default()
	tests := []struct {
		path     string
		excluded bool
	}{
		{"src/app.py", false},
		{"vendor/lib/foo.py", true},
		{"node_modules/pkg/index.js", true},
		{"tests/fixtures/bad.py", true},
		{"pkg/sub/tests/fixtures/bad.sh", true},
		{"tests/test_app.py", false},
	}
	for _, tt := range tests {
		if got := l.Excluded(tt.path); got != tt.excluded {
			t.Errorf("Excluded(%q) = %v, expected %v", tt.path, got, tt.excluded)
		}
	}
}

func TestLoadPatternsFile(t *testing.T) {
	content := `---
config_type: repo-lint-file-patterns
version: 1.0.0
exclusions:
  - "build/**"
  - "**/*.generated.py"
fixtures:
  - "testdata/**"
...
`
	path := filepath.Join(t.TempDir(), "file-patterns.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Excluded("build/out.py") {
		t.Error("configured exclusion must apply")
	}
	if !l.Excluded("src/models.generated.py") {
		t.Error("glob exclusions must apply at any depth")
	}
	if l.Excluded("src/app.py") {
		t.Error("unlisted paths stay in scope")
	}
	if l.Excluded("vendor/foo.py") {
		t.Error("a config file replaces the defaults, not extends them")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !l.Excluded("vendor/foo.py") {
		t.Error("missing config must fall back to defaults")
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file-patterns.yaml")
	if err := os.WriteFile(path, []byte("---\nconfig_type: wrong\nversion: 1.0.0\n...\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "config_type") {
		t.Fatalf("expected config_type error, got %v", err)
	}
}

func TestWithFixtures(t *testing.T) {
	base := Default()
	if !base.Excluded("tests/fixtures/bad.py") {
		t.Fatal("fixtures are excluded by default")
	}

	vector := base.WithFixtures(true)
	if vector.Excluded("tests/fixtures/bad.py") {
		t.Error("vector mode keeps fixture paths in scope")
	}
	if vector.Excluded("src/app.py") {
		t.Error("vector mode must not affect normal paths")
	}
	if !base.Excluded("tests/fixtures/bad.py") {
		t.Error("WithFixtures returns a copy and must not mutate the original")
	}
}
