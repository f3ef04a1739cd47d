package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/repolint/repolint/internal/errs"
	"github.com/repolint/repolint/internal/exceptions"
	"github.com/repolint/repolint/internal/excludes"
	"github.com/repolint/repolint/internal/model"
	"github.com/repolint/repolint/internal/runner"
)

func repoWith(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("content\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func emptyEngine(t *testing.T) *exceptions.Engine {
	t.Helper()
	e, err := exceptions.Load(filepath.Join(t.TempDir(), "absent.yaml"), exceptions.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestNewResolvesRunnersInDeclaredOrder(t *testing.T) {
	root := repoWith(t, "deploy.yaml", "src/app.py", "scripts/run.sh")
	d, err := New(Options{RepoRoot: root}, excludes.Default(), emptyEngine(t))
	if err != nil {
		t.Fatal(err)
	}

	var langs []string
	for _, r := range d.Runners() {
		langs = append(langs, r.Desc.Language)
	}
	want := []string{"python", "bash", "yaml"}
	if strings.Join(langs, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, langs)
	}
}

func TestNewRejectsUnknownLanguage(t *testing.T) {
	root := repoWith(t, "src/app.py")
	_, err := New(Options{RepoRoot: root, Languages: []string{"rust"}}, excludes.Default(), emptyEngine(t))
	if err == nil || !errs.IsConfig(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown language") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestNewRejectsUnknownTool(t *testing.T) {
	root := repoWith(t, "src/app.py")
	_, err := New(Options{RepoRoot: root, Tools: []string{"eslint"}}, excludes.Default(), emptyEngine(t))
	if err == nil || !strings.Contains(err.Error(), "unknown tool") {
		t.Fatalf("expected unknown tool error, got %v", err)
	}
}

func TestNewRejectsRequestedLanguageWithoutFiles(t *testing.T) {
	root := repoWith(t, "src/app.py")
	_, err := New(Options{RepoRoot: root, Languages: []string{"perl"}}, excludes.Default(), emptyEngine(t))
	if err == nil || !strings.Contains(err.Error(), "no matching files") {
		t.Fatalf("an explicit request for an absent language is an error, got %v", err)
	}
}

func TestNewSkipsUnrequestedEmptyLanguages(t *testing.T) {
	root := repoWith(t, "src/app.py")
	d, err := New(Options{RepoRoot: root}, excludes.Default(), emptyEngine(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Runners()) != 1 || d.Runners()[0].Desc.Language != "python" {
		t.Fatalf("expected only the python runner, got %s", d.Summary())
	}
}

func TestNewToolFilterNarrowsRunners(t *testing.T) {
	root := repoWith(t, "src/app.py", "scripts/run.sh")
	d, err := New(Options{RepoRoot: root, Tools: []string{"shellcheck"}}, excludes.Default(), emptyEngine(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Runners()) != 1 || d.Runners()[0].Desc.Language != "bash" {
		t.Fatalf("a tool filter must drop languages without that tool, got %s", d.Summary())
	}
}

func TestRunKeepsCompletedResultsOnExpiredContext(t *testing.T) {
	root := repoWith(t, "src/app.py")
	d, err := New(Options{RepoRoot: root}, excludes.Default(), emptyEngine(t))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// a runner that finished with ordinary violations before the deadline
	// fired must stay a violation result, not become a timeout
	results := d.run(ctx, func(context.Context, *runner.Runner) model.RunnerResult {
		return model.RunnerResult{
			Runner:     "python",
			FileCount:  1,
			Violations: []model.Violation{{Tool: "ruff", Code: "F401", File: "app.py", Line: 3}},
		}
	})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].TimedOut {
		t.Error("completed results must not be relabeled as timeouts")
	}
	if results[0].Infra() {
		t.Error("a violation result is not an infrastructure failure")
	}
}

func TestNewLanguageFilterSelectsSubset(t *testing.T) {
	root := repoWith(t, "src/app.py", "scripts/run.sh", "deploy.yaml")
	d, err := New(Options{RepoRoot: root, Languages: []string{"yaml", "python"}}, excludes.Default(), emptyEngine(t))
	if err != nil {
		t.Fatal(err)
	}
	var langs []string
	for _, r := range d.Runners() {
		langs = append(langs, r.Desc.Language)
	}
	// declared registry order wins over request order
	if strings.Join(langs, ",") != "python,yaml" {
		t.Fatalf("expected python,yaml, got %v", langs)
	}
}
