package runner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/repolint/repolint/internal/exceptions"
	"github.com/repolint/repolint/internal/excludes"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
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

func pythonDesc(t *testing.T) Descriptor {
	t.Helper()
	for _, d := range Registry() {
		if d.Language == "python" {
			return d
		}
	}
	t.Fatal("python descriptor not registered")
	return Descriptor{}
}

func TestDiscoverFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/b.py":              "x = 1\n",
		"src/a.py":              "y = 2\n",
		"tool.py":               "z = 3\n",
		"vendor/dep.py":         "ignored\n",
		"tests/fixtures/bad.py": "ignored\n",
		"readme.md":             "not python\n",
		"scripts/run.sh":        "not python\n",
	})

	r := New(pythonDesc(t), root, excludes.Default(), emptyEngine(t))
	files, err := r.DiscoverFiles()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"src/a.py", "src/b.py", "tool.py"}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, files)
		}
	}
	if !sort.StringsAreSorted(files) {
		t.Error("discovery must return lexicographic order")
	}
}

func TestDiscoverFilesSkipsGitDir(t *testing.T) {
	root := writeTree(t, map[string]string{
		".git/hooks/sample.py": "x\n",
		"src/a.py":             "y\n",
	})
	r := New(pythonDesc(t), root, excludes.Default(), emptyEngine(t))
	files, err := r.DiscoverFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != "src/a.py" {
		t.Fatalf("expected only src/a.py, got %v", files)
	}
}

func TestDiscoverFixtureToggle(t *testing.T) {
	root := writeTree(t, map[string]string{
		"tests/fixtures/bad.py": "x\n",
		"src/a.py":              "y\n",
	})

	base := New(pythonDesc(t), root, excludes.Default(), emptyEngine(t))
	files, _ := base.DiscoverFiles()
	if len(files) != 1 {
		t.Fatalf("fixtures are out of scope by default, got %v", files)
	}

	vector := New(pythonDesc(t), root, excludes.Default().WithFixtures(true), emptyEngine(t))
	files, _ = vector.DiscoverFiles()
	if len(files) != 2 {
		t.Fatalf("vector mode keeps fixtures in scope, got %v", files)
	}
}

func TestHasFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"readme.md": "no python here\n"})
	r := New(pythonDesc(t), root, excludes.Default(), emptyEngine(t))
	if r.HasFiles() {
		t.Error("expected no files for a language with no matches")
	}
}

func TestActiveToolsFilter(t *testing.T) {
	r := New(pythonDesc(t), t.TempDir(), excludes.Default(), emptyEngine(t))
	if got := len(r.activeTools()); got != 4 {
		t.Fatalf("expected full chain without a filter, got %d", got)
	}

	r.ToolFilter = []string{"ruff"}
	active := r.activeTools()
	if len(active) != 1 || active[0].Adapter.Tool != "ruff" {
		t.Fatalf("expected only ruff, got %+v", active)
	}
}

func TestFilterFiles(t *testing.T) {
	files := []string{".github/workflows/ci.yml", "config.yaml", "deploy.yml"}
	kept := filterFiles(files, func(rel string) bool {
		return rel == ".github/workflows/ci.yml"
	})
	if len(kept) != 1 || kept[0] != ".github/workflows/ci.yml" {
		t.Fatalf("expected workflow file only, got %v", kept)
	}
	if got := filterFiles(files, nil); len(got) != 3 {
		t.Fatalf("nil filter keeps everything, got %v", got)
	}
}

func TestRegistryToolOrder(t *testing.T) {
	// formatters run before linters before docstring checks so fix-then-check
	// stays coherent
	rank := map[string]int{CatFormat: 0, CatLint: 1, CatDocstring: 2}
	for _, d := range Registry() {
		prev := 0
		for _, spec := range d.Tools {
			r, ok := rank[spec.Category]
			if !ok {
				t.Fatalf("%s: tool %s has unknown category %q", d.Language, spec.Adapter.Tool, spec.Category)
			}
			if r < prev {
				t.Errorf("%s: %s tool %s declared after a later category",
					d.Language, spec.Category, spec.Adapter.Tool)
			}
			prev = r
		}
	}
}

func TestRegistryCarriesEveryCategory(t *testing.T) {
	seen := map[string]bool{}
	for _, category := range KnownTools() {
		seen[category] = true
	}
	for _, category := range []string{CatFormat, CatLint, CatDocstring} {
		if !seen[category] {
			t.Errorf("no registered tool carries category %s", category)
		}
	}
}

func TestKnownTools(t *testing.T) {
	tools := KnownTools()
	for tool, category := range map[string]string{
		"black":      CatFormat,
		"ruff":       CatLint,
		"pydocstyle": CatDocstring,
		"shellcheck": CatLint,
		"yamllint":   CatLint,
	} {
		if tools[tool] != category {
			t.Errorf("expected %s in category %s, got %q", tool, category, tools[tool])
		}
	}
}
