// Package excludes is the single source of truth for paths skipped during
// linting. Every runner and validator consults the same loaded List; no
// component carries its own copy of the exclusion globs.
package excludes

import (
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/repolint/repolint/internal/config"
)

const ConfigType = "repo-lint-file-patterns"

// DefaultPath is the documented location of the file-patterns config,
// relative to the repository root.
const DefaultPath = "conformance/repo-lint/file-patterns.yaml"

type patternsDoc struct {
	ConfigType string   `yaml:"config_type"`
	Version    string   `yaml:"version"`
	Exclusions []string `yaml:"exclusions"`
	Fixtures   []string `yaml:"fixtures"`
}

// List matches repo-relative paths against the configured exclusion globs.
// It is immutable after load and safe to share across concurrent runners.
type List struct {
	excluded        []gitignore.Pattern
	fixtures        []gitignore.Pattern
	includeFixtures bool
}

var defaultExclusions = []string{
	".git/**",
	".repo-lint/**",
	"vendor/**",
	"node_modules/**",
	"tests/fixtures/**",
	"**/tests/fixtures/**",
}

var defaultFixtures = []string{
	"tests/fixtures/**",
	"**/tests/fixtures/**",
}

// Load reads the file-patterns config through the strict loader. A missing
// file falls back to the built-in defaults; an invalid file is a hard
// configuration error.
func Load(path string) (*List, error) {
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	var doc patternsDoc
	if err := config.LoadStrict(path, ConfigType, &doc); err != nil {
		return nil, err
	}
	return build(doc.Exclusions, doc.Fixtures), nil
}

// Default returns the built-in exclusion list.
func Default() *List {
	return build(defaultExclusions, defaultFixtures)
}

func build(excluded, fixtures []string) *List {
	l := &List{}
	for _, p := range excluded {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		l.excluded = append(l.excluded, gitignore.ParsePattern(p, nil))
	}
	for _, p := range fixtures {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		l.fixtures = append(l.fixtures, gitignore.ParsePattern(p, nil))
	}
	return l
}

// WithFixtures returns a copy that keeps fixture paths in scope (vector
// mode, used when intentionally-bad fixture files must be scanned).
func (l *List) WithFixtures(include bool) *List {
	cp := *l
	cp.includeFixtures = include
	return &cp
}

// Excluded reports whether a repo-relative path is out of linting scope.
func (l *List) Excluded(relpath string) bool {
	parts := strings.Split(strings.TrimPrefix(relpath, "./"), "/")
	if l.includeFixtures && match(l.fixtures, parts) {
		return false
	}
	return match(l.excluded, parts)
}

func match(ps []gitignore.Pattern, parts []string) bool {
	for _, pat := range ps {
		if pat.Match(parts, false) == gitignore.Exclude {
			return true
		}
	}
	return false
}
