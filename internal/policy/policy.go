// Package policy enforces the deny-by-default auto-fix policy. Only
// categories the policy file explicitly allows may mutate files under
// `repo-lint fix`; check operations never consult it.
package policy

import (
	"os"

	"github.com/repolint/repolint/internal/config"
)

const ConfigType = "repo-lint-autofix-policy"

// DefaultPath is the documented policy location, relative to repo root.
const DefaultPath = "conformance/repo-lint/autofix-policy.yaml"

type category struct {
	Category    string `yaml:"category"`
	Description string `yaml:"description,omitempty"`
	Tool        string `yaml:"tool"`
	Safe        bool   `yaml:"safe"`
	Mutating    bool   `yaml:"mutating"`
}

type policyDoc struct {
	ConfigType        string     `yaml:"config_type"`
	Version           string     `yaml:"version"`
	Policy            string     `yaml:"policy"`
	AllowedCategories []category `yaml:"allowed_categories"`
	DeniedCategories  []category `yaml:"denied_categories,omitempty"`
}

// Policy is the loaded auto-fix policy, immutable after load.
type Policy struct {
	allowed map[string]bool
}

// Load reads and validates the policy file. A missing file yields the
// empty policy, which denies every fix.
func Load(path string) (*Policy, error) {
	p := &Policy{allowed: map[string]bool{}}
	if _, err := os.Stat(path); err != nil {
		return p, nil
	}
	var doc policyDoc
	if err := config.LoadStrict(path, ConfigType, &doc); err != nil {
		return nil, err
	}
	for _, c := range doc.AllowedCategories {
		if c.Category != "" {
			p.allowed[c.Category] = true
		}
	}
	return p, nil
}

// Deny returns the empty, deny-everything policy.
func Deny() *Policy { return &Policy{allowed: map[string]bool{}} }

// Allowed reports whether a fix category may run.
func (p *Policy) Allowed(cat string) bool { return p != nil && p.allowed[cat] }

// Categories lists the allowed categories, for verbose output.
func (p *Policy) Categories() []string {
	out := make([]string, 0, len(p.allowed))
	for c := range p.allowed {
		out = append(out, c)
	}
	return out
}
