// Package exceptions implements the centralized suppression policy: a
// strictly validated YAML roster, the legacy inline pragma mechanism, and
// the single precedence algorithm both feed into.
package exceptions

import (
	"regexp"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const ConfigType = "repo-lint-exceptions"

// DefaultPath is the documented roster location, relative to repo root.
const DefaultPath = "conformance/repo-lint/exceptions.yaml"

const dateLayout = "2006-01-02"

// DefaultWarnWindowDays is how far ahead of an entry's expiry the loader
// starts warning. Tunable per roster via warn_window_days.
const DefaultWarnWindowDays = 14

// Scope selects the violations an entry may suppress.
type Scope struct {
	Language   string `yaml:"language"`    // language tag or "all"
	TargetType string `yaml:"target_type"` // "file" or "symbol"
	Path       string `yaml:"path"`        // path pattern or symbol pattern
	Match      string `yaml:"match"`       // "exact", "glob" or "regex"
	Anchored   *bool  `yaml:"anchored"`    // regex only; defaults to true
}

// Ignore names one (category, tool, code) triple the entry suppresses.
type Ignore struct {
	Category         string `yaml:"category"`
	Tool             string `yaml:"tool"`
	Code             string `yaml:"code"`
	SeverityOverride string `yaml:"severity_override,omitempty"`
}

// Entry is one declared suppression rule. Entries are immutable for the
// run; the tool never rewrites the roster.
type Entry struct {
	ID      string   `yaml:"id"`
	Scope   Scope    `yaml:"scope"`
	Ignores []Ignore `yaml:"ignores"`
	Reason  string   `yaml:"reason"`
	Owner   string   `yaml:"owner"`
	Created string   `yaml:"created"`
	Expires string   `yaml:"expires,omitempty"` // empty = never
}

type rosterDoc struct {
	ConfigType        string  `yaml:"config_type"`
	Version           string  `yaml:"version"`
	AllowUnknownCodes bool    `yaml:"allow_unknown_codes,omitempty"`
	WarnWindowDays    int     `yaml:"warn_window_days,omitempty"`
	Exceptions        []Entry `yaml:"exceptions"`
}

// compiledEntry pairs an entry with its prepared matcher state. Expired
// entries outside CI mode stay in the roster but are inert: they match for
// conflict detection yet never suppress.
type compiledEntry struct {
	Entry
	pathRegex *regexp.Regexp     // for match: regex
	pathGlob  gitignore.Pattern  // for match: glob
	expires   time.Time          // zero when never
	inert     bool
}

// Roster is the validated exception set, read-only after load and shared
// across all concurrent runners.
type Roster struct {
	Version string
	entries []compiledEntry // sorted by ID for deterministic tie-breaks
}

// Len reports the number of loaded entries.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}
