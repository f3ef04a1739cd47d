package exceptions

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/repolint/repolint/internal/config"
	"github.com/repolint/repolint/internal/errs"
)

// State tracks the roster load lifecycle.
type State int

const (
	Unloaded State = iota
	Validating
	Loaded
	Rejected
)

var codeToken = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9:._-]*$`)

// LoadOptions parameterize roster validation.
type LoadOptions struct {
	CIMode     bool
	KnownTools map[string]string // tool name -> category ("format", "lint", "docstring")
	Now        time.Time         // zero means time.Now()
}

// Engine holds the loaded roster and its load-time warnings. Matching is
// pure; the engine is immutable after Load succeeds.
type Engine struct {
	State    State
	Roster   *Roster
	Warnings []string
}

// Load reads, validates and compiles the roster at path. A missing file is
// an empty roster, not an error. Validation failures reject the roster as
// a configuration error before any runner executes.
func Load(path string, opts LoadOptions) (*Engine, error) {
	e := &Engine{State: Unloaded}
	if _, err := os.Stat(path); err != nil {
		e.State = Loaded
		e.Roster = &Roster{}
		return e, nil
	}

	e.State = Validating
	var doc rosterDoc
	if err := config.LoadStrict(path, ConfigType, &doc); err != nil {
		e.State = Rejected
		return e, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := now.Truncate(24 * time.Hour)

	warnWindow := DefaultWarnWindowDays
	if doc.WarnWindowDays > 0 {
		warnWindow = doc.WarnWindowDays
	}

	roster := &Roster{Version: doc.Version}
	seen := map[string]bool{}
	for i := range doc.Exceptions {
		entry := doc.Exceptions[i]
		ce, err := compile(path, entry, opts, doc.AllowUnknownCodes, e)
		if err != nil {
			e.State = Rejected
			return e, err
		}

		if seen[entry.ID] {
			e.State = Rejected
			return e, errs.NewConfigf(path, "duplicate exception id %q", entry.ID)
		}
		seen[entry.ID] = true

		if !ce.expires.IsZero() {
			switch {
			case ce.expires.Before(today):
				if opts.CIMode {
					e.State = Rejected
					return e, errs.NewConfigf(path,
						"exception %q expired on %s; expired entries are fatal in CI mode",
						entry.ID, entry.Expires)
				}
				ce.inert = true
				e.Warnings = append(e.Warnings, fmt.Sprintf(
					"exception %q expired on %s and no longer suppresses anything", entry.ID, entry.Expires))
			case ce.expires.Before(today.AddDate(0, 0, warnWindow)):
				e.Warnings = append(e.Warnings, fmt.Sprintf(
					"exception %q expires on %s (within %d days)", entry.ID, entry.Expires, warnWindow))
			}
		}

		roster.entries = append(roster.entries, ce)
	}

	sort.Slice(roster.entries, func(i, j int) bool {
		return roster.entries[i].ID < roster.entries[j].ID
	})

	e.State = Loaded
	e.Roster = roster
	return e, nil
}

func compile(path string, entry Entry, opts LoadOptions, allowUnknown bool, e *Engine) (compiledEntry, error) {
	ce := compiledEntry{Entry: entry}

	if strings.TrimSpace(entry.ID) == "" {
		return ce, errs.NewConfigf(path, "exception entry with empty id")
	}
	if len(entry.Ignores) == 0 {
		return ce, errs.NewConfigf(path, "exception %q declares no ignores", entry.ID)
	}
	if entry.Reason == "" {
		return ce, errs.NewConfigf(path, "exception %q is missing a reason", entry.ID)
	}

	switch entry.Scope.TargetType {
	case "file", "symbol":
	case "":
		ce.Scope.TargetType = "file"
	default:
		return ce, errs.NewConfigf(path, "exception %q: unknown target_type %q", entry.ID, entry.Scope.TargetType)
	}
	if entry.Scope.Language == "" {
		return ce, errs.NewConfigf(path, "exception %q: scope.language is required ('all' to match any)", entry.ID)
	}

	switch entry.Scope.Match {
	case "exact":
	case "glob":
		ce.pathGlob = gitignore.ParsePattern(entry.Scope.Path, nil)
	case "regex":
		pat := entry.Scope.Path
		if entry.Scope.Anchored == nil || *entry.Scope.Anchored {
			pat = "^(?:" + pat + ")$"
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return ce, errs.NewConfigf(path, "exception %q: invalid scope regex: %v", entry.ID, err)
		}
		ce.pathRegex = re
	default:
		return ce, errs.NewConfigf(path, "exception %q: unknown match kind %q (want exact, glob or regex)",
			entry.ID, entry.Scope.Match)
	}

	for _, ig := range entry.Ignores {
		cat, known := opts.KnownTools[ig.Tool]
		if !known {
			if !allowUnknown {
				return ce, errs.NewConfigf(path,
					"exception %q ignores unknown tool %q (set allow_unknown_codes to override)", entry.ID, ig.Tool)
			}
			e.Warnings = append(e.Warnings, fmt.Sprintf(
				"exception %q references unknown tool %q (allowed by allow_unknown_codes)", entry.ID, ig.Tool))
		}
		if ig.Code == "" || !codeToken.MatchString(ig.Code) {
			return ce, errs.NewConfigf(path, "exception %q: invalid code %q for tool %q", entry.ID, ig.Code, ig.Tool)
		}
		if ig.Category != "" && known && ig.Category != cat {
			return ce, errs.NewConfigf(path, "exception %q: tool %q is category %q, not %q",
				entry.ID, ig.Tool, cat, ig.Category)
		}
	}

	if entry.Created != "" {
		if _, err := time.Parse(dateLayout, entry.Created); err != nil {
			return ce, errs.NewConfigf(path, "exception %q: invalid created date %q", entry.ID, entry.Created)
		}
	}
	if entry.Expires != "" {
		t, err := time.Parse(dateLayout, entry.Expires)
		if err != nil {
			return ce, errs.NewConfigf(path, "exception %q: invalid expires date %q", entry.ID, entry.Expires)
		}
		ce.expires = t
	}

	return ce, nil
}
