package exceptions

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/repolint/repolint/internal/model"
)

// Source is a suppression source. The YAML roster and the legacy pragma
// mechanism both implement it, so precedence and conflict detection live
// in exactly one algorithm.
type Source interface {
	Name() string
	// Decide returns the source's opinion about a violation: whether it has
	// one at all, and if so whether the violation should be suppressed.
	Decide(language string, v model.Violation) (suppress bool, matched bool, ref string)
}

// FilterResult is the deterministic partition of one violation set.
type FilterResult struct {
	Remaining  []model.Violation
	Suppressed []model.Suppressed
	Counts     model.SuppressionCounts
	Conflicts  []string
}

// Filter partitions violations into suppressed and remaining. The YAML
// roster wins over the pragma source whenever both have an opinion; a
// differing pragma opinion produces exactly one conflict warning per
// violation, emitted unconditionally. Matching is pure: filtering the same
// input twice yields the same partition.
func (e *Engine) Filter(language string, violations []model.Violation, pragmas Source) FilterResult {
	var res FilterResult
	res.Remaining = make([]model.Violation, 0, len(violations))

	for _, v := range violations {
		ySuppress, yMatched, yID := e.decide(language, v)

		var pSuppress, pMatched bool
		if pragmas != nil {
			pSuppress, pMatched, _ = pragmas.Decide(language, v)
		}

		if yMatched && pMatched && pSuppress != ySuppress {
			res.Counts.Conflicts++
			res.Conflicts = append(res.Conflicts, fmt.Sprintf(
				"%s:%s [%s %s]: YAML exception %q and inline pragma disagree; YAML wins",
				v.SourcePath, v.Line, v.Tool, v.Code, yID))
		}

		switch {
		case yMatched && ySuppress:
			res.Counts.YAML++
			res.Suppressed = append(res.Suppressed, model.Suppressed{Violation: v, Source: "yaml", EntryID: yID})
		case !yMatched && pMatched && pSuppress:
			res.Counts.Pragma++
			res.Suppressed = append(res.Suppressed, model.Suppressed{Violation: v, Source: "pragma"})
		default:
			res.Remaining = append(res.Remaining, v)
		}
	}
	return res
}

// Name implements Source.
func (e *Engine) Name() string { return "yaml" }

// Decide implements Source for the roster side.
func (e *Engine) Decide(language string, v model.Violation) (suppress, matched bool, ref string) {
	return e.decide(language, v)
}

// decide finds the winning roster entry for a violation. Ties between
// matching entries resolve to the lowest id; entries are pre-sorted, so
// the first valid hit wins. Inert (expired, non-CI) entries never shadow a
// valid entry: they are only the answer when no live entry matches, where
// they report "matched but not suppressed" so pragma conflicts against
// them stay observable.
func (e *Engine) decide(language string, v model.Violation) (suppress, matched bool, id string) {
	if e == nil || e.Roster == nil {
		return false, false, ""
	}
	inertID := ""
	for i := range e.Roster.entries {
		ce := &e.Roster.entries[i]
		if !ce.scopeMatches(language, v) || !ce.ignoreMatches(v) {
			continue
		}
		if ce.inert {
			if inertID == "" {
				inertID = ce.ID
			}
			continue
		}
		return true, true, ce.ID
	}
	if inertID != "" {
		return false, true, inertID
	}
	return false, false, ""
}

func (ce *compiledEntry) scopeMatches(language string, v model.Violation) bool {
	if ce.Scope.Language != "all" && ce.Scope.Language != language {
		return false
	}
	switch ce.Scope.TargetType {
	case "symbol":
		return ce.symbolMatches(v.Message)
	default:
		return ce.pathMatches(v.SourcePath)
	}
}

func (ce *compiledEntry) pathMatches(path string) bool {
	switch ce.Scope.Match {
	case "exact":
		// full repo-relative equality; basename-style scoping is what the
		// glob kind is for
		return path == ce.Scope.Path
	case "glob":
		return ce.pathGlob.Match(strings.Split(path, "/"), false) == gitignore.Exclude
	case "regex":
		return ce.pathRegex.MatchString(path)
	}
	return false
}

// symbolMatches applies the scope pattern to each token of the message,
// since normalized violations carry symbol names inside the message text.
func (ce *compiledEntry) symbolMatches(message string) bool {
	for _, tok := range strings.Fields(message) {
		tok = strings.Trim(tok, "`'\":,()")
		if tok == "" {
			continue
		}
		switch ce.Scope.Match {
		case "exact":
			if tok == ce.Scope.Path {
				return true
			}
		case "glob":
			if ce.pathGlob.Match([]string{tok}, false) == gitignore.Exclude {
				return true
			}
		case "regex":
			if ce.pathRegex.MatchString(tok) {
				return true
			}
		}
	}
	return false
}

func (ce *compiledEntry) ignoreMatches(v model.Violation) bool {
	for _, ig := range ce.Ignores {
		if ig.Tool == v.Tool && ig.Code == v.Code {
			return true
		}
	}
	return false
}
