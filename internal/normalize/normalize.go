// Package normalize is the single chokepoint between raw tool records and
// the shared violation model. Every renderer and every exception matcher
// consumes its output, never raw tool text.
package normalize

import (
	"path/filepath"
	"strings"

	"github.com/repolint/repolint/internal/model"
	"github.com/repolint/repolint/internal/parsers"
)

// Normalize converts one raw record into exactly one Violation.
//
// The file column is always the bare basename; the full repo-relative path
// is retained separately for exception matching. A record without a line
// keeps the sentinel rather than an invented number.
func Normalize(rec parsers.RawRecord, tool, repoRoot string) model.Violation {
	source := relPath(rec.Path, repoRoot)

	line := model.NoLine
	if rec.Line >= 1 {
		line = model.Line(rec.Line)
	}

	msg := strings.TrimSpace(rec.Message)
	if rec.Code != "" {
		if msg == "" {
			msg = rec.Code
		} else {
			msg = rec.Code + ": " + msg
		}
	}

	base := ""
	if source != "" {
		base = filepath.Base(filepath.ToSlash(source))
	}

	return model.Violation{
		Tool:       tool,
		Code:       rec.Code,
		File:       base,
		Line:       line,
		Message:    msg,
		SourcePath: source,
	}
}

// All normalizes a whole parser result against one tool.
func All(recs []parsers.RawRecord, tool, repoRoot string) []model.Violation {
	out := make([]model.Violation, 0, len(recs))
	for _, r := range recs {
		out = append(out, Normalize(r, tool, repoRoot))
	}
	return out
}

func relPath(p, repoRoot string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) && repoRoot != "" {
		if rel, err := filepath.Rel(repoRoot, p); err == nil && !strings.HasPrefix(rel, "..") {
			p = rel
		} else {
			p = filepath.Base(p)
		}
	}
	p = filepath.ToSlash(filepath.Clean(p))
	return strings.TrimPrefix(p, "./")
}
