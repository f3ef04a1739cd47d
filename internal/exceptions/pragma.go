package exceptions

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/repolint/repolint/internal/model"
)

// Inline pragma forms, retained for backward compatibility and subordinate
// to the YAML roster:
//
//	# repolint: ignore=tool:CODE[,tool:CODE...]
//	# repolint: enforce=tool:CODE
//	<!-- repolint: ignore=tool:CODE -->
//
// A pragma is file-scoped: it covers every matching violation in the file
// that declares it.
var pragmaLine = regexp.MustCompile(
	`(?:#|<!--)\s*repolint:\s*(ignore|enforce)=([A-Za-z0-9:._,-]+)\s*(?:-->)?\s*$`)

type pragmaKey struct {
	path string
	tool string
	code string
}

// PragmaIndex is the scanned set of inline pragmas for one runner's file
// set. It implements Source.
type PragmaIndex struct {
	effects map[pragmaKey]bool // true = ignore, false = enforce
}

// ScanPragmas reads each file once and collects its pragma declarations.
// Paths are recorded repo-relative to line up with Violation.SourcePath.
func ScanPragmas(repoRoot string, relPaths []string) (*PragmaIndex, error) {
	idx := &PragmaIndex{effects: map[pragmaKey]bool{}}
	for _, rel := range relPaths {
		f, err := os.Open(filepath.Join(repoRoot, rel))
		if err != nil {
			continue
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			m := pragmaLine.FindStringSubmatch(sc.Text())
			if m == nil {
				continue
			}
			suppress := m[1] == "ignore"
			for _, spec := range strings.Split(m[2], ",") {
				tool, code, ok := strings.Cut(strings.TrimSpace(spec), ":")
				if !ok || tool == "" || code == "" {
					continue
				}
				idx.effects[pragmaKey{path: filepath.ToSlash(rel), tool: tool, code: code}] = suppress
			}
		}
		f.Close()
	}
	return idx, nil
}

// Name implements Source.
func (p *PragmaIndex) Name() string { return "pragma" }

// Decide implements Source.
func (p *PragmaIndex) Decide(_ string, v model.Violation) (suppress, matched bool, ref string) {
	if p == nil || v.Code == "" {
		return false, false, ""
	}
	eff, ok := p.effects[pragmaKey{path: v.SourcePath, tool: v.Tool, code: v.Code}]
	if !ok {
		return false, false, ""
	}
	return eff, true, v.SourcePath
}

// Len reports how many pragma declarations were indexed.
func (p *PragmaIndex) Len() int { return len(p.effects) }
