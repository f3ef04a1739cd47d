// Package runner owns per-language orchestration: file discovery, tool
// execution in the declared order, normalization, exception filtering and
// result assembly.
package runner

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/repolint/repolint/internal/errs"
	"github.com/repolint/repolint/internal/exceptions"
	"github.com/repolint/repolint/internal/excludes"
	"github.com/repolint/repolint/internal/logging"
	"github.com/repolint/repolint/internal/model"
	"github.com/repolint/repolint/internal/normalize"
	"github.com/repolint/repolint/internal/policy"
)

// Runner executes one language's tool chain. The exclusion list and the
// exception engine are shared, read-only state injected at construction.
type Runner struct {
	Desc        Descriptor
	RepoRoot    string
	Excludes    *excludes.List
	Engine      *exceptions.Engine
	ToolFilter  []string // nil = run all tools
	ChangedOnly bool
	DebugTiming bool

	includes []gitignore.Pattern
}

// New builds a runner over a language descriptor.
func New(desc Descriptor, repoRoot string, excl *excludes.List, engine *exceptions.Engine) *Runner {
	r := &Runner{Desc: desc, RepoRoot: repoRoot, Excludes: excl, Engine: engine}
	for _, g := range desc.Globs {
		r.includes = append(r.includes, gitignore.ParsePattern(g, nil))
	}
	return r
}

// DiscoverFiles walks the repository and returns in-scope repo-relative
// paths in lexicographic order. The shared exclusion list is the only
// authority on what is skipped.
func (r *Runner) DiscoverFiles() ([]string, error) {
	var out []string
	err := filepath.WalkDir(r.RepoRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(r.RepoRoot, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !r.matchesGlobs(rel) || r.Excludes.Excluded(rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.ChangedOnly {
		changed, err := gitChangedFiles(r.RepoRoot)
		if err != nil {
			return nil, err
		}
		filtered := out[:0]
		for _, f := range out {
			if changed[f] {
				filtered = append(filtered, f)
			}
		}
		out = filtered
	}

	sort.Strings(out)
	return out, nil
}

// HasFiles reports whether discovery finds anything for this language.
func (r *Runner) HasFiles() bool {
	files, err := r.DiscoverFiles()
	return err == nil && len(files) > 0
}

// MissingTools lists required tools absent from PATH, after tool filtering.
func (r *Runner) MissingTools() []string {
	var missing []string
	for _, t := range r.activeTools() {
		if !t.Adapter.Available() {
			missing = append(missing, t.Adapter.Tool)
		}
	}
	return missing
}

// Check runs the tool chain read-only and assembles the runner result.
// A missing tool is recorded as a distinct condition on the result; it is
// never conflated with an empty violation list.
func (r *Runner) Check(ctx context.Context) model.RunnerResult {
	start := time.Now()
	res := model.RunnerResult{Runner: r.Desc.Language}

	files, err := r.DiscoverFiles()
	if err != nil {
		res.Anomalies = append(res.Anomalies, "discovery failed: "+err.Error())
		res.Duration = time.Since(start)
		return res
	}
	res.FileCount = len(files)
	if len(files) == 0 {
		res.OK = true
		res.Duration = time.Since(start)
		return res
	}

	var merged []model.Violation
	seen := map[string]bool{}
	for _, spec := range r.activeTools() {
		toolFiles := filterFiles(files, spec.FileFilter)
		if len(toolFiles) == 0 {
			continue
		}
		vs, anomalies, runErr := r.runTool(ctx, spec, toolFiles)
		if runErr != nil {
			var mt *errs.MissingToolError
			switch {
			case errors.As(runErr, &mt):
				res.MissingTools = append(res.MissingTools, mt.Tool)
			case errors.Is(runErr, context.DeadlineExceeded) || errors.Is(runErr, context.Canceled):
				res.TimedOut = true
			default:
				res.Anomalies = append(res.Anomalies, spec.Adapter.Tool+": "+runErr.Error())
			}
			continue
		}
		res.Anomalies = append(res.Anomalies, anomalies...)
		for _, v := range vs {
			if seen[v.Identity()] {
				continue
			}
			seen[v.Identity()] = true
			merged = append(merged, v)
		}
	}

	pragmas, _ := exceptions.ScanPragmas(r.RepoRoot, files)
	fr := r.Engine.Filter(r.Desc.Language, merged, pragmas)
	for _, c := range fr.Conflicts {
		logging.L().Warnf("suppression conflict: %s", c)
	}

	res.Violations = fr.Remaining
	res.Suppressed = fr.Suppressed
	res.Counts = fr.Counts
	res.OK = len(fr.Remaining) == 0 && !res.Infra()
	res.Duration = time.Since(start)
	return res
}

// Fix applies only fix-capable, policy-allowed adapters, then re-checks.
// It is a separate operation from Check and never runs implicitly.
func (r *Runner) Fix(ctx context.Context, pol *policy.Policy) model.RunnerResult {
	for _, spec := range r.activeTools() {
		if !spec.Adapter.FixCapable() {
			continue
		}
		if spec.FixCategory == "" || !pol.Allowed(spec.FixCategory) {
			logging.L().Debugf("skipping %s fix (denied by policy)", spec.Adapter.Tool)
			continue
		}
		files, err := r.DiscoverFiles()
		if err != nil || len(files) == 0 {
			continue
		}
		toolFiles := filterFiles(files, spec.FileFilter)
		if len(toolFiles) == 0 {
			continue
		}
		if _, err := spec.Adapter.Fix(ctx, r.RepoRoot, toolFiles); err != nil {
			logging.L().Warnf("%s fix failed: %v", spec.Adapter.Tool, err)
		}
	}
	return r.Check(ctx)
}

func (r *Runner) runTool(ctx context.Context, spec ToolSpec, files []string) ([]model.Violation, []string, error) {
	out, err := spec.Adapter.Check(ctx, r.RepoRoot, files)
	if err != nil {
		return nil, nil, err
	}
	if r.DebugTiming {
		logging.L().Infof("%s/%s: %d file(s) in %s", r.Desc.Language, spec.Adapter.Tool, len(files), out.Duration)
	}

	parsed := spec.Parse(out.Stdout, out.Stderr)
	vs := normalize.All(parsed.Records, spec.Adapter.Tool, r.RepoRoot)

	// tools that scan beyond the handed file list must not leak excluded
	// paths into the result
	kept := vs[:0]
	for _, v := range vs {
		if v.SourcePath != "" && r.Excludes.Excluded(v.SourcePath) {
			continue
		}
		kept = append(kept, v)
	}
	return kept, parsed.Anomalies, nil
}

func (r *Runner) activeTools() []ToolSpec {
	if r.ToolFilter == nil {
		return r.Desc.Tools
	}
	want := map[string]bool{}
	for _, t := range r.ToolFilter {
		want[t] = true
	}
	var out []ToolSpec
	for _, spec := range r.Desc.Tools {
		if want[spec.Adapter.Tool] {
			out = append(out, spec)
		}
	}
	return out
}

func (r *Runner) matchesGlobs(rel string) bool {
	parts := strings.Split(rel, "/")
	for _, p := range r.includes {
		if p.Match(parts, false) == gitignore.Exclude {
			return true
		}
	}
	return false
}

func filterFiles(files []string, keep func(string) bool) []string {
	if keep == nil {
		return files
	}
	var out []string
	for _, f := range files {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func gitChangedFiles(repoRoot string) (map[string]bool, error) {
	cmd := exec.Command("git", "diff", "--name-only", "HEAD")
	cmd.Dir = repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.New("--changed-only requires a git repository")
	}
	changed := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			changed[filepath.ToSlash(line)] = true
		}
	}
	return changed, nil
}
