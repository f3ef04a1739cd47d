// Package dispatch selects runners per the language/tool filters, executes
// them over a bounded pool and collects results in declared registry
// order, regardless of completion order.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/repolint/repolint/internal/errs"
	"github.com/repolint/repolint/internal/exceptions"
	"github.com/repolint/repolint/internal/excludes"
	"github.com/repolint/repolint/internal/logging"
	"github.com/repolint/repolint/internal/model"
	"github.com/repolint/repolint/internal/policy"
	"github.com/repolint/repolint/internal/runner"
)

// DefaultJobs caps the worker pool conservatively; runners mostly block on
// subprocesses, so a small pool is enough.
const DefaultJobs = 4

const maxJobs = 16

// Options parameterize one dispatch invocation.
type Options struct {
	RepoRoot    string
	Languages   []string // empty = all registered languages with files
	Tools       []string // empty = all tools
	ChangedOnly bool
	Fixtures    bool // vector mode: keep fixture paths in scope
	Jobs        int  // <=0 means DefaultJobs; 1 forces sequential
	Sequential  bool // escape hatch: disable concurrency entirely
	Timeout     time.Duration
	DebugTiming bool
}

// Dispatcher resolves the runner subset and runs it.
type Dispatcher struct {
	opts    Options
	runners []*runner.Runner
}

// New validates the filters against the registry and builds the runner
// set. An unknown requested language, or a requested language with no
// matching files, is a configuration error raised before anything runs.
func New(opts Options, excl *excludes.List, engine *exceptions.Engine) (*Dispatcher, error) {
	if opts.Fixtures {
		excl = excl.WithFixtures(true)
	}

	known := map[string]runner.Descriptor{}
	for _, d := range runner.Registry() {
		known[d.Language] = d
	}
	for _, lang := range opts.Languages {
		if _, ok := known[lang]; !ok {
			return nil, errs.NewConfigf("", "unknown language %q (registered: %v)", lang, runner.Languages())
		}
	}
	if len(opts.Tools) > 0 {
		knownTools := runner.KnownTools()
		for _, t := range opts.Tools {
			if _, ok := knownTools[t]; !ok {
				return nil, errs.NewConfigf("", "unknown tool %q", t)
			}
		}
	}

	requested := map[string]bool{}
	for _, lang := range opts.Languages {
		requested[lang] = true
	}

	d := &Dispatcher{opts: opts}
	for _, desc := range runner.Registry() {
		if len(requested) > 0 && !requested[desc.Language] {
			continue
		}
		if len(opts.Tools) > 0 && !hasActiveTool(desc, opts.Tools) {
			continue
		}
		r := runner.New(desc, opts.RepoRoot, excl, engine)
		r.ChangedOnly = opts.ChangedOnly
		r.DebugTiming = opts.DebugTiming
		if len(opts.Tools) > 0 {
			r.ToolFilter = opts.Tools
		}

		if !r.HasFiles() {
			if requested[desc.Language] {
				return nil, errs.NewConfigf("", "language %q was requested but has no matching files", desc.Language)
			}
			logging.L().Debugf("no %s files found, skipping", desc.Language)
			continue
		}
		d.runners = append(d.runners, r)
	}
	return d, nil
}

// Runners exposes the resolved set in declared order.
func (d *Dispatcher) Runners() []*runner.Runner { return d.runners }

// RepoRoot reports the absolute repository root this dispatcher operates on.
func (d *Dispatcher) RepoRoot() string { return d.opts.RepoRoot }

// Check executes every resolved runner and returns results in declared
// registry order. Each result lands in a pre-sized slot indexed by
// declared position, so concurrency never reorders or interleaves output.
func (d *Dispatcher) Check(ctx context.Context) []model.RunnerResult {
	return d.run(ctx, func(ctx context.Context, r *runner.Runner) model.RunnerResult {
		return r.Check(ctx)
	})
}

// Fix executes the fix operation per runner under the given policy, then
// re-checks. Fix never runs concurrently with itself over one runner.
func (d *Dispatcher) Fix(ctx context.Context, pol *policy.Policy) []model.RunnerResult {
	return d.run(ctx, func(ctx context.Context, r *runner.Runner) model.RunnerResult {
		return r.Fix(ctx, pol)
	})
}

func (d *Dispatcher) run(ctx context.Context, op func(context.Context, *runner.Runner) model.RunnerResult) []model.RunnerResult {
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	jobs := d.opts.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}
	if jobs > maxJobs {
		jobs = maxJobs
	}
	if d.opts.Sequential {
		jobs = 1
	}

	results := make([]model.RunnerResult, len(d.runners))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, r := range d.runners {
		g.Go(func() error {
			// the runner marks its own TimedOut when the context fires
			// mid-run; a timeout after completion must not relabel an
			// ordinary violation result
			results[i] = op(gctx, r)
			return nil
		})
	}
	// workers never return errors; violations and infra conditions travel
	// inside each result
	_ = g.Wait()
	return results
}

func hasActiveTool(desc runner.Descriptor, tools []string) bool {
	want := map[string]bool{}
	for _, t := range tools {
		want[t] = true
	}
	for _, spec := range desc.Tools {
		if want[spec.Adapter.Tool] {
			return true
		}
	}
	return false
}

// Summary is a convenience line for debug logging.
func (d *Dispatcher) Summary() string {
	return fmt.Sprintf("%d runner(s) resolved", len(d.runners))
}
