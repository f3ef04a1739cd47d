package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/repolint/repolint/internal/dispatch"
	"github.com/repolint/repolint/internal/exceptions"
	"github.com/repolint/repolint/internal/excludes"
	"github.com/repolint/repolint/internal/logging"
	"github.com/repolint/repolint/internal/model"
	"github.com/repolint/repolint/internal/report"
	"github.com/repolint/repolint/internal/runner"
	"github.com/repolint/repolint/internal/sarif"
)

var (
	flagLanguages     []string
	flagTools         []string
	flagCI            bool
	flagVerbose       bool
	flagJSON          bool
	flagSARIF         bool
	flagChangedOnly   bool
	flagFixtures      bool
	flagShowIgnored   bool
	flagJobs          int
	flagNoConcurrency bool
	flagTimeout       time.Duration
	flagDebugTiming   bool
	flagExceptions    string
	flagPatterns      string
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Run linting checks without modifying files",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		results := runPipeline(args, func(ctx context.Context, d *dispatch.Dispatcher) []model.RunnerResult {
			return d.Check(ctx)
		})
		finish(results)
	},
}

// runPipeline performs the setup shared by check and fix: logger, shared
// exclusion list, exception roster, dispatcher. Configuration failures
// exit with the distinct config-error code before any runner executes.
func runPipeline(args []string, op func(context.Context, *dispatch.Dispatcher) []model.RunnerResult) []model.RunnerResult {
	logging.InitLogger(flagVerbose || flagDebugTiming)

	if flagJSON && flagSARIF {
		fmt.Fprintln(os.Stderr, "error: --json and --sarif are mutually exclusive")
		os.Exit(int(model.ExitConfigError))
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(int(model.ExitConfigError))
	}

	patternsPath := flagPatterns
	if patternsPath == "" {
		patternsPath = filepath.Join(absRoot, excludes.DefaultPath)
	}
	excl, err := excludes.Load(patternsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(int(model.ExitConfigError))
	}

	rosterPath := flagExceptions
	if rosterPath == "" {
		rosterPath = filepath.Join(absRoot, exceptions.DefaultPath)
	}
	engine, err := exceptions.Load(rosterPath, exceptions.LoadOptions{
		CIMode:     flagCI,
		KnownTools: runner.KnownTools(),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(int(model.ExitConfigError))
	}
	for _, warning := range engine.Warnings {
		logging.L().Warnf("exceptions: %s", warning)
		if !flagCI {
			fmt.Fprintln(os.Stderr, "warning:", warning)
		}
	}

	d, err := dispatch.New(dispatch.Options{
		RepoRoot:    absRoot,
		Languages:   flagLanguages,
		Tools:       flagTools,
		ChangedOnly: flagChangedOnly,
		Fixtures:    flagFixtures,
		Jobs:        flagJobs,
		Sequential:  flagNoConcurrency,
		Timeout:     flagTimeout,
		DebugTiming: flagDebugTiming,
	}, excl, engine)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(int(model.ExitConfigError))
	}

	// CI promotes missing tools to a fatal condition before anything runs
	if flagCI {
		var missing []string
		for _, r := range d.Runners() {
			missing = append(missing, r.MissingTools()...)
		}
		if len(missing) > 0 {
			report.InstallHints(os.Stderr, installHints(), missing)
			os.Exit(int(model.ExitMissingTools))
		}
	}

	return op(context.Background(), d)
}

func finish(results []model.RunnerResult) {
	switch {
	case flagJSON:
		if err := report.WriteJSON(os.Stdout, results); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(int(model.ExitConfigError))
		}
	case flagSARIF:
		if err := sarif.Export(os.Stdout, results, version); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(int(model.ExitConfigError))
		}
	case flagCI:
		report.WriteCI(os.Stdout, results, flagShowIgnored)
	default:
		report.WriteInteractive(os.Stdout, results, flagShowIgnored)
		t := report.Tally(results)
		report.InstallHints(os.Stdout, installHints(), t.Missing)
	}
	os.Exit(int(report.ExitCodeFor(results)))
}

func installHints() map[string]string {
	hints := map[string]string{}
	for _, desc := range runner.Registry() {
		for _, t := range desc.Tools {
			hints[t.Adapter.Tool] = t.Adapter.InstallHint
		}
	}
	return hints
}

func addRunFlags(c *cobra.Command) {
	c.Flags().StringArrayVarP(&flagLanguages, "language", "l", nil, "Restrict to a language (repeatable)")
	c.Flags().StringArrayVarP(&flagTools, "tool", "t", nil, "Restrict to a tool (repeatable)")
	c.Flags().BoolVar(&flagCI, "ci", false, "CI mode: stable output, missing tools are fatal")
	c.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	c.Flags().BoolVar(&flagJSON, "json", false, "Emit machine-readable JSON report")
	c.Flags().BoolVar(&flagSARIF, "sarif", false, "Emit SARIF 2.1.0 report")
	c.Flags().BoolVar(&flagChangedOnly, "changed-only", false, "Only check files changed per git")
	c.Flags().BoolVar(&flagFixtures, "include-fixtures", false, "Include test fixture paths (vector mode)")
	c.Flags().BoolVar(&flagShowIgnored, "show-ignored", false, "Show suppressed findings in an audit section")
	c.Flags().IntVar(&flagJobs, "jobs", dispatch.DefaultJobs, "Worker pool size for runners")
	c.Flags().BoolVar(&flagNoConcurrency, "no-concurrency", false, "Force fully sequential execution")
	c.Flags().DurationVar(&flagTimeout, "timeout", 0, "Global timeout for all runners (0 = none)")
	c.Flags().BoolVar(&flagDebugTiming, "debug-timing", false, "Log per-step wall time")
	c.Flags().StringVar(&flagExceptions, "exceptions", "", "Path to the exception roster YAML")
	c.Flags().StringVar(&flagPatterns, "patterns", "", "Path to the file-patterns YAML")
}

func init() {
	addRunFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}
