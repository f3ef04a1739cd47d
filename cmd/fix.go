package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repolint/repolint/internal/dispatch"
	"github.com/repolint/repolint/internal/logging"
	"github.com/repolint/repolint/internal/model"
	"github.com/repolint/repolint/internal/policy"
)

var flagPolicy string

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Apply policy-approved automatic fixes, then re-check",
	Long: `Fix runs only the formatters and safe lint fixes the auto-fix policy
explicitly allows, then re-runs the checks to report what remains.
Without a policy file every fix is denied and fix behaves like check.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		results := runPipeline(args, func(ctx context.Context, d *dispatch.Dispatcher) []model.RunnerResult {
			path := flagPolicy
			if path == "" {
				path = filepath.Join(d.RepoRoot(), policy.DefaultPath)
			}
			pol, err := policy.Load(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(int(model.ExitConfigError))
			}
			if cats := pol.Categories(); len(cats) > 0 {
				logging.L().Debugf("auto-fix categories allowed: %s", strings.Join(cats, ", "))
			} else {
				logging.L().Debug("no auto-fix categories allowed, running checks only")
			}
			return d.Fix(ctx, pol)
		})
		finish(results)
	},
}

func init() {
	addRunFlags(fixCmd)
	fixCmd.Flags().StringVar(&flagPolicy, "policy", "", "Path to the auto-fix policy YAML")
	rootCmd.AddCommand(fixCmd)
}
