package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/repolint/repolint/internal/model"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "repo-lint",
	Short: "repo-lint - unified multi-language linting and docstring validation",
	Long: `repo-lint discovers source files per language, runs the configured
external linters and formatters, normalizes their output into one
violation model, applies the exception policy and renders a
deterministic report.

Exit codes: 0 clean, 1 violations found, 2 missing tools,
3 configuration error.`,
	SilenceUsage: true,
	Version:      version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(int(model.ExitConfigError))
	}
}
