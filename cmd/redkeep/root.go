package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"redkeep-hq/redkeep/pkg/cli"
	"redkeep-hq/redkeep/pkg/config/manager"
	"redkeep-hq/redkeep/pkg/telemetry/logging"
	"redkeep-hq/redkeep/pkg/validation"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "redkeep",
	Short: "Redkeep - configuration engine for a supervised Redis data store",
	Long: `Redkeep manages the configuration of a Redis data store supervised
under WSL2 or Docker.

It provides:
  - Schema validation with actionable findings
  - Automatic migration of legacy configuration documents
  - Hot reload with debounced file watching and atomic snapshot swap
  - Change impact analysis (live-apply versus restart)
  - An audit journal of reload outcomes

For more information, visit: https://github.com/redkeep-hq/redkeep`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the command logger. Logs go to stderr so stdout
// stays parseable; --verbose lowers the level to debug.
func newLogger(level string) (*logging.Logger, error) {
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{
		Level:         level,
		Format:        "text",
		RedactSecrets: true,
		Writer:        os.Stderr,
	})
}

// rejectionError maps a loader failure to an exit-code aware error.
// A rejected document (validation or system check failure) exits with
// ExitInvalid; everything else is an operational failure.
func rejectionError(command string, err error) error {
	var validationErr *manager.ValidationFailedError
	if errors.As(err, &validationErr) {
		return cli.NewConfigError(validationErr.Path, summarizeFailures(validationErr.Report))
	}
	var systemErr *manager.SystemCheckError
	if errors.As(err, &systemErr) {
		return cli.NewConfigError(systemErr.Path, "system checks failed: "+summarizeFailures(systemErr.Report))
	}
	return cli.NewCommandError(command, err)
}

func summarizeFailures(report validation.Report) string {
	failures := report.Failures()
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "; ")
}
