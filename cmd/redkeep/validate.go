package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"redkeep-hq/redkeep/pkg/cli"
	"redkeep-hq/redkeep/pkg/config/manager"
	"redkeep-hq/redkeep/pkg/validation"
)

var validateFlags struct {
	system bool
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration document",
	Long: `Validate a configuration document against the current schema.

The validate command runs the full load pipeline: parse, migrate to the
current schema version, apply environment overrides, run every domain
validator, and verify that secret references resolve. Findings
accumulate, so one run reports everything wrong with the document.

With --system, host environment probes run after the syntactic checks
pass: port availability, disk space, and backend runtime presence.

Exit codes:
  0 - document is valid (warnings allowed)
  1 - command failed (unreadable file, unresolvable secret)
  2 - document rejected (blocking findings)

Examples:
  # Validate the default config file
  redkeep validate

  # Validate a specific document
  redkeep validate --config /etc/redkeep/config.yaml

  # Include host environment probes
  redkeep validate --system

  # Machine-readable findings
  redkeep validate --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.system, "system", false, "run host environment probes (port, disk, runtime)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

// validationOutput is the command result in a shape both the text and
// JSON renderers understand.
type validationOutput struct {
	Path          string          `json:"path"`
	Valid         bool            `json:"valid"`
	SchemaVersion string          `json:"schemaVersion,omitempty"`
	MigratedFrom  string          `json:"migratedFrom,omitempty"`
	SystemChecks  bool            `json:"systemChecks"`
	Findings      []findingOutput `json:"findings"`
}

type findingOutput struct {
	Severity   string `json:"severity"`
	Property   string `json:"property"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func validateConfig(cmd *cobra.Command, args []string) error {
	logger, err := newLogger("warn")
	if err != nil {
		return err
	}

	loader := manager.NewLoader(&manager.LoaderConfig{
		SystemChecks: validateFlags.system,
	}, logger.Slog())

	out := validationOutput{
		Path:         cfgFile,
		SystemChecks: validateFlags.system,
	}

	result, err := loader.Load(context.Background(), cfgFile)
	if err != nil {
		var validationErr *manager.ValidationFailedError
		var systemErr *manager.SystemCheckError
		switch {
		case errors.As(err, &validationErr):
			out.Findings = toFindingOutputs(validationErr.Report.Findings)
		case errors.As(err, &systemErr):
			out.Findings = toFindingOutputs(systemErr.Report.Findings)
		default:
			return cli.NewCommandError("validate", err)
		}
	} else {
		out.Valid = true
		out.SchemaVersion = result.Config.Metadata.SchemaVersion
		if result.Migration != nil && result.Migration.Migrated() {
			out.MigratedFrom = result.Migration.FromVersion
		}
		out.Findings = toFindingOutputs(result.Report.Findings)
	}

	if validateFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, out); err != nil {
			return err
		}
	} else {
		printValidation(out)
	}

	if !out.Valid {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("%d blocking finding(s)", countBlocking(out.Findings)))
	}
	return nil
}

func toFindingOutputs(findings []validation.Finding) []findingOutput {
	out := make([]findingOutput, 0, len(findings))
	for _, f := range findings {
		out = append(out, findingOutput{
			Severity:   f.Severity.String(),
			Property:   f.PropertyPath,
			Message:    f.Message,
			Suggestion: f.Suggestion,
		})
	}
	return out
}

func countBlocking(findings []findingOutput) int {
	n := 0
	for _, f := range findings {
		if f.Severity == "error" || f.Severity == "critical" {
			n++
		}
	}
	return n
}

func printValidation(out validationOutput) {
	fmt.Printf("Validating %s...\n", out.Path)
	fmt.Println()

	if out.Valid {
		fmt.Printf("✓ Schema version: %s", out.SchemaVersion)
		if out.MigratedFrom != "" {
			fmt.Printf(" (migrated from %s)", out.MigratedFrom)
		}
		fmt.Println()
		if out.SystemChecks {
			fmt.Println("✓ System checks: passed")
		}
	}

	if len(out.Findings) > 0 {
		fmt.Printf("Findings (%d):\n", len(out.Findings))
		for _, f := range out.Findings {
			fmt.Printf("  - %s %s: %s\n", f.Severity, f.Property, f.Message)
			if f.Suggestion != "" {
				fmt.Printf("    try: %s\n", f.Suggestion)
			}
		}
		fmt.Println()
	}

	if out.Valid {
		fmt.Println("Configuration is valid.")
	} else {
		fmt.Printf("✗ Configuration rejected: %d blocking finding(s)\n", countBlocking(out.Findings))
	}
}
