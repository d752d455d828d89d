package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"redkeep-hq/redkeep/pkg/cli"
	"redkeep-hq/redkeep/pkg/config"
	"redkeep-hq/redkeep/pkg/config/manager"
	"redkeep-hq/redkeep/pkg/config/migrate"
)

var migrateFlags struct {
	write  bool
	dryRun bool
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate a configuration document to the current schema",
	Long: `Migrate a configuration document to the current schema version.

The migrate command detects the document's schema version, from its
version tag or from its structure when the tag is missing, and lists
the migration steps that bring it to the current version. By default
nothing is written; pass --write to rewrite the document.

A rewritten document is the complete configuration in the current
schema, with defaults materialized and the version tag stamped. The
original formatting and comments are not preserved.

Examples:
  # Preview the migration
  redkeep migrate

  # Apply it
  redkeep migrate --write

  # Migrate a specific document
  redkeep migrate --config /etc/redkeep/config.yaml --write`,
	RunE: migrateConfig,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().BoolVar(&migrateFlags.write, "write", false, "rewrite the document in the current schema")
	migrateCmd.Flags().BoolVar(&migrateFlags.dryRun, "dry-run", false, "preview only, never write (the default)")
}

func migrateConfig(cmd *cobra.Command, args []string) error {
	if migrateFlags.write && migrateFlags.dryRun {
		return errors.New("--write and --dry-run are mutually exclusive")
	}

	logger, err := newLogger("warn")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		return cli.NewCommandError("migrate", err)
	}

	format := config.DetectFormat(cfgFile)
	tree, err := config.ParseTree(data, format)
	if err != nil {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("cannot parse %s document: %v", format, err))
	}

	engine := migrate.NewEngine(logger.Slog())
	result, err := engine.Run(tree)
	if err != nil {
		return cli.NewCommandError("migrate", err)
	}

	fmt.Printf("Migrating %s...\n", cfgFile)
	fmt.Println()
	fmt.Printf("Detected version: %s\n", result.FromVersion)
	fmt.Printf("Target version:   %s\n", result.ToVersion)

	for _, warning := range result.Warnings {
		fmt.Printf("⚠  Warning: %s\n", warning)
	}

	if !result.Migrated() {
		fmt.Println()
		fmt.Println("Document is already at the current schema version.")
		return nil
	}

	fmt.Println()
	fmt.Println("Steps:")
	for _, step := range result.Steps {
		fmt.Printf("  %s -> %s  %s\n", step.From, step.To, step.Description)
	}
	fmt.Println()

	if !migrateFlags.write {
		fmt.Println("Dry run: nothing written. Re-run with --write to apply.")
		return nil
	}

	cfg, err := config.FromTree(result.Tree)
	if err != nil {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("migrated document does not decode: %v", err))
	}

	loader := manager.NewLoader(nil, logger.Slog())
	if err := loader.Save(cfg, cfgFile); err != nil {
		return rejectionError("migrate", err)
	}

	fmt.Printf("✓ Wrote %s (schema %s)\n", cfgFile, result.ToVersion)
	return nil
}
