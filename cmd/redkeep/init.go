package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"redkeep-hq/redkeep/pkg/cli"
	"redkeep-hq/redkeep/pkg/config"
	"redkeep-hq/redkeep/pkg/config/manager"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration document",
	Long: `Write a default configuration document to the --config path.

The document carries every section with its default value and the
current schema version tag. The format follows the file extension:
.yaml/.yml is YAML, .toml is TOML, anything else is JSON.

An existing file is never overwritten without --force.

Examples:
  # Create ./config.yaml
  redkeep init

  # Create a TOML document
  redkeep init --config redkeep.toml

  # Overwrite an existing document
  redkeep init --force`,
	RunE: initConfig,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "overwrite an existing document")
}

func initConfig(cmd *cobra.Command, args []string) error {
	if !initFlags.force {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		} else if !errors.Is(err, os.ErrNotExist) {
			return cli.NewCommandError("init", err)
		}
	}

	logger, err := newLogger("warn")
	if err != nil {
		return err
	}

	loader := manager.NewLoader(nil, logger.Slog())
	if err := loader.Save(config.Default(), cfgFile); err != nil {
		return cli.NewCommandError("init", err)
	}

	fmt.Printf("✓ Wrote %s (schema %s)\n", cfgFile, config.CurrentSchemaVersion)
	return nil
}
