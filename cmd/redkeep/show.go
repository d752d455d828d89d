package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"redkeep-hq/redkeep/pkg/cli"
	"redkeep-hq/redkeep/pkg/config"
	"redkeep-hq/redkeep/pkg/config/manager"
	"redkeep-hq/redkeep/pkg/secrets"
)

var showFlags struct {
	format string
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after migration, defaults, and
environment overrides.

The document is loaded through the full pipeline, so what is printed is
exactly what the engine would run with. Sensitive values are always
masked; there is no flag to reveal them.

Examples:
  # Show as YAML
  redkeep show

  # Show as JSON
  redkeep show --format json

  # Show with an environment override applied
  REDKEEP_REDIS_PORT=6380 redkeep show`,
	RunE: showConfig,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showFlags.format, "format", "yaml", "output format: yaml, json, toml")
}

func showConfig(cmd *cobra.Command, args []string) error {
	var format config.Format
	switch showFlags.format {
	case "yaml":
		format = config.FormatYAML
	case "json":
		format = config.FormatJSON
	case "toml":
		format = config.FormatTOML
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json, toml)", showFlags.format)
	}

	logger, err := newLogger("warn")
	if err != nil {
		return err
	}

	loader := manager.NewLoader(nil, logger.Slog())
	result, err := loader.Load(context.Background(), cfgFile)
	if err != nil {
		return rejectionError("show", err)
	}

	masked := secrets.SanitizeForLogging(result.Config)
	data, err := config.Encode(masked, format)
	if err != nil {
		return cli.NewCommandError("show", err)
	}

	fmt.Print(string(data))
	return nil
}
