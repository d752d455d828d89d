package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"redkeep-hq/redkeep/pkg/cli"
	"redkeep-hq/redkeep/pkg/history"
)

var historyFlags struct {
	db     string
	limit  int
	format string
	days   int
	keep   int64
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the reload journal",
	Long: `Inspect the reload journal written by "redkeep watch --history".

The journal records every reload outcome: what triggered it, whether it
was applied or rejected, which properties changed, and whether a
restart was required.

Subcommands:
  list  - Show recent reload records
  prune - Delete old records per retention policy

Examples:
  # Show the last 20 reloads
  redkeep history list --db redkeep-history.db

  # Machine-readable output
  redkeep history list --db redkeep-history.db --format json

  # Drop records older than 30 days, keep at most 500
  redkeep history prune --db redkeep-history.db --days 30 --keep 500`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent reload records",
	Long: `Show reload records from the journal, newest first.

Each record carries the trigger (manual or watcher), the outcome
(success, rejected, or error), the changed properties with their old
and new values, and the migration applied, if any. Sensitive values
are stored masked, so nothing here can leak a secret.`,
	RunE: listHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old reload records",
	Long: `Delete reload records that fall outside the retention policy.

Pruning runs in two phases: records older than --days are deleted
first, then the oldest records beyond --keep. Either limit can be
disabled with 0.`,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyPruneCmd)

	historyCmd.PersistentFlags().StringVar(&historyFlags.db, "db", "redkeep-history.db", "journal database path")

	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "max records to show (0 = all)")
	historyListCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")

	historyPruneCmd.Flags().IntVar(&historyFlags.days, "days", 90, "delete records older than this many days (0 = no age pruning)")
	historyPruneCmd.Flags().Int64Var(&historyFlags.keep, "keep", 1000, "keep at most this many records (0 = unlimited)")
}

func openJournal() (*history.SQLiteStore, error) {
	store, err := history.NewSQLiteStore(historyFlags.db)
	if err != nil {
		return nil, cli.NewCommandError("history", fmt.Errorf("failed to open journal: %w", err))
	}
	return store, nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	store, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	records, err := store.List(ctx, historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	total, err := store.Count(ctx)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if historyFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, map[string]any{
			"total":   total,
			"records": records,
		})
	}

	if len(records) == 0 {
		fmt.Println("No reload records found.")
		return nil
	}

	fmt.Printf("Showing %d of %d reload record(s), newest first:\n", len(records), total)
	fmt.Println()
	for i, record := range records {
		if i > 0 {
			fmt.Println()
		}
		printHistoryRecord(record)
	}
	return nil
}

func printHistoryRecord(record *history.Record) {
	fmt.Printf("%s  %s  %s", record.Timestamp.Format(time.RFC3339), record.Trigger, record.Outcome)
	if record.RequiresRestart {
		fmt.Print("  (restart required)")
	}
	fmt.Println()
	fmt.Printf("  ID: %s\n", record.ID)
	if record.FromVersion != "" && record.ToVersion != "" {
		fmt.Printf("  Migrated: %s -> %s\n", record.FromVersion, record.ToVersion)
	}
	if record.Severity != "" {
		fmt.Printf("  Severity: %s\n", record.Severity)
	}
	for _, change := range record.Changes {
		fmt.Printf("  %s: %s -> %s\n", change.Property, displayValue(change.Previous), displayValue(change.Current))
	}
	if record.Error != "" {
		fmt.Printf("  Error: %s\n", record.Error)
	}
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	logger, err := newLogger("warn")
	if err != nil {
		return err
	}

	store, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	pruner := history.NewPruner(store, &history.RetentionConfig{
		RetentionDays: historyFlags.days,
		MaxRecords:    historyFlags.keep,
	}, logger.Slog())

	ctx := cli.SetupSignalHandler()
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	remaining, err := store.Count(ctx)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	fmt.Printf("✓ Deleted %d record(s), %d remaining\n", deleted, remaining)
	return nil
}
