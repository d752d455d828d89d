package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"redkeep-hq/redkeep/pkg/cli"
	"redkeep-hq/redkeep/pkg/config/diff"
	"redkeep-hq/redkeep/pkg/config/manager"
	"redkeep-hq/redkeep/pkg/history"
	"redkeep-hq/redkeep/pkg/telemetry/metrics"
)

var watchFlags struct {
	system        bool
	debounce      time.Duration
	historyDB     string
	metricsListen string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a configuration document and hot-reload on change",
	Long: `Watch a configuration document and reload it on every change.

The watch command loads the document, then watches it for edits. Edits
settle for a debounce window before a reload runs, so editors that save
in bursts trigger one reload, not five. Each applied change set prints
as a report: the changed properties, the severity, and whether the data
store must restart for the change to take effect.

A reload that fails validation keeps the previous configuration and the
watch continues. Deleting or renaming the file is survived; the watch
resubscribes when the file reappears (the atomic save pattern of most
editors).

With --history, every reload outcome is journaled to a SQLite database
and pruned on the retention schedule. With --metrics-listen, Prometheus
metrics are served at /metrics on the given address.

Examples:
  # Watch the default config file
  redkeep watch

  # Journal reload outcomes
  redkeep watch --history redkeep-history.db

  # Expose Prometheus metrics
  redkeep watch --metrics-listen :9121

  # Slow down reloads for flaky network mounts
  redkeep watch --debounce 5s`,
	RunE: watchConfig,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchFlags.system, "system", false, "run host environment probes on every reload")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", time.Second, "quiet window before a change triggers a reload")
	watchCmd.Flags().StringVar(&watchFlags.historyDB, "history", "", "journal reload outcomes to this SQLite database")
	watchCmd.Flags().StringVar(&watchFlags.metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9121)")
}

func watchConfig(cmd *cobra.Command, args []string) error {
	logger, err := newLogger("info")
	if err != nil {
		return err
	}

	var store history.Store
	var scheduler *history.Scheduler
	if watchFlags.historyDB != "" {
		sqlStore, err := history.NewSQLiteStore(watchFlags.historyDB)
		if err != nil {
			return cli.NewCommandError("watch", fmt.Errorf("failed to open history journal: %w", err))
		}
		defer sqlStore.Close()
		store = sqlStore

		pruner := history.NewPruner(store, nil, logger.Slog())
		scheduler = history.NewScheduler(pruner)
	}

	collector := metrics.NewCollector(&metrics.Config{Enabled: true}, nil)

	mgr, err := manager.NewManager(&manager.ManagerConfig{
		Path:             cfgFile,
		DebounceInterval: watchFlags.debounce,
		SystemChecks:     watchFlags.system,
		History:          store,
		Metrics:          collector,
		OnChange:         printChangeReport,
	}, logger.Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer mgr.Close()

	cfg, err := mgr.Load(context.Background())
	if err != nil {
		return rejectionError("watch", err)
	}

	fmt.Printf("Redkeep %s\n", Version)
	fmt.Printf("✓ Configuration loaded: %s (schema %s)\n", cfgFile, cfg.Metadata.SchemaVersion)
	fmt.Printf("✓ Data store: %s backend, %s\n", cfg.BackendType, cfg.Redis.Address())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Start(ctx); err != nil {
			logger.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
		}
		fmt.Printf("✓ Journal: %s\n", watchFlags.historyDB)
	}

	if watchFlags.metricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		metricsSrv := &http.Server{Addr: watchFlags.metricsListen, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer metricsSrv.Close()
		fmt.Printf("✓ Metrics: http://%s/metrics\n", watchFlags.metricsListen)
	}

	fmt.Println()
	fmt.Println("Watching for changes. Press Ctrl+C to stop.")
	fmt.Println()

	errChan := make(chan error, 1)
	go func() {
		errChan <- mgr.Watch(ctx)
	}()

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		return nil
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down...\n", sig)
		cancel()
		<-errChan
		fmt.Println("✓ Watch stopped")
		return nil
	}
}

// printChangeReport renders one applied change set. Sensitive values
// arrive pre-masked in the report.
func printChangeReport(report *diff.ChangeReport) {
	fmt.Printf("%s configuration changed, severity %s\n",
		report.AnalyzedAt.Format("15:04:05"), report.Severity)

	for _, p := range report.ChangedProperties {
		marker := " "
		if p.RequiresRestart {
			marker = "*"
		}
		fmt.Printf("  %s %s: %s -> %s\n", marker, p.Path, displayValue(p.OldValue), displayValue(p.NewValue))
	}
	for _, warning := range report.Warnings {
		fmt.Printf("  ⚠  %s\n", warning)
	}
	if report.RequiresRestart {
		fmt.Printf("  * restart required to apply: %s\n", strings.Join(report.RestartProperties(), ", "))
	}
	fmt.Println()
}

func displayValue(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
