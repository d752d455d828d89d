// Package history records the outcome of every configuration reload attempt.
//
// Each attempt, whether it was applied, rejected by validation, or failed
// outright, produces a Record describing what triggered it, which properties
// changed, the highest change severity, and whether the change set requires
// a backend restart. Sensitive values are masked before records reach the
// store, so history output is always safe to log and display.
//
// # Stores
//
// Two Store implementations are provided:
//
//   - MemoryStore: in-memory, lost on process exit. The default.
//   - SQLiteStore: durable history that survives supervisor restarts,
//     backed by a single SQLite file in WAL mode.
//
// # Basic Usage
//
//	store, err := history.NewSQLiteStore("data/history.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.Append(ctx, &history.Record{
//	    Trigger: "watcher",
//	    Outcome: "success",
//	    Changes: []history.Change{
//	        {Property: "redis.port", Previous: "6380", Current: "6381"},
//	    },
//	})
//
//	// Most recent attempts, newest first
//	records, err := store.List(ctx, 20)
//
// # Retention
//
// The Pruner enforces retention policy in two phases: age-based pruning
// removes records older than RetentionDays, then count-based pruning trims
// the store down to MaxRecords. Either phase can be disabled by setting its
// limit to zero.
//
//	pruner := history.NewPruner(store, &history.RetentionConfig{
//	    RetentionDays: 90,
//	    MaxRecords:    1000,
//	    PruneSchedule: "0 3 * * *", // Daily at 3 AM
//	}, logger)
//
//	deleted, err := pruner.Prune(ctx)
//
// # Scheduling
//
// The Scheduler runs the pruner on a cron schedule:
//
//	scheduler := history.NewScheduler(pruner)
//	if err := scheduler.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer scheduler.Stop()
//
// Stop waits for a running pruning job to complete. If no schedule is
// configured (empty PruneSchedule), Start returns immediately without error.
package history
