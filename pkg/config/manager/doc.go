// Package manager coordinates the configuration lifecycle for the
// supervisor: loading, validation, caching, hot-reload, change analysis,
// and journaling.
//
// The package ties the lower layers together into one pipeline. A load
// reads the source file, migrates outdated documents to the current
// schema, applies environment overrides, validates, verifies secret
// references, optionally probes the host environment, and installs the
// result as the active snapshot. A failed load at any stage leaves the
// previous snapshot untouched.
//
// # Core Components
//
// Manager is the orchestrator. It owns the load pipeline, the snapshot
// cache, and the file watch, and it reports every reload through
// metrics and the history journal.
//
// Loader runs the staged load pipeline and produces a LoadResult with
// the configuration, migration outcome, and validation report.
//
// Cache holds the active snapshot behind a single atomic reference, so
// readers never block and never observe a partially applied update.
//
// Watcher monitors the source file with fsnotify, coalescing raw
// filesystem events through a one second debounce window so an editor's
// write-rename-chmod burst produces one reload.
//
// # Basic Usage
//
// Loading and watching a configuration file:
//
//	mgr, err := manager.NewManager(&manager.ManagerConfig{
//	    Path: "/etc/redkeep/config.yaml",
//	    OnChange: func(report *diff.ChangeReport) {
//	        if report.RequiresRestart {
//	            fmt.Println("restart required:", report.RestartProperties())
//	        }
//	    },
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := mgr.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	go func() {
//	    if err := mgr.Watch(ctx); err != nil {
//	        log.Printf("watch error: %v", err)
//	    }
//	}()
//
//	// Readers take the current snapshot without locking.
//	cfg := mgr.Current()
//
//	// Graceful shutdown.
//	mgr.Close()
//
// # Error Handling
//
// Load failures carry a typed error naming the stage that rejected the
// document:
//
// MissingSourceError: the source file does not exist
//
// SyntaxError: unreadable or unparseable document content
//
// MigrationError: a schema upgrade step failed
//
// ValidationFailedError: blocking validation findings, with the report
//
// SystemCheckError: host environment probes rejected the configuration
//
// UnresolvedSecretError: a secret reference could not be resolved
//
// WatcherError: the file watch could not be established or recovered
//
// All of them implement the standard error interface and unwrap to
// their cause where one exists.
//
// # Thread Safety
//
// Current and Get are safe for concurrent use from any number of
// goroutines; snapshot reads are a single atomic pointer load. Load,
// Save, and the watcher-triggered reload serialize through the loader.
// Watch may run in one goroutine at a time.
//
// # Restart Semantics
//
// The manager never restarts the backend on its own authority. A
// restart-required change set is surfaced on the change report, counted
// in metrics, and handed to the configured RestartFunc only when the
// loaded configuration's performance.autoRestart toggle is enabled.
package manager
