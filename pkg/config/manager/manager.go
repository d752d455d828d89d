package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"redkeep-hq/redkeep/pkg/config"
	"redkeep-hq/redkeep/pkg/config/diff"
	"redkeep-hq/redkeep/pkg/history"
	"redkeep-hq/redkeep/pkg/secrets"
	"redkeep-hq/redkeep/pkg/telemetry/metrics"
)

// Reload trigger names recorded in metrics and the history journal.
const (
	TriggerManual  = "manual"
	TriggerWatcher = "watcher"
)

// RestartFunc restarts the supervised backend process so a
// restart-required change set can take effect. The configuration passed
// in is the newly applied snapshot.
type RestartFunc func(ctx context.Context, cfg *config.Config) error

// ManagerConfig contains configuration for the manager.
type ManagerConfig struct {
	// Path is the configuration source file.
	Path string

	// DebounceInterval is the watcher quiet window (default: 1s).
	DebounceInterval time.Duration

	// SystemChecks enables host environment probes during loads.
	SystemChecks bool

	// SystemChecker performs the probes when SystemChecks is set.
	// Nil uses a checker with real probes.
	SystemChecker *config.SystemChecker

	// Resolver verifies secret references. Nil uses the default
	// resolver (environment variables and the credential fallback).
	Resolver *secrets.Resolver

	// History receives a journal record for every failed reload and
	// every applied change set. Nil disables journaling. The store's
	// lifecycle belongs to the caller.
	History history.Store

	// Metrics records reload, validation, watcher, and migration
	// counters. Nil disables recording.
	Metrics *metrics.Collector

	// OnChange is invoked with the change report after a reload that
	// changed the configuration. The supervisor uses
	// ChangeReport.RequiresRestart to decide live-apply versus restart.
	OnChange func(*diff.ChangeReport)

	// Restart, when set together with performance.autoRestart in the
	// loaded configuration, is invoked once after a restart-required
	// change set is applied. Nil leaves the restart decision entirely
	// to the OnChange consumer.
	Restart RestartFunc

	// MaxFileSize is the largest document to read (default: 1 MB).
	MaxFileSize int64
}

// Manager coordinates the configuration lifecycle: loading, caching,
// watching, change analysis, and journaling. It holds no global state;
// construct one and inject it wherever configuration access is needed.
//
// A failed reload never disturbs the running state: the previous
// snapshot stays cached and Current keeps returning it.
type Manager struct {
	path             string
	loader           *Loader
	cache            *Cache
	store            history.Store
	metrics          *metrics.Collector
	logger           *slog.Logger
	onChange         func(*diff.ChangeReport)
	restart          RestartFunc
	debounceInterval time.Duration

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
}

// NewManager creates a manager for the configuration file in cfg.Path.
// A nil logger uses slog.Default.
func NewManager(cfg *ManagerConfig, logger *slog.Logger) (*Manager, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("configuration path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	collector := cfg.Metrics
	if collector == nil {
		collector = metrics.NewCollector(&metrics.Config{Enabled: false}, nil)
	}

	cache := NewCache()
	loader := NewLoader(&LoaderConfig{
		Cache:         cache,
		Resolver:      cfg.Resolver,
		SystemChecks:  cfg.SystemChecks,
		SystemChecker: cfg.SystemChecker,
		Metrics:       collector,
		MaxFileSize:   cfg.MaxFileSize,
	}, logger)

	return &Manager{
		path:             cfg.Path,
		loader:           loader,
		cache:            cache,
		store:            cfg.History,
		metrics:          collector,
		logger:           logger.With("component", "config.manager"),
		onChange:         cfg.OnChange,
		restart:          cfg.Restart,
		debounceInterval: cfg.DebounceInterval,
	}, nil
}

// Path returns the configuration source file path.
func (m *Manager) Path() string {
	return m.path
}

// Current returns the active configuration snapshot. It is lock-free and
// never blocks; the return is nil before the first successful load.
func (m *Manager) Current() *config.Config {
	cfg, _ := m.cache.Get()
	return cfg
}

// Get returns the cached snapshot when the source file is unchanged,
// running a full load otherwise.
func (m *Manager) Get(ctx context.Context) (*config.Config, error) {
	return m.cache.GetOrLoad(m.path, func() (*config.Config, error) {
		result, err := m.loader.Load(ctx, m.path)
		if err != nil {
			return nil, err
		}
		return result.Config, nil
	})
}

// Load runs the full load pipeline and makes the result the active
// snapshot. When a previous snapshot exists the difference is analyzed
// and reported exactly like a watcher-triggered reload.
func (m *Manager) Load(ctx context.Context) (*config.Config, error) {
	return m.reload(ctx, TriggerManual)
}

// LoadOrDefault behaves like Load, except a missing source file yields
// the default configuration instead of an error.
func (m *Manager) LoadOrDefault(ctx context.Context) (*config.Config, error) {
	result, err := m.loader.LoadOrDefault(ctx, m.path)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// Save validates and persists cfg to the manager's path and makes it the
// active snapshot. Secret references are persisted as written.
func (m *Manager) Save(cfg *config.Config) error {
	return m.loader.Save(cfg, m.path)
}

// Watch blocks, reloading the configuration on every debounced change to
// the source file until the context is cancelled, Close is called, or
// the watch subscription fails beyond recovery. Reload failures do not
// stop watching; the previous snapshot stays active.
func (m *Manager) Watch(ctx context.Context) error {
	m.watchMu.Lock()
	if m.watchCancel != nil {
		m.watchMu.Unlock()
		return fmt.Errorf("watch already started")
	}
	watchCtx, cancel := context.WithCancel(ctx)
	m.watchCancel = cancel
	m.watchMu.Unlock()

	defer func() {
		m.watchMu.Lock()
		if m.watchCancel != nil {
			m.watchCancel()
			m.watchCancel = nil
		}
		m.watchMu.Unlock()
	}()

	watcher, err := NewWatcher(&WatcherConfig{
		Path:             m.path,
		DebounceInterval: m.debounceInterval,
		Metrics:          m.metrics,
	}, m.logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(watchCtx); err != nil {
		watcher.Close()
		return err
	}
	defer watcher.Close()

	for {
		select {
		case <-watchCtx.Done():
			m.logger.Info("configuration watch stopped")
			return nil

		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			m.logger.Info("configuration change detected",
				"type", string(event.Type),
				"reason", event.Reason,
			)
			// A failed reload keeps the previous snapshot; watching
			// continues so a corrected file applies on the next save.
			_, _ = m.reload(watchCtx, TriggerWatcher)

		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			return err
		}
	}
}

// Close stops a running Watch. The cached snapshot stays available.
func (m *Manager) Close() error {
	m.watchMu.Lock()
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchMu.Unlock()

	m.logger.Info("configuration manager closed")
	return nil
}

// reload runs one load attempt and the follow-through: metrics, change
// analysis, callbacks, restart handling, and the journal record.
func (m *Manager) reload(ctx context.Context, trigger string) (*config.Config, error) {
	start := time.Now()
	old := m.Current()

	result, err := m.loader.Load(ctx, m.path)
	if err != nil {
		outcome := classifyOutcome(err)
		m.metrics.RecordReload(trigger, outcome, time.Since(start))
		m.logger.Error("configuration reload failed, keeping previous snapshot",
			"trigger", trigger,
			"outcome", outcome,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		m.record(ctx, trigger, outcome, nil, nil, err)
		return nil, err
	}

	var report *diff.ChangeReport
	if old != nil {
		report = diff.Analyze(old, result.Config, time.Now())
	}

	m.metrics.RecordReload(trigger, "success", time.Since(start))

	if report != nil && report.HasChanges() {
		m.logger.Info("configuration changed",
			"trigger", trigger,
			"changes", len(report.ChangedProperties),
			"severity", report.Severity.String(),
			"requires_restart", report.RequiresRestart,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		for _, warning := range report.Warnings {
			m.logger.Warn(warning)
		}

		if m.onChange != nil {
			m.onChange(report)
		}
		if report.RequiresRestart {
			m.handleRestart(ctx, result.Config, report)
		}
	}

	m.record(ctx, trigger, "success", result, report, nil)
	return result.Config, nil
}

// handleRestart deals with a restart-required change set: the restart
// hook runs once when both it and the configuration's auto-restart
// toggle are present, otherwise the requirement is only reported.
func (m *Manager) handleRestart(ctx context.Context, cfg *config.Config, report *diff.ChangeReport) {
	m.metrics.RecordRestartRequired()

	if m.restart == nil || !cfg.Performance.AutoRestart {
		m.metrics.RecordAutoRestart("skipped")
		m.logger.Info("restart required to apply changes",
			"properties", report.RestartProperties(),
		)
		return
	}

	m.logger.Info("restarting backend to apply changes",
		"properties", report.RestartProperties(),
	)
	if err := m.restart(ctx, cfg); err != nil {
		m.metrics.RecordAutoRestart("error")
		m.logger.Error("automatic restart failed", "error", err)
		return
	}
	m.metrics.RecordAutoRestart("success")
	m.logger.Info("backend restarted")
}

// record appends a journal entry. Only failures and applied change sets
// are recorded; a reload that found nothing changed is not an audit
// event.
func (m *Manager) record(ctx context.Context, trigger, outcome string, result *LoadResult, report *diff.ChangeReport, cause error) {
	if m.store == nil {
		return
	}
	if cause == nil && (report == nil || !report.HasChanges()) {
		return
	}

	rec := &history.Record{
		Trigger: trigger,
		Outcome: outcome,
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	if result != nil && result.Migration != nil && result.Migration.Migrated() {
		rec.FromVersion = result.Migration.FromVersion
		rec.ToVersion = result.Migration.ToVersion
	}
	if report != nil && report.HasChanges() {
		rec.Severity = report.Severity.String()
		rec.RequiresRestart = report.RequiresRestart
		rec.Changes = make([]history.Change, 0, len(report.ChangedProperties))
		for _, p := range report.ChangedProperties {
			rec.Changes = append(rec.Changes, history.Change{
				Property: p.Path,
				Previous: p.OldValue,
				Current:  p.NewValue,
			})
		}
	}

	if err := m.store.Append(ctx, rec); err != nil {
		m.logger.Warn("failed to record reload history", "error", err)
	}
}

// classifyOutcome maps a load failure to a journal outcome: validation
// and system check failures are rejections of a readable document,
// everything else is an error.
func classifyOutcome(err error) string {
	var validationErr *ValidationFailedError
	var systemErr *SystemCheckError
	if errors.As(err, &validationErr) || errors.As(err, &systemErr) {
		return "rejected"
	}
	return "error"
}
