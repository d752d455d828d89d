package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"redkeep-hq/redkeep/pkg/config"
	"redkeep-hq/redkeep/pkg/config/migrate"
	"redkeep-hq/redkeep/pkg/secrets"
	"redkeep-hq/redkeep/pkg/telemetry/metrics"
	"redkeep-hq/redkeep/pkg/validation"
)

// DefaultMaxFileSize is the largest configuration document the loader
// will read. Configuration files are small; anything near this limit is
// almost certainly the wrong file.
const DefaultMaxFileSize = 1 << 20 // 1 MB

// LoaderConfig contains configuration for the loader.
type LoaderConfig struct {
	// Cache receives the snapshot after a successful load. A nil cache
	// is created internally.
	Cache *Cache

	// Resolver verifies secret references. Nil uses the default
	// resolver (environment variables and the credential fallback).
	Resolver *secrets.Resolver

	// SystemChecks enables host environment probes (port availability,
	// disk space, backend runtime presence) after syntactic validation.
	SystemChecks bool

	// SystemChecker performs the probes when SystemChecks is set.
	// Nil uses a checker with real probes.
	SystemChecker *config.SystemChecker

	// Metrics records validation and migration outcomes. Nil disables
	// recording.
	Metrics *metrics.Collector

	// MaxFileSize is the largest document to read (default: 1 MB).
	MaxFileSize int64
}

// LoadResult describes a successful load.
type LoadResult struct {
	// Config is the validated, immutable snapshot.
	Config *config.Config

	// Path and Format identify the source document.
	Path   string
	Format config.Format

	// Migration describes the version detection and any applied steps.
	Migration *migrate.Result

	// Report holds the validation findings. A successful load can still
	// carry Warning and Info findings worth surfacing.
	Report validation.Report

	// LoadedAt is when the pipeline completed.
	LoadedAt time.Time
}

// Loader runs the load pipeline: read, parse, migrate, decode, apply
// environment overrides, validate, verify secrets, and install the
// snapshot into the cache. Every stage failure is a typed error; the
// cache is only touched after the final gate passes, so a failed load
// leaves the previous snapshot in place.
type Loader struct {
	cache        *Cache
	resolver     *secrets.Resolver
	engine       *migrate.Engine
	checker      *config.SystemChecker
	systemChecks bool
	metrics      *metrics.Collector
	maxFileSize  int64
	logger       *slog.Logger
}

// NewLoader creates a loader. A nil config uses defaults; a nil logger
// uses slog.Default.
func NewLoader(cfg *LoaderConfig, logger *slog.Logger) *Loader {
	if cfg == nil {
		cfg = &LoaderConfig{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	cache := cfg.Cache
	if cache == nil {
		cache = NewCache()
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = secrets.NewResolver(logger)
	}
	collector := cfg.Metrics
	if collector == nil {
		collector = metrics.NewCollector(&metrics.Config{Enabled: false}, nil)
	}
	maxFileSize := cfg.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	return &Loader{
		cache:        cache,
		resolver:     resolver,
		engine:       migrate.NewEngine(logger),
		checker:      cfg.SystemChecker,
		systemChecks: cfg.SystemChecks,
		metrics:      collector,
		maxFileSize:  maxFileSize,
		logger:       logger.With("component", "config.loader"),
	}
}

// Cache returns the cache the loader installs snapshots into.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Load runs the full pipeline for the document at path. On success the
// snapshot is installed into the cache and returned; on any stage failure
// the cache is left untouched and a typed error identifies the stage.
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	// Stat before reading so the cached modification time is never newer
	// than the content that was actually read.
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingSourceError{Path: path}
		}
		return nil, fmt.Errorf("failed to access configuration %q: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("configuration %q is not a regular file", path)
	}
	if info.Size() > l.maxFileSize {
		return nil, fmt.Errorf("configuration %q is %d bytes, exceeding the %d byte limit",
			path, info.Size(), l.maxFileSize)
	}
	modTime := info.ModTime()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingSourceError{Path: path}
		}
		return nil, fmt.Errorf("failed to read configuration %q: %w", path, err)
	}

	format := config.DetectFormat(path)
	if !utf8.Valid(data) {
		return nil, &SyntaxError{
			Path:   path,
			Format: string(format),
			Cause:  errors.New("document is not valid UTF-8"),
		}
	}

	tree, err := config.ParseTree(data, format)
	if err != nil {
		return nil, &SyntaxError{Path: path, Format: string(format), Cause: err}
	}

	migration, err := l.engine.Run(tree)
	if err != nil {
		l.metrics.RecordMigration("error")
		return nil, &MigrationError{Path: path, Cause: err}
	}
	l.recordMigration(migration)
	for _, warning := range migration.Warnings {
		l.logger.Warn("migration warning", "path", path, "detail", warning)
	}

	cfg, err := config.FromTree(migration.Tree)
	if err != nil {
		return nil, &SyntaxError{Path: path, Format: string(format), Cause: err}
	}

	config.ApplyEnvOverrides(cfg)

	report := config.Validate(cfg, config.Options{})
	l.recordValidation(report)
	if !report.IsSuccess() {
		return nil, &ValidationFailedError{Path: path, Report: report}
	}

	if err := l.resolver.Verify(ctx, cfg); err != nil {
		return nil, &UnresolvedSecretError{Path: path, Cause: err}
	}

	if l.systemChecks {
		checker := l.checker
		if checker == nil {
			checker = config.NewSystemChecker(l.logger)
		}
		sysReport := checker.Check(cfg)
		l.recordValidation(sysReport)
		if !sysReport.IsSuccess() {
			return nil, &SystemCheckError{Path: path, Report: sysReport}
		}
		report.Merge(sysReport)
	}

	l.cache.install(cfg, path, modTime)

	result := &LoadResult{
		Config:    cfg,
		Path:      path,
		Format:    format,
		Migration: migration,
		Report:    report,
		LoadedAt:  time.Now(),
	}

	l.logger.Info("configuration loaded",
		"path", path,
		"format", string(format),
		"schema_version", cfg.Metadata.SchemaVersion,
		"migrated", migration.Migrated(),
		"warnings", len(report.BySeverity(validation.SeverityWarning)),
	)

	return result, nil
}

// LoadOrDefault behaves like Load, except a missing source file produces
// a default configuration instead of an error. The synthesized snapshot
// is installed into the cache but not written to disk; Save persists it
// when the caller wants the file to exist.
func (l *Loader) LoadOrDefault(ctx context.Context, path string) (*LoadResult, error) {
	result, err := l.Load(ctx, path)
	if err == nil {
		return result, nil
	}

	var missing *MissingSourceError
	if !errors.As(err, &missing) {
		return nil, err
	}

	cfg := config.Default()
	l.cache.install(cfg, path, time.Time{})

	l.logger.Info("configuration file missing, using defaults", "path", path)

	return &LoadResult{
		Config:   cfg,
		Path:     path,
		Format:   config.DetectFormat(path),
		LoadedAt: time.Now(),
	}, nil
}

// Save validates and persists a configuration snapshot. The caller's
// snapshot is not modified: provenance timestamps are stamped on a copy.
// Secret references round-trip as written; resolved values are never
// persisted. An invalid configuration is refused with the same gate a
// load applies, so a saved file always loads back cleanly.
func (l *Loader) Save(cfg *config.Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	stamped := cfg.Clone()
	now := time.Now().UTC().Format(time.RFC3339)
	if stamped.Metadata.SchemaVersion == "" {
		stamped.Metadata.SchemaVersion = config.CurrentSchemaVersion
	}
	if stamped.Metadata.CreatedAt == "" {
		stamped.Metadata.CreatedAt = now
	}
	stamped.Metadata.ModifiedAt = now

	report := config.Validate(stamped, config.Options{})
	if !report.IsSuccess() {
		return &ValidationFailedError{Path: path, Report: report}
	}

	format := config.DetectFormat(path)
	data, err := config.Encode(stamped, format)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create configuration directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration %q: %w", path, err)
	}

	var modTime time.Time
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	}
	l.cache.install(stamped, path, modTime)

	l.logger.Info("configuration saved", "path", path, "format", string(format))
	return nil
}

func (l *Loader) recordValidation(report validation.Report) {
	outcome := "success"
	if !report.IsSuccess() {
		outcome = "failure"
	}
	errCount := len(report.BySeverity(validation.SeverityError)) +
		len(report.BySeverity(validation.SeverityCritical))
	l.metrics.RecordValidation(outcome,
		errCount,
		len(report.BySeverity(validation.SeverityWarning)),
		len(report.BySeverity(validation.SeverityInfo)),
	)
}

func (l *Loader) recordMigration(result *migrate.Result) {
	if result.Migrated() {
		l.metrics.RecordMigration("applied")
		for _, step := range result.Steps {
			l.metrics.RecordMigrationStep(step.From, step.To)
		}
		return
	}
	l.metrics.RecordMigration("noop")
}
