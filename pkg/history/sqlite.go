package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite for persistence.
// This store provides durable reload history across supervisor restarts and
// is suitable for single-instance deployments.
//
// SQLiteStore uses a write-ahead log (WAL) for better concurrent performance.
type SQLiteStore struct {
	db        *sql.DB
	dbPath    string
	mu        sync.RWMutex
	closeOnce sync.Once

	// preparedStatements contains pre-compiled SQL statements for reuse
	appendStmt     *sql.Stmt
	getStmt        *sql.Stmt
	countStmt      *sql.Stmt
	pruneAgeStmt   *sql.Stmt
	pruneCountStmt *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a new SQLite history store with default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{
		DBPath:      dbPath,
		BusyTimeout: 5 * time.Second,
	})
}

// NewSQLiteStoreWithConfig creates a new SQLite store with custom configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	// Open database with WAL mode and busy timeout
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{
		db:     db,
		dbPath: cfg.DBPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return store, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reload_history (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		initiated_by TEXT NOT NULL,
		outcome TEXT NOT NULL,
		from_version TEXT NOT NULL DEFAULT '',
		to_version TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL DEFAULT '',
		requires_restart INTEGER NOT NULL DEFAULT 0,
		changes TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_reload_history_timestamp ON reload_history(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.appendStmt, err = s.db.Prepare(`
		INSERT INTO reload_history
			(id, timestamp, initiated_by, outcome, from_version, to_version, severity, requires_restart, changes, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare append statement: %w", err)
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, timestamp, initiated_by, outcome, from_version, to_version, severity, requires_restart, changes, error
		FROM reload_history
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM reload_history`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	s.pruneAgeStmt, err = s.db.Prepare(`
		DELETE FROM reload_history
		WHERE timestamp < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune-age statement: %w", err)
	}

	s.pruneCountStmt, err = s.db.Prepare(`
		DELETE FROM reload_history
		WHERE id NOT IN (
			SELECT id FROM reload_history
			ORDER BY timestamp DESC, rowid DESC
			LIMIT ?
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune-count statement: %w", err)
	}

	return nil
}

// Append persists a reload record.
func (s *SQLiteStore) Append(ctx context.Context, record *Record) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	var changesJSON []byte
	if len(record.Changes) > 0 {
		var err error
		changesJSON, err = json.Marshal(record.Changes)
		if err != nil {
			return fmt.Errorf("failed to marshal changes: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.appendStmt.ExecContext(ctx,
		record.ID,
		record.Timestamp.UnixNano(),
		record.Trigger,
		record.Outcome,
		record.FromVersion,
		record.ToVersion,
		record.Severity,
		boolToInt(record.RequiresRestart),
		string(changesJSON),
		record.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}

	return nil
}

// List returns the most recent records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Record, error) {
	// LIMIT -1 means no limit in SQLite
	if limit <= 0 {
		limit = -1
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, initiated_by, outcome, from_version, to_version, severity, requires_restart, changes, error
		FROM reload_history
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// Get retrieves a record by ID. Returns nil if no record exists.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, fmt.Errorf("id cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := scanRecord(s.getStmt.QueryRowContext(ctx, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	if err := s.countStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// PruneBefore removes records with timestamps before the cutoff.
func (s *SQLiteStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pruneAgeStmt.ExecContext(ctx, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune by age: %w", err)
	}
	return result.RowsAffected()
}

// PruneCount removes the oldest records until at most keep remain.
func (s *SQLiteStore) PruneCount(ctx context.Context, keep int64) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pruneCountStmt.ExecContext(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune by count: %w", err)
	}
	return result.RowsAffected()
}

// Close releases any resources held by the store.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.appendStmt, s.getStmt, s.countStmt, s.pruneAgeStmt, s.pruneCountStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}

		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// scanRecord builds a Record from a row scan function.
func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var (
		record          Record
		timestampNanos  int64
		requiresRestart int
		changesJSON     string
	)

	err := scan(
		&record.ID,
		&timestampNanos,
		&record.Trigger,
		&record.Outcome,
		&record.FromVersion,
		&record.ToVersion,
		&record.Severity,
		&requiresRestart,
		&changesJSON,
		&record.Error,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	record.Timestamp = time.Unix(0, timestampNanos).UTC()
	record.RequiresRestart = requiresRestart != 0

	if changesJSON != "" {
		if err := json.Unmarshal([]byte(changesJSON), &record.Changes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal changes: %w", err)
		}
	}

	return &record, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
