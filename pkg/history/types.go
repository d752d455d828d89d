package history

import (
	"context"
	"time"
)

// Store defines the interface for reload history persistence.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append persists a reload record. A missing ID or timestamp is
	// filled in. Returns error on failure.
	Append(ctx context.Context, record *Record) error

	// List returns the most recent records, newest first.
	// A limit of zero or less returns all records.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Get retrieves a record by ID. Returns nil if no record exists.
	Get(ctx context.Context, id string) (*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// PruneBefore removes records with timestamps before the cutoff.
	// Returns the number of records deleted.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// PruneCount removes the oldest records until at most keep remain.
	// Returns the number of records deleted.
	PruneCount(ctx context.Context, keep int64) (int64, error)

	// Close releases any resources held by the store.
	// The store should not be used after calling Close.
	Close() error
}

// Record captures the outcome of one configuration load, reload, or
// migration attempt.
type Record struct {
	// ID uniquely identifies the record (UUID).
	ID string `json:"id"`

	// Timestamp is when the attempt finished.
	Timestamp time.Time `json:"timestamp"`

	// Trigger is what initiated the attempt ("watcher", "manual", "signal").
	Trigger string `json:"trigger"`

	// Outcome is "success", "rejected" (validation failed, previous
	// configuration kept), or "error".
	Outcome string `json:"outcome"`

	// FromVersion and ToVersion record the schema versions when a
	// migration ran as part of the attempt.
	FromVersion string `json:"fromVersion,omitempty"`
	ToVersion   string `json:"toVersion,omitempty"`

	// Severity is the highest change severity of the applied change set
	// ("low", "medium", "high", "critical"), empty when nothing changed.
	Severity string `json:"severity,omitempty"`

	// RequiresRestart reports whether the applied change set needs a
	// backend restart to take effect.
	RequiresRestart bool `json:"requiresRestart"`

	// Changes lists the changed properties. Sensitive values arrive
	// already masked.
	Changes []Change `json:"changes,omitempty"`

	// Error holds the failure detail for rejected and error outcomes.
	Error string `json:"error,omitempty"`
}

// Change is one changed property in an applied reload.
type Change struct {
	// Property is the dotted configuration path, e.g. "redis.port".
	Property string `json:"property"`

	// Previous and Current are display strings for the two values.
	Previous string `json:"previous"`
	Current  string `json:"current"`
}
