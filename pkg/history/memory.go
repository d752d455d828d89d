package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store using in-memory storage.
// All data is lost when the process exits. It is the default store and the
// one the examples and tests use.
//
// MemoryStore is thread-safe and supports concurrent access using sync.RWMutex.
type MemoryStore struct {
	// records holds records in append order, oldest first.
	records []*Record

	// mu protects access to records.
	mu sync.RWMutex
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append persists a reload record.
func (m *MemoryStore) Append(ctx context.Context, record *Record) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	stored := *record
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now()
	}
	stored.Changes = append([]Change(nil), record.Changes...)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, &stored)

	// Report the generated fields back to the caller
	record.ID = stored.ID
	record.Timestamp = stored.Timestamp
	return nil
}

// List returns the most recent records, newest first.
func (m *MemoryStore) List(ctx context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.records)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*Record, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

// Get retrieves a record by ID. Returns nil if no record exists.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}

// PruneBefore removes records with timestamps before the cutoff.
func (m *MemoryStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// PruneCount removes the oldest records until at most keep remain.
func (m *MemoryStore) PruneCount(ctx context.Context, keep int64) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.records))
	if n <= keep {
		return 0, nil
	}

	deleted := n - keep
	m.records = append([]*Record(nil), m.records[deleted:]...)
	return deleted, nil
}

// Close releases any resources held by the store.
func (m *MemoryStore) Close() error {
	return nil
}
