package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wattquest/wattquest-core/internal/infrastructure/database"
)

// DefaultSlot is the slot key used for the single-player session.
const DefaultSlot = "default"

// Store persists raw snapshot payloads keyed by slot.
//
// Implementations must treat payloads as opaque bytes; interpreting them
// is the Gateway's job.
type Store interface {
	// Put writes a payload to a slot, replacing any existing one.
	Put(ctx context.Context, slot string, payload []byte) error

	// Get reads a slot's payload. Returns ErrSlotEmpty when nothing has
	// been saved to the slot.
	Get(ctx context.Context, slot string) ([]byte, error)

	// Delete removes a slot. Deleting an empty slot is a no-op.
	Delete(ctx context.Context, slot string) error

	// Ping verifies the store is usable.
	Ping(ctx context.Context) error
}

// SQLiteStore is the durable tier, backed by the save_slots table.
type SQLiteStore struct {
	db *database.DB
}

// NewSQLiteStore creates a store over an open database handle.
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Put writes a payload to a slot, replacing any existing one.
func (s *SQLiteStore) Put(ctx context.Context, slot string, payload []byte) error {
	query := `
		INSERT INTO save_slots (slot_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slot_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, slot, payload, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("persistence: put slot %s: %w", slot, err)
	}
	return nil
}

// Get reads a slot's payload.
//
// Returns:
//   - []byte: The stored payload
//   - error: ErrSlotEmpty when the slot has never been written
func (s *SQLiteStore) Get(ctx context.Context, slot string) ([]byte, error) {
	var payload []byte
	query := `SELECT payload FROM save_slots WHERE slot_key = ?`
	err := s.db.QueryRowContext(ctx, query, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSlotEmpty, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: get slot %s: %w", slot, err)
	}
	return payload, nil
}

// Delete removes a slot.
func (s *SQLiteStore) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE slot_key = ?`, slot); err != nil {
		return fmt.Errorf("persistence: delete slot %s: %w", slot, err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// MemoryStore is the fallback tier. Contents live for the process
// lifetime only.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

// Put writes a payload to a slot.
func (s *MemoryStore) Put(_ context.Context, slot string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.slots[slot] = cp
	return nil
}

// Get reads a slot's payload.
func (s *MemoryStore) Get(_ context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.slots[slot]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlotEmpty, slot)
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp, nil
}

// Delete removes a slot.
func (s *MemoryStore) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, slot)
	return nil
}

// Ping always succeeds; memory is always available.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
