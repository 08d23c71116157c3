package user

import (
	"context"
	"sync"
)

// MemoryRepository keeps records in a process-local map.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]Record
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]Record),
	}
}

// Get returns a copy of the stored record.
func (m *MemoryRepository) Get(ctx context.Context, username string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[username]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Contains reports whether a record exists for username.
func (m *MemoryRepository) Contains(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.users[username]
	return ok, nil
}

// Put inserts rec, failing with ErrExists if the username is taken.
func (m *MemoryRepository) Put(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[rec.Username]; ok {
		return ErrExists
	}
	m.users[rec.Username] = rec
	return nil
}

// Len returns the number of stored records.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
