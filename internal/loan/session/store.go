// Package session stores conversation state. Turns on one session must be
// serialized: Lock returns a per-session unlock so a turn holds exclusive
// access from read to write-back while other sessions proceed in parallel.
package session

import (
	"context"
	"errors"
	"sync"

	"lending-workers/internal/models"
)

var ErrNotFound = errors.New("SESSION_NOT_FOUND")

type Store interface {
	Create(ctx context.Context, loanType string) (*models.ChatSession, error)
	Get(ctx context.Context, id string) (*models.ChatSession, error)
	Save(ctx context.Context, s *models.ChatSession) error
	Delete(ctx context.Context, id string) error

	// Lock serializes turns on one session and returns the unlock.
	Lock(id string) func()
}

// lockTable hands out one mutex per session id. Entries are never evicted;
// a mutex is tiny and session ids churn slowly next to turn volume.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *lockTable) lock(id string) func() {
	t.mu.Lock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (t *lockTable) drop(id string) {
	t.mu.Lock()
	delete(t.locks, id)
	t.mu.Unlock()
}
