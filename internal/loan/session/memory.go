// internal/loan/session/memory.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"lending-workers/internal/common/metrics"
	"lending-workers/internal/models"
)

// MemoryStore keeps sessions in process memory with an idle TTL. Suitable
// for a single instance; use the Redis backend when running more than one.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ChatSession
	ttl      time.Duration
	locks    *lockTable
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{
		sessions: make(map[string]*models.ChatSession),
		ttl:      ttl,
		locks:    newLockTable(),
	}
}

func (s *MemoryStore) Create(_ context.Context, loanType string) (*models.ChatSession, error) {
	now := time.Now().UTC()
	sess := &models.ChatSession{
		ID:           uuid.NewString(),
		LoanType:     loanType,
		Profile:      make(map[string]interface{}),
		CreatedAt:    now,
		LastActivity: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	metrics.ActiveSessions.Inc()
	return copySession(sess), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.ChatSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return copySession(sess), nil
}

func (s *MemoryStore) Save(_ context.Context, sess *models.ChatSession) error {
	s.mu.Lock()
	s.sessions[sess.ID] = copySession(sess)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		metrics.ActiveSessions.Dec()
	}
	s.locks.drop(id)
	return nil
}

func (s *MemoryStore) Lock(id string) func() {
	return s.locks.lock(id)
}

// Sweep evicts sessions idle past the TTL and returns how many went.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	var evicted int
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.ttl {
			delete(s.sessions, id)
			s.locks.drop(id)
			evicted++
		}
	}
	s.mu.Unlock()

	if evicted > 0 {
		metrics.ActiveSessions.Sub(float64(evicted))
	}
	return evicted
}

// StartJanitor sweeps periodically until the context is cancelled.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}

// copySession keeps callers from mutating shared state outside Save.
func copySession(in *models.ChatSession) *models.ChatSession {
	out := *in
	out.Conversation = append([]models.Message(nil), in.Conversation...)
	out.Profile = make(map[string]interface{}, len(in.Profile))
	for k, v := range in.Profile {
		out.Profile[k] = v
	}
	return &out
}
