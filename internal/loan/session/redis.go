// internal/loan/session/redis.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lending-workers/internal/models"
)

const redisKeyPrefix = "loan:session:"

// RedisStore persists sessions in Redis with the idle TTL enforced by key
// expiry. The per-session lock is process-local: turns for one session are
// expected to land on one instance (Zeebe job affinity), cross-instance
// locking is out of scope here.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *lockTable
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl, locks: newLockTable()}
}

func (s *RedisStore) Create(ctx context.Context, loanType string) (*models.ChatSession, error) {
	now := time.Now().UTC()
	sess := &models.ChatSession{
		ID:           uuid.NewString(),
		LoanType:     loanType,
		Profile:      make(map[string]interface{}),
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}

	var sess models.ChatSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	if sess.Profile == nil {
		sess.Profile = make(map[string]interface{})
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *models.ChatSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sess.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	s.locks.drop(id)
	return nil
}

func (s *RedisStore) Lock(id string) func() {
	return s.locks.lock(id)
}
