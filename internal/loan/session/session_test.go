package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending-workers/internal/models"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, "personal")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "personal", sess.LoanType)
	assert.Empty(t, sess.Profile)

	sess.Profile["Age"] = 30.0
	sess.Append(models.RoleUser, "I am 30")
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, loaded.Profile["Age"])
	require.Len(t, loaded.Conversation, 1)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, "gold")
	require.NoError(t, err)

	first, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	first.Profile["Gold_Value"] = 600000.0

	second, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotContains(t, second.Profile, "Gold_Value")
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	stale, err := store.Create(ctx, "car")
	require.NoError(t, err)
	fresh, err := store.Create(ctx, "car")
	require.NoError(t, err)

	// Age the first session past the TTL.
	aged, err := store.Get(ctx, stale.ID)
	require.NoError(t, err)
	aged.LastActivity = time.Now().UTC().Add(-2 * time.Minute)
	require.NoError(t, store.Save(ctx, aged))

	evicted := store.Sweep(time.Now().UTC())
	assert.Equal(t, 1, evicted)

	_, err = store.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreLockSerializesTurns(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	unlock := store.Lock("s1")
	acquired := make(chan struct{})
	go func() {
		u := store.Lock("s1")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, "business")
	require.NoError(t, err)

	sess.Profile["Annual_Revenue"] = 5000000.0
	sess.Append(models.RoleAssistant, "What is your business's annual revenue?")
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "business", loaded.LoanType)
	assert.Equal(t, 5000000.0, loaded.Profile["Annual_Revenue"])
	require.Len(t, loaded.Conversation, 1)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	sess, err := store.Create(ctx, "home")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
