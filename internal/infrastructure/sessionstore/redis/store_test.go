package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplug/copilot-service/internal/domain/models"
	redisstore "github.com/dataplug/copilot-service/internal/infrastructure/sessionstore/redis"
)

func setupMiniredis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *redisstore.Store) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	store, err := redisstore.NewStore(redisstore.Config{
		Host: mr.Host(),
		Port: mr.Port(),
		TTL:  ttl,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
		mr.Close()
	})

	return mr, store
}

func TestStore_SetAndGet(t *testing.T) {
	_, store := setupMiniredis(t, time.Minute)
	ctx := context.Background()

	conv := models.NewConversationContext("s1")
	conv.Destination = "横浜"
	require.NoError(t, store.Set(ctx, "s1", conv))

	got, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "横浜", got.Destination)
	assert.Equal(t, models.PhaseWaitingLocation, got.Phase)
}

func TestStore_GetNotFound(t *testing.T) {
	_, store := setupMiniredis(t, time.Minute)
	ctx := context.Background()

	got, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestStore_GetCorruptedEntry(t *testing.T) {
	mr, store := setupMiniredis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set("session:bad", "{not json"))

	got, ok, err := store.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	// The corrupted entry was dropped.
	assert.False(t, mr.Exists("session:bad"))
}

func TestStore_Expiry(t *testing.T) {
	mr, store := setupMiniredis(t, time.Second)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s1", models.NewConversationContext("s1")))

	mr.FastForward(2 * time.Second)

	_, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_GetRefreshesTTL(t *testing.T) {
	mr, store := setupMiniredis(t, 10*time.Second)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s1", models.NewConversationContext("s1")))

	mr.FastForward(8 * time.Second)
	_, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)

	// Without the sliding refresh the session would be gone by now.
	mr.FastForward(8 * time.Second)
	_, ok, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_DeleteIdempotent(t *testing.T) {
	_, store := setupMiniredis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s1", models.NewConversationContext("s1")))

	deleted, err := store.Delete(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_TTLAndExtend(t *testing.T) {
	mr, store := setupMiniredis(t, 60*time.Second)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s1", models.NewConversationContext("s1")))

	remaining, ok, err := store.TTL(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 60*time.Second, remaining)

	mr.FastForward(30 * time.Second)

	extended, err := store.ExtendTTL(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, extended)

	remaining, ok, err = store.TTL(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 60*time.Second, remaining)

	extended, err = store.ExtendTTL(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, extended)
}

func TestStore_Exists(t *testing.T) {
	_, store := setupMiniredis(t, time.Minute)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "s1", models.NewConversationContext("s1")))

	ok, err = store.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_Stats(t *testing.T) {
	_, store := setupMiniredis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s1", models.NewConversationContext("s1")))
	require.NoError(t, store.Set(ctx, "s2", models.NewConversationContext("s2")))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 2, stats.ActiveSessions)
	assert.Equal(t, 0, stats.ExpiredSessions)
	assert.Equal(t, 60, stats.TTLSeconds)
}
