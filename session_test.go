package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennychae/vertex-ai-search-agent/config"
)

func memStore(t *testing.T) *MemSessionStore {
	t.Helper()
	return NewMemSessionStore(&config.SessionConfig{TTLSeconds: 3600, MaxRounds: 3})
}

func TestMemSessionStore_CreateGet(t *testing.T) {
	ctx := context.Background()
	store := memStore(t)

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Empty(t, got.Rounds)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemSessionStore_AppendRoundTrimsToMaxRounds(t *testing.T) {
	ctx := context.Background()
	store := memStore(t)
	sess, err := store.Create(ctx)
	require.NoError(t, err)

	for i, q := range []string{"첫 질문", "둘째 질문", "셋째 질문", "넷째 질문"} {
		err := store.AppendRound(ctx, sess.ID, Round{Query: q, EngineKey: "work-history"})
		require.NoError(t, err, "round %d", i)
	}

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Rounds, 3)
	assert.Equal(t, "둘째 질문", got.Rounds[0].Query)
	assert.Equal(t, "넷째 질문", got.Rounds[2].Query)
	assert.False(t, got.Rounds[2].Timestamp.IsZero())
}

func TestMemSessionStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := memStore(t)
	sess, _ := store.Create(ctx)
	require.NoError(t, store.AppendRound(ctx, sess.ID, Round{Query: "원본"}))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	got.Rounds[0].Query = "변조"

	again, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "원본", again.Rounds[0].Query)
}

func TestMemSessionStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemSessionStore(&config.SessionConfig{TTLSeconds: 1})
	store.ttl = 10 * time.Millisecond

	sess, _ := store.Create(ctx)
	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.AppendRound(ctx, sess.ID, Round{Query: "q"}), ErrSessionNotFound)
}

func TestMemSessionStore_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	store := memStore(t)

	first, _ := store.Create(ctx)
	second, _ := store.Create(ctx)
	require.NoError(t, store.AppendRound(ctx, second.ID, Round{Query: "q"}))

	sessions, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// Most recently updated first.
	assert.Equal(t, second.ID, sessions[0].ID)

	require.NoError(t, store.Delete(ctx, first.ID))
	assert.ErrorIs(t, store.Delete(ctx, first.ID), ErrSessionNotFound)

	sessions, err = store.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestNewSessionStore(t *testing.T) {
	store, err := NewSessionStore(&config.SessionConfig{Store: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemSessionStore{}, store)

	_, err = NewSessionStore(&config.SessionConfig{Store: "cassandra"})
	assert.ErrorContains(t, err, "unknown session store")

	_, err = NewSessionStore(&config.SessionConfig{Store: "redis"})
	assert.ErrorContains(t, err, "requires an address")
}
