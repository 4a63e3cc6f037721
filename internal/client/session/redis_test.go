package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, ""), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	require.NoError(t, s.SetCurrentUser(ctx, testUser()))
	require.NoError(t, s.SaveSessionToken(ctx, "st-1"))

	u, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, testUser(), u)

	tok, err := s.SessionToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "st-1", tok)

	got, err := mr.Get(defaultRedisPrefix + keySessionToken)
	require.NoError(t, err)
	assert.Equal(t, "st-1", got)
}

func TestRedisStore_EmptyAndClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t)

	_, err := s.SessionToken(ctx)
	require.ErrorIs(t, err, ErrNoSession)
	_, err = s.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.SetCurrentUser(ctx, testUser()))
	require.NoError(t, s.SaveSessionToken(ctx, "st-1"))
	require.NoError(t, s.Clear(ctx))

	_, err = s.SessionToken(ctx)
	require.ErrorIs(t, err, ErrNoSession)
	_, err = s.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_CorruptUser(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set(defaultRedisPrefix+keyCurrentUser, "[]x"))

	_, err := s.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrCorruptValue)
}

func TestRedisStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)
	mr.Close()

	err := s.SaveSessionToken(ctx, "st-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set token")
}

func TestOpenRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	s, err := OpenRedisStore(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SaveSessionToken(ctx, "st-2"))

	_, err = OpenRedisStore(ctx, "not a url")
	require.Error(t, err)
}
