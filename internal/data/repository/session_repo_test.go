package repository

import (
	"context"
	"testing"

	"venue-bot/internal/conversation"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisSessions(t *testing.T) (*miniredis.Miniredis, SessionRepository) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, NewRedisSessionRepository(client, zap.NewNop())
}

func sessionStores(t *testing.T) map[string]SessionRepository {
	_, redisRepo := newRedisSessions(t)
	return map[string]SessionRepository{
		"memory": NewMemorySessionRepository(),
		"redis":  redisRepo,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	key := conversation.Key{UserID: 42, ChatID: -100}

	for name, repo := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := repo.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, conversation.Idle(key), got)

			want := conversation.Session{
				Key:    key,
				State:  conversation.StateAwaitName,
				Date:   "26.01",
				Time:   "19:30",
				Guests: 4,
			}
			require.NoError(t, repo.Save(ctx, want))

			got, err = repo.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			other, err := repo.Get(ctx, conversation.Key{UserID: 42, ChatID: 42})
			require.NoError(t, err)
			assert.False(t, other.Active())

			require.NoError(t, repo.Delete(ctx, key))
			got, err = repo.Get(ctx, key)
			require.NoError(t, err)
			assert.False(t, got.Active())
		})
	}
}

func TestSessionSaveIdleClears(t *testing.T) {
	ctx := context.Background()
	key := conversation.Key{UserID: 1, ChatID: 1}

	for name, repo := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, conversation.Session{Key: key, State: conversation.StateAwaitDate}))
			require.NoError(t, repo.Save(ctx, conversation.Idle(key)))

			got, err := repo.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, conversation.Idle(key), got)
		})
	}
}

func TestRedisSessionLayout(t *testing.T) {
	srv, repo := newRedisSessions(t)
	ctx := context.Background()
	key := conversation.Key{UserID: 7, ChatID: 8}

	require.NoError(t, repo.Save(ctx, conversation.Session{Key: key, State: conversation.StateAwaitTime, Date: "26.01"}))

	assert.True(t, srv.Exists("booking_session:7:8"))
	assert.Zero(t, srv.TTL("booking_session:7:8"))
}

func TestRedisSessionUnreadableStartsOver(t *testing.T) {
	srv, repo := newRedisSessions(t)
	key := conversation.Key{UserID: 7, ChatID: 8}

	require.NoError(t, srv.Set("booking_session:7:8", "{not json"))

	got, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, conversation.Idle(key), got)
}
