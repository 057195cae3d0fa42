package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"venue-bot/internal/conversation"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionRepository keeps the in-progress booking dialogue per (user, chat).
// Get returns an idle session when nothing is stored.
type SessionRepository interface {
	Get(ctx context.Context, key conversation.Key) (conversation.Session, error)
	Save(ctx context.Context, session conversation.Session) error
	Delete(ctx context.Context, key conversation.Key) error
}

const sessionKeyPrefix = "booking_session:"

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[conversation.Key]conversation.Session
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[conversation.Key]conversation.Session),
	}
}

func (r *memorySessionRepository) Get(_ context.Context, key conversation.Key) (conversation.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if session, ok := r.sessions[key]; ok {
		return session, nil
	}
	return conversation.Idle(key), nil
}

func (r *memorySessionRepository) Save(_ context.Context, session conversation.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !session.Active() {
		delete(r.sessions, session.Key)
		return nil
	}
	r.sessions[session.Key] = session
	return nil
}

func (r *memorySessionRepository) Delete(_ context.Context, key conversation.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, key)
	return nil
}

type redisSessionRepository struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisSessionRepository stores sessions as JSON without expiry, so an
// abandoned dialogue resumes where it stopped.
func NewRedisSessionRepository(client *redis.Client, log *zap.Logger) SessionRepository {
	return &redisSessionRepository{
		client: client,
		log:    log.With(zap.String("repository", "session")),
	}
}

func (r *redisSessionRepository) Get(ctx context.Context, key conversation.Key) (conversation.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return conversation.Idle(key), nil
	}
	if err != nil {
		r.log.Error("Failed to load session",
			zap.Error(err),
			zap.String("session", key.String()),
		)
		return conversation.Session{}, fmt.Errorf("load session %s: %w", key, err)
	}

	var session conversation.Session
	if err := sonic.Unmarshal(data, &session); err != nil {
		// a corrupt entry must not wedge the user; start over
		r.log.Warn("Dropping unreadable session",
			zap.Error(err),
			zap.String("session", key.String()),
		)
		return conversation.Idle(key), nil
	}
	if !session.State.Valid() {
		return conversation.Idle(key), nil
	}
	session.Key = key

	return session, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, session conversation.Session) error {
	if !session.Active() {
		return r.Delete(ctx, session.Key)
	}

	data, err := sonic.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.Key, err)
	}

	if err := r.client.Set(ctx, sessionKey(session.Key), data, 0).Err(); err != nil {
		r.log.Error("Failed to save session",
			zap.Error(err),
			zap.String("session", session.Key.String()),
		)
		return fmt.Errorf("save session %s: %w", session.Key, err)
	}

	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, key conversation.Key) error {
	if err := r.client.Del(ctx, sessionKey(key)).Err(); err != nil {
		r.log.Error("Failed to delete session",
			zap.Error(err),
			zap.String("session", key.String()),
		)
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

func sessionKey(key conversation.Key) string {
	return sessionKeyPrefix + key.String()
}
