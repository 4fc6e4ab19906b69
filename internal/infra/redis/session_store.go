package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"trivia-service/internal/domain"
)

// SessionStore keeps login sessions in Redis: session:{token} -> userID with
// a sliding TTL. Redis is the only cross-instance coordination point, so any
// replica can resolve a cookie.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	return token, nil
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", domain.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	// Sliding expiry, best effort.
	_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()
	return userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	return nil
}

func (s *SessionStore) key(token string) string {
	return "session:" + token
}
