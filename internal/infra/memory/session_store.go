package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionStore.
type SessionStore struct {
	ttl      time.Duration
	clock    func() time.Time
	mu       sync.Mutex
	sessions map[string]sessionEntry
}

type sessionEntry struct {
	userID    string
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]sessionEntry),
	}
}

func (s *SessionStore) Create(_ context.Context, userID string) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = sessionEntry{userID: userID, expiresAt: s.clock().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[token]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	if s.clock().After(entry.expiresAt) {
		delete(s.sessions, token)
		return "", domain.ErrSessionNotFound
	}
	// Sliding expiry: active sessions stay alive.
	entry.expiresAt = s.clock().Add(s.ttl)
	s.sessions[token] = entry
	return entry.userID, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
