package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/borrowbook/internal/domain"
)

// SessionStore keeps refresh tokens in Redis with a TTL. The token itself
// is the key, the session state is the value.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
	}
}

// Save stores a refresh token session.
func (s *SessionStore) Save(ctx context.Context, token string, session domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+token, data, ttl).Err()
}

// Get resolves a refresh token to its session.
func (s *SessionStore) Get(ctx context.Context, token string) (domain.Session, error) {
	data, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Delete revokes a refresh token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.prefix+token).Err()
}
