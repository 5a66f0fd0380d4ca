package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

// SessionStore keeps session records in Redis, keyed by the opaque session
// identifier the client holds in its cookie.
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore constructs a Redis-backed session store. Sessions expire
// after ttl of inactivity-free lifetime; a non-positive ttl disables expiry.
func NewSessionStore(client *redis.Client, prefix string, ttl time.Duration) *SessionStore {
	if prefix == "" {
		prefix = "camagru:session"
	}
	return &SessionStore{client: client, prefix: prefix, ttl: ttl}
}

type sessionRecord struct {
	UserID    string    `json:"user_id"`
	CSRFToken string    `json:"csrf_token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Save writes the session record, refreshing its TTL.
func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	payload, err := json.Marshal(sessionRecord{
		UserID:    session.UserID,
		CSRFToken: session.CSRFToken,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.ID), payload, s.expiry()).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	return nil
}

// Get loads a session by identifier.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &domain.Session{
		ID:        id,
		UserID:    record.UserID,
		CSRFToken: record.CSRFToken,
		CreatedAt: record.CreatedAt,
	}, nil
}

// Delete destroys a session. Removing an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return s.prefix + ":" + id
}

func (s *SessionStore) expiry() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	return s.ttl
}

var _ port.SessionStore = (*SessionStore)(nil)
