// Package tokenstore provides the durable slot holding each portal
// session's bearer token. Only the opaque token is persisted; profiles are
// always re-fetched from the gym API.
package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gympulse/member-portal/internal/core/domain"
)

const defaultTTL = 30 * 24 * time.Hour

// RedisStore keeps token slots in Redis.
// Key format: session:token:<session_id>
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore wrapping the given client. A
// non-positive ttl falls back to defaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return "", domain.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("token get: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID, token string) error {
	if err := s.client.Set(ctx, s.key(sessionID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("token put: %w", err)
	}
	return nil
}

// Delete is idempotent; removing an absent slot is not an error.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("token delete: %w", err)
	}
	return nil
}

// Ping reports backend connectivity for the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("session:token:%s", sessionID)
}
