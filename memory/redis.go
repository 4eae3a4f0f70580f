package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scttfrdmn/inquire/agent"
)

const redisKeyPrefix = "inquire:transcript:"

// RedisStore mirrors transcripts into a Redis list per session,
// JSON-encoding each message. An optional TTL expires stale sessions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets how long a session's transcript is retained. Zero means
// no expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// NewRedisStore creates a store backed by the given Redis address.
func NewRedisStore(addr string, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRedisStoreFromClient wraps an existing client, mainly for tests.
func NewRedisStoreFromClient(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: 24 * time.Hour}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append implements Store.
func (s *RedisStore) Append(ctx context.Context, sessionID string, msg *agent.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := redisKeyPrefix + sessionID
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("append to %s: %w", key, err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("set ttl on %s: %w", key, err)
		}
	}
	return nil
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context, sessionID string) ([]*agent.Message, error) {
	key := redisKeyPrefix + sessionID
	raw, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	out := make([]*agent.Message, 0, len(raw))
	for _, item := range raw {
		var msg agent.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode message in %s: %w", key, err)
		}
		out = append(out, &msg)
	}
	return out, nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	key := redisKeyPrefix + sessionID
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
