package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTracker implements Tracker using Redis. Each session is a JSON blob
// whose TTL slides on every read and write.
type RedisTracker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisTracker creates a new Redis-backed tracker and verifies the connection.
func NewRedisTracker(cfg Config) (*RedisTracker, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisTrackerWithClient(client, cfg), nil
}

// NewRedisTrackerWithClient creates a tracker from an existing Redis client.
func NewRedisTrackerWithClient(client *redis.Client, cfg Config) *RedisTracker {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisTracker{
		client: client,
		prefix: prefix,
		ttl:    cfg.TTL(),
	}
}

func (t *RedisTracker) key(id string) string {
	return t.prefix + id
}

// Start creates and stores a new anonymous session.
func (t *RedisTracker) Start(ctx context.Context) (*Session, error) {
	s := New()
	if err := t.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get loads a session and slides its expiry.
func (t *RedisTracker) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	key := t.key(id)
	data, err := t.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	if err := t.client.Expire(ctx, key, t.ttl).Err(); err != nil {
		return nil, fmt.Errorf("extend session: %w", err)
	}
	return &s, nil
}

// Save stores the session with a fresh TTL.
func (t *RedisTracker) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("save session: missing id")
	}
	s.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := t.client.Set(ctx, t.key(s.ID), data, t.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Abandon deletes the session.
func (t *RedisTracker) Abandon(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := t.client.Del(ctx, t.key(id)).Err(); err != nil {
		return fmt.Errorf("abandon session: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (t *RedisTracker) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (t *RedisTracker) Close() error {
	return t.client.Close()
}
