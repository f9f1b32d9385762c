// Package rediscache implements domain.CacheStore on Redis.
//
// The store is deliberately forgiving: construction never fails, and both
// Get and Set report failure as a boolean so callers treat an unavailable
// cache as a cold cache rather than an error.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
)

// Store wraps a shared Redis client. A zero or credential-less Store is a
// valid no-op cache.
type Store struct {
	client *redis.Client
}

// New constructs a Store from a Redis URL. An empty or unparsable URL
// yields a disabled store, not an error: caching is an optimization, never
// a startup requirement.
func New(ctx context.Context, redisURL string) *Store {
	if redisURL == "" {
		slog.Warn("redis url not configured, caching disabled")
		return &Store{}
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("invalid redis url, caching disabled", slog.Any("error", err))
		return &Store{}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		// Keep the client: Redis may come up later and per-call errors
		// already degrade to cache misses.
		slog.Warn("redis ping failed, operating with cold cache", slog.Any("error", err))
	}
	return &Store{client: client}
}

// NewFromClient wraps an existing client; used by tests with miniredis.
func NewFromClient(client *redis.Client) *Store { return &Store{client: client} }

// Enabled reports whether a Redis client is configured.
func (s *Store) Enabled() bool { return s != nil && s.client != nil }

// Ping checks connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return errors.New("cache disabled")
	}
	return s.client.Ping(ctx).Err()
}

// Get unmarshals the JSON blob at key into dest and reports whether a
// usable value was found. Absence, a broken connection and a corrupt blob
// all look the same to the caller.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if !s.Enabled() {
		observability.CacheOpsTotal.WithLabelValues("get", "disabled").Inc()
		return false
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			observability.CacheOpsTotal.WithLabelValues("get", "miss").Inc()
		} else {
			observability.CacheOpsTotal.WithLabelValues("get", "error").Inc()
			observability.LoggerFromContext(ctx).Warn("cache get failed",
				slog.String("key", key), slog.Any("error", err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		observability.CacheOpsTotal.WithLabelValues("get", "error").Inc()
		observability.LoggerFromContext(ctx).Warn("cache value corrupt",
			slog.String("key", key), slog.Any("error", err))
		return false
	}
	observability.CacheOpsTotal.WithLabelValues("get", "hit").Inc()
	return true
}

// Set stores value as a JSON blob under key, replacing any previous value.
// ttl <= 0 stores without expiry.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if !s.Enabled() {
		observability.CacheOpsTotal.WithLabelValues("set", "disabled").Inc()
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		observability.CacheOpsTotal.WithLabelValues("set", "error").Inc()
		observability.LoggerFromContext(ctx).Warn("cache marshal failed",
			slog.String("key", key), slog.Any("error", err))
		return false
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		observability.CacheOpsTotal.WithLabelValues("set", "error").Inc()
		observability.LoggerFromContext(ctx).Warn("cache set failed",
			slog.String("key", key), slog.Any("error", err))
		return false
	}
	observability.CacheOpsTotal.WithLabelValues("set", "ok").Inc()
	return true
}
