package prefs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/matchify/matchify-core/internal/core"
)

// Compile-time conformance to the core port.
var _ core.PreferenceStore = (*RedisStore)(nil)

// RedisStore is a Redis-backed preference store for deployments where the
// client core runs server-side (kiosk, shared gateway) and preferences must
// outlive the host. Keys are namespace-prefixed; values have no TTL, the
// session lives until logout clears it.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Redis-backed store under namespace.
func NewRedisStore(client redis.UniversalClient, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "user_prefs"
	}
	return &RedisStore{
		client: client,
		prefix: namespace + ":",
	}
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("preference key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("storage unavailable: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) SetBool(ctx context.Context, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("storage unavailable: redis get: %w", err)
	}
	return value, nil
}

func (s *RedisStore) GetBool(ctx context.Context, key string) (bool, error) {
	value, err := s.Get(ctx, key)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	parsed, parseErr := strconv.ParseBool(value)
	if parseErr != nil {
		return false, nil
	}
	return parsed, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to delete
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("storage unavailable: redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	// SCAN instead of KEYS so a shared Redis is not blocked.
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("storage unavailable: redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("storage unavailable: redis del: %w", err)
	}
	return nil
}
