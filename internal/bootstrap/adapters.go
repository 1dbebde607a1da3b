package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matchify/matchify-core/config"
	"github.com/matchify/matchify-core/internal/adapters/prefs"
	"github.com/matchify/matchify-core/internal/api"
	"github.com/matchify/matchify-core/internal/core"
)

// NewPreferenceStore builds the preference store selected by config.
// The returned close function releases backend resources; it is a no-op for
// the file and memory backends.
func NewPreferenceStore(ctx context.Context, cfg config.PrefsConfig, logger *slog.Logger) (core.PreferenceStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.PrefsBackendMemory:
		return prefs.NewMemoryStore(), noop, nil

	case config.PrefsBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			if cerr := client.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis after ping failure", "error", cerr)
			}
			return nil, nil, fmt.Errorf("connect redis prefs at %s: %w", cfg.RedisAddr, err)
		}
		logger.InfoContext(ctx, "preference store ready", "backend", "redis", "addr", cfg.RedisAddr)
		return prefs.NewRedisStore(client, cfg.Namespace), client.Close, nil

	default:
		store, err := prefs.NewFileStore(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open prefs file store: %w", err)
		}
		logger.InfoContext(ctx, "preference store ready", "backend", "file", "path", cfg.FilePath)
		return store, noop, nil
	}
}

// NewAPIClient builds the backend API client from config.
func NewAPIClient(cfg config.APIConfig, logger *slog.Logger) (*api.Client, error) {
	return api.NewClient(api.Config{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		RetryLimit: cfg.RetryLimit,
		Logger:     logger,
	})
}
