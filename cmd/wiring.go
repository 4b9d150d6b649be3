package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/ai"
	"github.com/spigell/foundermatch/internal/ai/gemini"
	"github.com/spigell/foundermatch/internal/marketplace"
	"github.com/spigell/foundermatch/internal/metrics"
	"github.com/spigell/foundermatch/internal/profiles"
	"github.com/spigell/foundermatch/internal/search"
	"github.com/spigell/foundermatch/internal/secrets"
)

// newStore builds the configured profile store. The returned close function
// is never nil.
func newStore(ctx context.Context, cfg *StoreConfig, log *zap.Logger) (marketplace.Store, func(), error) {
	var (
		store   marketplace.Store
		closers []io.Closer
	)

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				log.Warn("closing profile store", zap.Error(err))
			}
		}
	}

	switch driver := strings.ToLower(strings.TrimSpace(cfg.Driver)); driver {
	case "", "file":
		file, err := profiles.NewFileStore(cfg.File, log)
		if err != nil {
			return nil, closeAll, err
		}
		store = file
	case "postgres":
		pg, err := newPostgresStore(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, pg)
		store = pg
	default:
		return nil, closeAll, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}

	if cfg.Cache != nil && cfg.Cache.Enabled {
		client := profiles.NewRedisClient(profiles.CacheConfig{
			Address: cfg.Cache.Address,
			DB:      cfg.Cache.DB,
			TTL:     cfg.Cache.TTL,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("profile cache unreachable, lookups will fall through", zap.String("address", cfg.Cache.Address), zap.Error(err))
		}
		cached := profiles.NewCachedStore(store, client, cfg.Cache.TTL, log.With(zap.String("component", "profile_cache")))
		closers = append(closers, cached)
		store = cached
	}

	return store, closeAll, nil
}

func newPostgresStore(ctx context.Context, cfg *PostgresConfig, log *zap.Logger) (*profiles.PostgresStore, error) {
	if cfg == nil || strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("store.postgres.dsn is required for the postgres driver")
	}

	password, err := secrets.Optional(secrets.Source{
		Name: "postgres password",
		File: cfg.PasswordFile,
	})
	if err != nil {
		return nil, err
	}

	pg, err := profiles.NewPostgres(profiles.PostgresConfig{
		DSN:            cfg.DSN,
		Password:       password,
		MaxConnections: cfg.MaxConnections,
	})
	if err != nil {
		return nil, err
	}

	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	log.Info("connected to postgres profile store", zap.Int("max_connections", cfg.MaxConnections))
	return pg, nil
}

func newCompleter(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or FOUNDERMATCH_GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, log)
	if err != nil {
		return nil, err
	}
	return generator, nil
}

func newResolver(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*search.Resolver, error) {
	completer, err := newCompleter(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	maxLogLength := 0
	if cfg.Gemini != nil {
		maxLogLength = cfg.Gemini.MaxLogLength
	}

	return search.NewResolver(completer, search.Options{
		Timeout:      cfg.Timeout,
		MaxLogLength: maxLogLength,
	}, log.With(zap.String("component", "search"))), nil
}

func serveMetrics(cfg *MetricsConfig, log *zap.Logger) {
	if cfg == nil || strings.TrimSpace(cfg.Address) == "" {
		return
	}
	metrics.Serve(cfg.Address, log)
}
