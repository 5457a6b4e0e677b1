// Package bootstrap wires configuration into a running set of services.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/bilgisen/breakdown/internal/cache"
	"github.com/bilgisen/breakdown/internal/config"
	"github.com/bilgisen/breakdown/internal/content"
	"github.com/bilgisen/breakdown/internal/logger"
	"github.com/bilgisen/breakdown/internal/media"
	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/pager"
	"github.com/bilgisen/breakdown/internal/store"
	"github.com/bilgisen/breakdown/internal/store/filestore"
	"github.com/bilgisen/breakdown/internal/store/postgrest"
	"github.com/bilgisen/breakdown/internal/store/sqlite"
)

// Seeder loads fixture records into a local store.
type Seeder interface {
	Seed(ctx context.Context, articles []models.Article, comics []models.Comic) error
}

// App holds the long-lived services shared by the server and the TUI.
type App struct {
	Config  *config.Config
	Store   store.Store
	Content *content.Service
	Feeds   *pager.Registry
	Guard   cache.Guard

	closers []func() error
}

// New opens the configured store, image resolver and submission guard.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()
	app := &App{Config: cfg}

	st, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	app.Store = st
	app.closers = append(app.closers, closeStore)

	resolver, err := newResolver(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Content = content.NewService(st,
		content.WithResolver(resolver),
		content.WithTimeout(cfg.RequestTimeout),
	)
	app.Feeds = pager.NewRegistry(app.Content, cfg.PageSize, cfg.FeedSessionTTL)

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		app.Guard = rc
	} else {
		log.Info().Msg("REDIS_URL not set, using in-process submission guard")
		app.Guard = cache.NewMockRedisClient(cfg.RedisPrefix)
	}
	app.closers = append(app.closers, app.Guard.Close)

	log.Info().
		Str("store", cfg.StoreDriver).
		Int("page_size", cfg.PageSize).
		Dur("request_timeout", cfg.RequestTimeout).
		Msg("Services initialized")
	return app, nil
}

// OpenStore builds the store named by cfg.StoreDriver. The returned func
// releases it.
func OpenStore(cfg *config.Config) (store.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case config.DriverSupabase:
		return postgrest.New(postgrest.Config{
			URL:     cfg.SupabaseURL,
			Key:     cfg.SupabaseAnonKey,
			Timeout: cfg.RequestTimeout,
		}), noop, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return db, db.Close, nil
	case config.DriverFile:
		fs, err := filestore.NewStorage(cfg.DataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return fs, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// OpenSeeder opens a local store for fixture loading. The hosted backend
// is filled by the generation process, not by this tool.
func OpenSeeder(cfg *config.Config) (Seeder, func() error, error) {
	st, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	s, ok := st.(Seeder)
	if !ok {
		closeStore()
		return nil, nil, fmt.Errorf("store driver %q cannot be seeded", cfg.StoreDriver)
	}
	return s, closeStore, nil
}

func newResolver(ctx context.Context, cfg *config.Config) (media.Resolver, error) {
	r2 := media.R2Config{
		Endpoint:  cfg.R2Endpoint,
		AccountID: cfg.R2AccountID,
		AccessKey: cfg.R2AccessKey,
		SecretKey: cfg.R2SecretKey,
		Bucket:    cfg.R2Bucket,
		TTL:       cfg.R2PresignTTL,
	}
	if !r2.Enabled() {
		return media.Passthrough{}, nil
	}
	r, err := media.NewR2Resolver(ctx, r2)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize R2 resolver: %w", err)
	}
	return r, nil
}

// Close releases everything New opened, last opened first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
