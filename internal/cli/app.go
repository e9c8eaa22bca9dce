package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/config"
	"github.com/pkgscout/pkgscout/pkg/metadata"
	"github.com/pkgscout/pkgscout/pkg/pypi"
	"github.com/pkgscout/pkgscout/pkg/repos"
	"github.com/pkgscout/pkgscout/pkg/store"
)

// app bundles the wired components every command works against.
type app struct {
	cfg        *config.Config
	store      store.Store
	cache      cache.Cache
	registry   *pypi.Client
	providers  *repos.Registry
	catalog    *metadata.Catalog
	aggregator *metadata.Aggregator
}

// buildApp assembles the store, cache, catalog, and aggregator from the
// configuration file at cfgPath.
func buildApp(ctx context.Context, cfgPath string, logger *log.Logger) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	st, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ch, err := buildCache(ctx, cfg)
	if err != nil {
		st.Close(ctx)
		return nil, err
	}

	catalog := metadata.NewCatalog(st, ch, logger)
	providers := repos.DefaultRegistry(cfg.Tokens.GitHub, cfg.Tokens.GitLab)
	registry := pypi.NewClient()
	aggregator := metadata.NewAggregator(catalog, registry, providers, nil, logger)

	return &app{
		cfg:        cfg,
		store:      st,
		cache:      ch,
		registry:   registry,
		providers:  providers,
		catalog:    catalog,
		aggregator: aggregator,
	}, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		return store.NewMongoStore(ctx, cfg.Store.URI, cfg.Store.Database)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func buildCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Cache.Addr, "", 0)
	case "file":
		return cache.NewFileCache(cfg.Cache.Dir)
	case "none":
		return cache.NewNullCache(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

func (a *app) close(ctx context.Context) {
	a.registry.Close()
	a.providers.Close()
	if err := a.cache.Close(); err != nil {
		log.Default().Warn("cache close failed", "err", err)
	}
	if err := a.store.Close(ctx); err != nil {
		log.Default().Warn("store close failed", "err", err)
	}
}
