// Package metadata is the aggregation core: it orchestrates registry and
// repository fetches into the store, memoizes expensive derived reads in a
// shared cache, and computes the popularity score.
package metadata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/license"
	"github.com/pkgscout/pkgscout/pkg/store"
)

// Catalog wraps the store with the write paths that keep derived values
// consistent: every mutating write to a Version or Commit invalidates exactly
// the cache entries it affects, and every package save recomputes the score.
//
// The cache is an injected port, not process-global state; tests use an
// in-memory cache or none at all.
type Catalog struct {
	store  store.Store
	cache  cache.Cache
	logger *log.Logger
	now    func() time.Time
}

// NewCatalog creates a Catalog over the given store and cache. A nil cache
// disables memoization; a nil logger falls back to the default logger.
func NewCatalog(st store.Store, c cache.Cache, logger *log.Logger) *Catalog {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Catalog{store: st, cache: c, logger: logger, now: time.Now}
}

// Store exposes the underlying store for read paths that need no caching.
func (c *Catalog) Store() store.Store { return c.store }

// PackageBySlug looks the package up by its slug.
func (c *Catalog) PackageBySlug(ctx context.Context, slug string) (*store.Package, error) {
	return c.store.PackageBySlug(ctx, slug)
}

// PackageByRepoURL looks the package up by its repository URL.
func (c *Catalog) PackageByRepoURL(ctx context.Context, repoURL string) (*store.Package, error) {
	return c.store.PackageByRepoURL(ctx, repoURL)
}

// SavePackage recomputes the package score and persists the package. Callers
// never write Score directly; this is the single synchronization point of a
// refresh.
func (c *Catalog) SavePackage(ctx context.Context, p *store.Package) error {
	p.Score = c.Score(ctx, p)
	return c.store.SavePackage(ctx, p)
}

// CreatePackage computes the initial score and inserts the package.
func (c *Catalog) CreatePackage(ctx context.Context, p *store.Package) error {
	if err := c.store.CreatePackage(ctx, p); err != nil {
		return err
	}
	return c.SavePackage(ctx, p)
}

// SaveVersion canonicalizes the version's license, upserts the row keyed by
// (package, number), and invalidates the derived values a version write
// affects: last-released and the registry version.
func (c *Catalog) SaveVersion(ctx context.Context, v *store.Version) (created bool, err error) {
	v.License = license.Normalize(&v.License)

	created, err = c.store.UpsertVersion(ctx, v)
	if err != nil {
		return false, err
	}

	c.invalidate(ctx, v.PackageID, keyLastReleased, keyPyPIVersion)
	return created, nil
}

// AddCommit inserts a commit row, idempotently when it carries a hash, and
// invalidates the derived values a commit write affects: last-updated and
// the weekly commit histogram.
func (c *Catalog) AddCommit(ctx context.Context, commit *store.Commit) (created bool, err error) {
	created, err = c.store.InsertCommit(ctx, commit)
	if err != nil {
		return false, err
	}
	if created {
		c.invalidate(ctx, commit.PackageID, keyLastUpdated, keyCommitsOver52)
	}
	return created, nil
}

func (c *Catalog) invalidate(ctx context.Context, packageID string, accessors ...string) {
	for _, accessor := range accessors {
		key := cache.Key("pkg", packageID, accessor)
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.Warn("cache invalidation failed", "key", key, "err", err)
		}
	}
}

// cached reads a derived value through the cache, computing and storing it on
// a miss. Entries have no TTL; they live until a write invalidates them.
func cached[T any](ctx context.Context, c *Catalog, key string, compute func() (T, error)) (T, error) {
	var value T

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if json.Unmarshal(data, &value) == nil {
			return value, nil
		}
	} else if err != nil {
		c.logger.Warn("cache read failed", "key", key, "err", err)
	}

	value, err := compute()
	if err != nil {
		return value, err
	}
	if data, err := json.Marshal(value); err == nil {
		if err := c.cache.Set(ctx, key, data, 0); err != nil {
			c.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return value, nil
}
