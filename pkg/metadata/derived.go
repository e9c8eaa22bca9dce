package metadata

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/store"
	"github.com/pkgscout/pkgscout/pkg/versions"
)

// Accessor names used in derived-value cache keys.
const (
	keyLastUpdated   = "last_updated"
	keyLastReleased  = "last_released"
	keyPyPIVersion   = "pypi_version"
	keyCommitsOver52 = "commits_over_52"
)

// weeksTracked is the length of the rolling commit histogram.
const weeksTracked = 52

// LastUpdated returns the most recent commit timestamp for the package, or
// nil when it has no commits.
func (c *Catalog) LastUpdated(ctx context.Context, p *store.Package) (*time.Time, error) {
	key := cache.Key("pkg", p.ID, keyLastUpdated)
	return cached(ctx, c, key, func() (*time.Time, error) {
		return c.store.LatestCommitDate(ctx, p.ID)
	})
}

// PyPIVersion returns the highest comparable version number for the package,
// or "" when no stored version is comparable. This is the version-order
// answer; LastReleased gives the timestamp answer, and the two can disagree.
func (c *Catalog) PyPIVersion(ctx context.Context, p *store.Package) (string, error) {
	key := cache.Key("pkg", p.ID, keyPyPIVersion)
	return cached(ctx, c, key, func() (string, error) {
		numbers, err := c.store.VersionNumbers(ctx, p.ID)
		if err != nil {
			return "", err
		}
		return versions.PyPIVersion(numbers), nil
	})
}

// LastReleased returns the version with the greatest upload timestamp,
// ignoring version-number comparability, or nil when no version has an
// upload time.
func (c *Catalog) LastReleased(ctx context.Context, p *store.Package) (*store.Version, error) {
	key := cache.Key("pkg", p.ID, keyLastReleased)
	return cached(ctx, c, key, func() (*store.Version, error) {
		v, err := c.store.LatestReleasedVersion(ctx, p.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return v, err
	})
}

// CommitsOver52 returns the package's weekly commit histogram over the
// trailing year as 52 comma-separated bucket counts, most recent week first.
// A commit older than 52 weeks contributes to no bucket.
func (c *Catalog) CommitsOver52(ctx context.Context, p *store.Package) (string, error) {
	key := cache.Key("pkg", p.ID, keyCommitsOver52)
	return cached(ctx, c, key, func() (string, error) {
		now := c.now()
		commits, err := c.store.CommitsSince(ctx, p.ID, now.Add(-weeksTracked*7*24*time.Hour))
		if err != nil {
			return "", err
		}

		var weeks [weeksTracked]int
		for _, commit := range commits {
			age := int(now.Sub(commit.CommitDate).Hours()/24) / 7
			if age >= 0 && age < weeksTracked {
				weeks[age]++
			}
		}

		parts := make([]string, weeksTracked)
		for i, n := range weeks {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ","), nil
	})
}

// CommitsOver52Listed parses the histogram into its 52 integer buckets.
func (c *Catalog) CommitsOver52Listed(ctx context.Context, p *store.Package) ([]int, error) {
	s, err := c.CommitsOver52(ctx, p)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// NoDevelopment reports whether the last commit is more than a year old.
// Returns nil when the package has no commit history.
func (c *Catalog) NoDevelopment(ctx context.Context, p *store.Package) (*bool, error) {
	last, err := c.LastUpdated(ctx, p)
	if err != nil || last == nil {
		return nil, err
	}
	stale := last.Before(c.now().AddDate(-1, 0, 0))
	return &stale, nil
}

// PyPIAncient reports whether the latest release is more than a year old.
// Returns nil when the package has no released version.
func (c *Catalog) PyPIAncient(ctx context.Context, p *store.Package) (*bool, error) {
	release, err := c.LastReleased(ctx, p)
	if err != nil || release == nil || release.UploadTime == nil {
		return nil, err
	}
	ancient := release.UploadTime.Before(c.now().AddDate(-1, 0, 0))
	return &ancient, nil
}
