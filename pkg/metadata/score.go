package metadata

import (
	"context"
	"time"

	"github.com/pkgscout/pkgscout/pkg/store"
	"github.com/pkgscout/pkgscout/pkg/versions"
)

const (
	staleMonthStep   = 3
	python3Cap       = 1000
	python3PenaltyPc = 30
)

// Score computes the package's rank from repository watchers, penalized for
// staleness and missing Python 3 support. Derived-value lookups that fail are
// logged and treated as absent rather than failing the computation.
func (c *Catalog) Score(ctx context.Context, p *store.Package) int {
	watchers := p.RepoWatchers
	score := watchers

	if last := c.lastActivity(ctx, p); last != nil {
		// Every started three-month span of inactivity costs a tenth of
		// the watcher count.
		score -= (monthsBetween(*last, c.now()) / staleMonthStep) * watchers / 10
	}

	if !c.supportsPython3(ctx, p) {
		penalty := watchers * python3PenaltyPc / 100
		if penalty > python3Cap {
			penalty = python3Cap
		}
		score -= penalty
	}

	return score
}

// lastActivity is the most recent commit date, falling back to the package's
// creation time when no commits are recorded, or nil when neither exists.
func (c *Catalog) lastActivity(ctx context.Context, p *store.Package) *time.Time {
	last, err := c.LastUpdated(ctx, p)
	if err != nil {
		c.logger.Warn("last-updated lookup failed", "package", p.Slug, "err", err)
		return nil
	}
	if last != nil {
		return last
	}
	if p.CreatedAt.IsZero() {
		return nil
	}
	created := p.CreatedAt
	return &created
}

// supportsPython3 reads the package-level flag when the aggregator has set
// it, otherwise falls back to the highest comparable stored version.
func (c *Catalog) supportsPython3(ctx context.Context, p *store.Package) bool {
	if p.SupportsPython3 != nil {
		return *p.SupportsPython3
	}
	vs, err := c.store.Versions(ctx, p.ID)
	if err != nil {
		c.logger.Warn("version lookup failed", "package", p.Slug, "err", err)
		return false
	}
	ordered := versions.ByVersion(vs)
	if len(ordered) == 0 {
		return false
	}
	return ordered[len(ordered)-1].SupportsPython3
}

// monthsBetween counts whole calendar months from a to b, adjusting down when
// the day of month has not yet been reached. Negative spans count as zero.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
