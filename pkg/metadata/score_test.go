package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/store"
)

func newTestCatalog(t *testing.T, now time.Time) (*Catalog, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	c := NewCatalog(st, cache.NewMemoryCache(), nil)
	if !now.IsZero() {
		c.now = func() time.Time { return now }
	}
	return c, st
}

func createPackage(t *testing.T, c *Catalog, p *store.Package) *store.Package {
	t.Helper()
	if err := c.CreatePackage(context.Background(), p); err != nil {
		t.Fatalf("CreatePackage failed: %v", err)
	}
	return p
}

func boolp(b bool) *bool { return &b }

func TestScore_AbandonedPython2Package(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c, _ := newTestCatalog(t, now)
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title:           "legacy",
		Slug:            "legacy",
		RepoURL:         "https://github.com/x/legacy",
		RepoWatchers:    1000,
		SupportsPython3: boolp(false),
	})

	// Last commit exactly two years back.
	if _, err := c.AddCommit(ctx, &store.Commit{
		PackageID:  p.ID,
		Hash:       "old",
		CommitDate: now.AddDate(-2, 0, 0),
	}); err != nil {
		t.Fatalf("AddCommit failed: %v", err)
	}

	// 24 months stale: 8 three-month spans cost 100 watchers each.
	// No python 3: 30% of 1000 watchers on top.
	if got := c.Score(ctx, p); got != -100 {
		t.Errorf("Score = %d, want -100", got)
	}
}

func TestScore_ActiveModernPackage(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c, _ := newTestCatalog(t, now)
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title:           "fresh",
		Slug:            "fresh",
		RepoURL:         "https://github.com/x/fresh",
		RepoWatchers:    500,
		SupportsPython3: boolp(true),
	})
	c.AddCommit(ctx, &store.Commit{PackageID: p.ID, Hash: "h", CommitDate: now.AddDate(0, 0, -3)})

	if got := c.Score(ctx, p); got != 500 {
		t.Errorf("Score = %d, want 500", got)
	}
}

func TestScore_Python3PenaltyCapped(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c, _ := newTestCatalog(t, now)
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title:           "huge",
		Slug:            "huge",
		RepoURL:         "https://github.com/x/huge",
		RepoWatchers:    10000,
		SupportsPython3: boolp(false),
	})
	c.AddCommit(ctx, &store.Commit{PackageID: p.ID, Hash: "h", CommitDate: now})

	// 30% would be 3000; the penalty caps at 1000.
	if got := c.Score(ctx, p); got != 9000 {
		t.Errorf("Score = %d, want 9000", got)
	}
}

func TestScore_CreatedAtFallbackWhenNoCommits(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c, _ := newTestCatalog(t, now)
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title:           "quiet",
		Slug:            "quiet",
		RepoURL:         "https://github.com/x/quiet",
		RepoWatchers:    200,
		SupportsPython3: boolp(true),
		CreatedAt:       now.AddDate(0, -7, 0),
	})

	// 7 months: two full three-month spans, 20 watchers each.
	if got := c.Score(ctx, p); got != 160 {
		t.Errorf("Score = %d, want 160", got)
	}
}

func TestScore_Python3FromHighestVersion(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c, _ := newTestCatalog(t, now)
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title:        "ported",
		Slug:         "ported",
		RepoURL:      "https://github.com/x/ported",
		RepoWatchers: 100,
	})
	c.AddCommit(ctx, &store.Commit{PackageID: p.ID, Hash: "h", CommitDate: now})

	c.SaveVersion(ctx, &store.Version{PackageID: p.ID, Number: "2.0", SupportsPython3: false})
	c.SaveVersion(ctx, &store.Version{PackageID: p.ID, Number: "3.0", SupportsPython3: true})

	if got := c.Score(ctx, p); got != 100 {
		t.Errorf("Score = %d, want 100 (highest version supports python 3)", got)
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2025-01-15", "2025-04-15", 3},
		{"2025-01-15", "2025-04-14", 2},
		{"2025-01-31", "2025-02-28", 0},
		{"2024-06-01", "2026-06-01", 24},
		{"2025-01-01", "2025-01-20", 0},
		{"2025-06-01", "2025-01-01", 0},
	}

	for _, tt := range tests {
		a, _ := time.Parse("2006-01-02", tt.a)
		b, _ := time.Parse("2006-01-02", tt.b)
		if got := monthsBetween(a, b); got != tt.want {
			t.Errorf("monthsBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
