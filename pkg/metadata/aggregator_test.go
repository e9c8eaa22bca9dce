package metadata

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/pkgscout/pkgscout/pkg/pypi"
	"github.com/pkgscout/pkgscout/pkg/repos"
	"github.com/pkgscout/pkgscout/pkg/store"
)

// fakeRegistry returns a canned response or error.
type fakeRegistry struct {
	info  *pypi.ReleaseInfo
	err   error
	calls int
}

func (f *fakeRegistry) FetchReleaseData(ctx context.Context, name string) (*pypi.ReleaseInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

// fakeProvider serves fixed stats and commits for any github URL.
type fakeProvider struct {
	watchers int
	commits  []store.Commit
	metaErr  error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) URLPattern() *regexp.Regexp {
	return regexp.MustCompile(`^https?://github\.com/`)
}

func (f *fakeProvider) FetchMetadata(ctx context.Context, p *store.Package) error {
	if f.metaErr != nil {
		return f.metaErr
	}
	p.RepoWatchers = f.watchers
	return nil
}

func (f *fakeProvider) FetchCommits(ctx context.Context, w repos.CommitWriter, p *store.Package) (int, error) {
	created := 0
	for i := range f.commits {
		c := f.commits[i]
		c.PackageID = p.ID
		inserted, err := w.AddCommit(ctx, &c)
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}
	return created, nil
}

// recordingHooks captures refresh events.
type recordingHooks struct {
	started   int
	completed []Result
	commits   int
}

func (h *recordingHooks) OnRefreshStart(context.Context, *store.Package) { h.started++ }
func (h *recordingHooks) OnRefreshComplete(_ context.Context, _ *store.Package, r Result) {
	h.completed = append(h.completed, r)
}
func (h *recordingHooks) OnCommitsFetched(_ context.Context, _ *store.Package, n int) {
	h.commits += n
}

func TestAggregator_Refresh_FullPass(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c, _ := newTestCatalog(t, now)
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title: "requests", Slug: "requests",
		RepoURL: "https://github.com/psf/requests",
		PyPIURL: "https://pypi.org/project/requests",
	})

	upload := now.AddDate(0, -1, 0)
	registry := &fakeRegistry{info: &pypi.ReleaseInfo{
		Version:         "2.31.0",
		Classifiers:     []string{"License :: OSI Approved :: Apache Software License"},
		RequiresPython:  ">=2.7",
		License:         "Apache 2.0",
		Downloads:       12345,
		UploadTime:      &upload,
		SupportsPython3: true,
	}}
	provider := &fakeProvider{
		watchers: 50000,
		commits: []store.Commit{
			{Hash: "c1", CommitDate: now.Add(-time.Hour)},
			{Hash: "c2", CommitDate: now.Add(-48 * time.Hour)},
		},
	}
	hooks := &recordingHooks{}
	agg := NewAggregator(c, registry, repos.NewRegistry(provider), hooks, nil)

	result, err := agg.Refresh(ctx, p, RefreshAll())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if result.Registry != PhaseOK || result.Repo != PhaseOK {
		t.Errorf("result = %+v, want both phases ok", result)
	}
	if result.CommitsCreated != 2 {
		t.Errorf("CommitsCreated = %d, want 2", result.CommitsCreated)
	}

	if p.PyPIDownloads != 12345 {
		t.Errorf("PyPIDownloads = %d", p.PyPIDownloads)
	}
	if p.SupportsPython3 == nil || !*p.SupportsPython3 {
		t.Error("SupportsPython3 not set from registry data")
	}
	if p.RepoWatchers != 50000 {
		t.Errorf("RepoWatchers = %d", p.RepoWatchers)
	}
	if p.LastFetched == nil || !p.LastFetched.Equal(now) {
		t.Errorf("LastFetched = %v, want %v", p.LastFetched, now)
	}

	vs, _ := c.store.Versions(ctx, p.ID)
	if len(vs) != 1 || vs[0].Number != "2.31.0" {
		t.Fatalf("versions = %+v, want the fetched release", vs)
	}
	if vs[0].License != "Apache 2.0" {
		t.Errorf("version License = %q", vs[0].License)
	}
	if len(vs[0].Licenses) != 1 || vs[0].Licenses[0] != "Apache Software License" {
		t.Errorf("version Licenses = %v", vs[0].Licenses)
	}

	if hooks.started != 1 || len(hooks.completed) != 1 || hooks.commits != 2 {
		t.Errorf("hooks = %+v", hooks)
	}

	// Refreshing again must not duplicate commits or versions.
	result, err = agg.Refresh(ctx, p, RefreshAll())
	if err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}
	if result.CommitsCreated != 0 {
		t.Errorf("second refresh created %d commits, want 0", result.CommitsCreated)
	}
	vs, _ = c.store.Versions(ctx, p.ID)
	if len(vs) != 1 {
		t.Errorf("second refresh left %d versions, want 1", len(vs))
	}
}

func TestAggregator_Refresh_RegistrySkippedWithoutName(t *testing.T) {
	c, _ := newTestCatalog(t, time.Time{})
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title: "internal", Slug: "internal",
		RepoURL: "https://github.com/corp/internal",
	})

	registry := &fakeRegistry{}
	agg := NewAggregator(c, registry, repos.NewRegistry(), nil, nil)

	result, err := agg.Refresh(ctx, p, RefreshAll())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if result.Registry != PhaseSkipped {
		t.Errorf("Registry phase = %s, want skipped", result.Registry)
	}
	if registry.calls != 0 {
		t.Errorf("registry called %d times for a package without an index name", registry.calls)
	}
	if result.Repo != PhaseUnsupported {
		t.Errorf("Repo phase = %s, want unsupported (no providers)", result.Repo)
	}
}

func TestAggregator_Refresh_DisabledRepoPhaseIsSkippedNotUnsupported(t *testing.T) {
	c, _ := newTestCatalog(t, time.Time{})
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title: "hosted-elsewhere", Slug: "hosted-elsewhere",
		RepoURL: "https://example.org/hosted-elsewhere",
	})

	agg := NewAggregator(c, &fakeRegistry{}, repos.NewRegistry(), nil, nil)

	result, err := agg.Refresh(ctx, p, Options{Registry: true})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if result.Repo != PhaseSkipped {
		t.Errorf("disabled repo phase = %s, want skipped", result.Repo)
	}

	result, err = agg.Refresh(ctx, p, RefreshAll())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if result.Repo != PhaseUnsupported {
		t.Errorf("unresolvable repo phase = %s, want unsupported", result.Repo)
	}
}

func TestAggregator_Refresh_RegistryNotFound(t *testing.T) {
	c, _ := newTestCatalog(t, time.Time{})
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title: "gone", Slug: "gone",
		RepoURL: "https://github.com/x/gone",
		PyPIURL: "gone",
	})

	registry := &fakeRegistry{err: fmt.Errorf("wrapped: %w", pypi.ErrNotFound)}
	agg := NewAggregator(c, registry, repos.NewRegistry(), nil, nil)

	result, err := agg.Refresh(ctx, p, Options{Registry: true})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if result.Registry != PhaseNotFound {
		t.Errorf("Registry phase = %s, want not-found", result.Registry)
	}
}

func TestAggregator_Refresh_RegistryNetworkFailure(t *testing.T) {
	c, _ := newTestCatalog(t, time.Time{})
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title: "flaky", Slug: "flaky",
		RepoURL: "https://github.com/x/flaky",
		PyPIURL: "flaky",
	})

	registry := &fakeRegistry{err: errors.New("connection reset")}
	agg := NewAggregator(c, registry, repos.NewRegistry(), nil, nil)

	result, err := agg.Refresh(ctx, p, Options{Registry: true})
	if err != nil {
		t.Fatalf("Refresh must tolerate upstream failure, got %v", err)
	}
	if result.Registry != PhaseFailed {
		t.Errorf("Registry phase = %s, want failed", result.Registry)
	}
}

func TestAggregator_Refresh_Python3FromSpecifier(t *testing.T) {
	c, _ := newTestCatalog(t, time.Time{})
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title: "six", Slug: "six",
		RepoURL: "https://github.com/benjaminp/six",
		PyPIURL: "six",
	})

	// No python-3 classifier, but the specifier admits major version 3.
	registry := &fakeRegistry{info: &pypi.ReleaseInfo{
		Version:        "1.16.0",
		RequiresPython: ">=2.7,!=3.0.*",
	}}
	agg := NewAggregator(c, registry, repos.NewRegistry(), nil, nil)

	if _, err := agg.Refresh(ctx, p, Options{Registry: true}); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if p.SupportsPython3 == nil || !*p.SupportsPython3 {
		t.Error("SupportsPython3 not derived from requires_python specifier")
	}
}

func TestAggregator_Refresh_GuessesUploadTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c, _ := newTestCatalog(t, now)
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title: "brandnew", Slug: "brandnew",
		RepoURL: "https://github.com/x/brandnew",
		PyPIURL: "brandnew",
	})

	registry := &fakeRegistry{info: &pypi.ReleaseInfo{Version: "0.0.1"}}
	agg := NewAggregator(c, registry, repos.NewRegistry(), nil, nil)

	if _, err := agg.Refresh(ctx, p, Options{Registry: true}); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	vs, _ := c.store.Versions(ctx, p.ID)
	if len(vs) != 1 {
		t.Fatalf("versions = %d, want 1", len(vs))
	}
	if vs[0].UploadTime == nil || !vs[0].UploadTime.Equal(now) {
		t.Errorf("UploadTime = %v, want fetch time %v", vs[0].UploadTime, now)
	}
}

func TestAggregator_Refresh_RepoMetadataFailureStillFetchesCommits(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c, _ := newTestCatalog(t, now)
	ctx := context.Background()

	p := createPackage(t, c, &store.Package{
		Title: "partial", Slug: "partial",
		RepoURL: "https://github.com/x/partial",
	})

	provider := &fakeProvider{
		metaErr: errors.New("rate limited"),
		commits: []store.Commit{{Hash: "c1", CommitDate: now}},
	}
	agg := NewAggregator(c, &fakeRegistry{}, repos.NewRegistry(provider), nil, nil)

	result, err := agg.Refresh(ctx, p, Options{Repo: true})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if result.Repo != PhaseFailed {
		t.Errorf("Repo phase = %s, want failed", result.Repo)
	}
	if result.CommitsCreated != 1 {
		t.Errorf("CommitsCreated = %d, want 1 despite metadata failure", result.CommitsCreated)
	}
}
