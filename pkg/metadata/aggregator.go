package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pkgscout/pkgscout/pkg/license"
	"github.com/pkgscout/pkgscout/pkg/pypi"
	"github.com/pkgscout/pkgscout/pkg/repos"
	"github.com/pkgscout/pkgscout/pkg/store"
)

// PhaseStatus describes the outcome of one refresh phase.
type PhaseStatus string

const (
	PhaseOK          PhaseStatus = "ok"
	PhaseNotFound    PhaseStatus = "not-found"
	PhaseSkipped     PhaseStatus = "skipped"
	PhaseUnsupported PhaseStatus = "unsupported"
	PhaseFailed      PhaseStatus = "failed"
)

// Result reports what each phase of a refresh did. A refresh succeeds as a
// whole even when individual phases are skipped or fail; callers inspect the
// result when they care.
type Result struct {
	Registry       PhaseStatus
	Repo           PhaseStatus
	CommitsCreated int
}

// RegistryClient fetches release metadata from a package index.
type RegistryClient interface {
	FetchReleaseData(ctx context.Context, name string) (*pypi.ReleaseInfo, error)
}

// Options narrows a refresh to a subset of phases.
type Options struct {
	// Registry enables the package-index phase.
	Registry bool
	// Repo enables the repository metadata and commit phases.
	Repo bool
}

// RefreshAll enables every phase.
func RefreshAll() Options { return Options{Registry: true, Repo: true} }

// Aggregator pulls metadata from the package index and the repository host
// into the catalog. It mutates the package in place and records versions and
// commits through the catalog, but never persists the package itself; callers
// decide when to SavePackage.
type Aggregator struct {
	catalog  *Catalog
	registry RegistryClient
	repos    *repos.Registry
	hooks    Hooks
	logger   *log.Logger
}

// NewAggregator wires an aggregator. A nil hooks argument installs the no-op
// implementation; a nil logger falls back to the catalog's.
func NewAggregator(catalog *Catalog, registry RegistryClient, providers *repos.Registry, hooks Hooks, logger *log.Logger) *Aggregator {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	if logger == nil {
		logger = catalog.logger
	}
	return &Aggregator{
		catalog:  catalog,
		registry: registry,
		repos:    providers,
		hooks:    hooks,
		logger:   logger,
	}
}

// Refresh runs the enabled phases against the package. The returned error is
// non-nil only for hard failures, such as the backing store rejecting a
// write; unreachable upstreams degrade to a failed phase status instead.
func (a *Aggregator) Refresh(ctx context.Context, p *store.Package, opts Options) (Result, error) {
	a.hooks.OnRefreshStart(ctx, p)

	result := Result{Registry: PhaseSkipped, Repo: PhaseSkipped}

	if opts.Registry {
		status, err := a.refreshRegistry(ctx, p)
		result.Registry = status
		if err != nil {
			return result, err
		}
	}

	if opts.Repo {
		status, created, err := a.refreshRepo(ctx, p)
		result.Repo = status
		result.CommitsCreated = created
		if err != nil {
			return result, err
		}
	}

	fetched := a.catalog.now()
	p.LastFetched = &fetched
	a.hooks.OnRefreshComplete(ctx, p, result)
	return result, nil
}

func (a *Aggregator) refreshRegistry(ctx context.Context, p *store.Package) (PhaseStatus, error) {
	name := p.PyPIName()
	if name == "" {
		return PhaseSkipped, nil
	}

	info, err := a.registry.FetchReleaseData(ctx, name)
	if errors.Is(err, pypi.ErrNotFound) {
		// Packages routinely point at index entries that were renamed or
		// deleted; absence is not an error worth surfacing.
		return PhaseNotFound, nil
	}
	if err != nil {
		a.logger.Error("registry fetch failed", "package", p.Slug, "name", name, "err", err)
		return PhaseFailed, nil
	}

	p.PyPIDownloads = info.Downloads
	p.PyPIClassifiers = info.Classifiers
	p.PyPIRequiresPython = info.RequiresPython
	p.PyPILicense = info.License

	py3 := info.SupportsPython3
	if !py3 && info.RequiresPython != "" {
		py3 = pypi.SpecifierAdmits(info.RequiresPython, "3")
	}
	p.SupportsPython3 = &py3

	if info.Version != "" {
		uploaded := info.UploadTime
		if uploaded == nil {
			// Index entries without release files carry no timestamp;
			// fetch time is the closest available approximation.
			now := a.catalog.now()
			uploaded = &now
		}
		v := &store.Version{
			PackageID:         p.ID,
			Number:            info.Version,
			License:           info.License,
			Licenses:          license.FromClassifiers(info.Classifiers),
			UploadTime:        uploaded,
			DevelopmentStatus: store.StatusFromClassifier(info.DevelopmentStatus),
			SupportsPython3:   py3,
		}
		if _, err := a.catalog.SaveVersion(ctx, v); err != nil {
			return PhaseFailed, fmt.Errorf("saving version %s: %w", info.Version, err)
		}
	}

	return PhaseOK, nil
}

func (a *Aggregator) refreshRepo(ctx context.Context, p *store.Package) (PhaseStatus, int, error) {
	provider, err := a.repos.Resolve(p.RepoURL)
	if errors.Is(err, repos.ErrUnsupportedHost) {
		return PhaseUnsupported, 0, nil
	}
	if err != nil {
		return PhaseFailed, 0, err
	}

	status := PhaseOK
	if err := provider.FetchMetadata(ctx, p); err != nil {
		a.logger.Error("repo metadata fetch failed",
			"package", p.Slug, "provider", provider.Name(), "err", err)
		status = PhaseFailed
	}

	created, err := provider.FetchCommits(ctx, a.catalog, p)
	if err != nil {
		a.logger.Error("repo commit fetch failed",
			"package", p.Slug, "provider", provider.Name(), "err", err)
		status = PhaseFailed
	}
	if created > 0 {
		a.hooks.OnCommitsFetched(ctx, p, created)
	}

	return status, created, nil
}
