// Package repos abstracts source-repository hosting services behind a
// Provider interface and a static, ordered provider registry.
//
// A repository URL resolves to the first provider whose URL pattern matches
// it; a URL no provider recognizes yields ErrUnsupportedHost and the repo
// phase of a refresh is skipped.
package repos

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/pkgscout/pkgscout/pkg/store"
)

// ErrUnsupportedHost is returned when a repository URL matches no registered
// provider. The package keeps its prior stats.
var ErrUnsupportedHost = errors.New("unsupported repository host")

// CommitWriter persists commit records. The metadata catalog implements it so
// commit inserts carry their cache-invalidation side effects; tests supply
// fakes.
type CommitWriter interface {
	// AddCommit inserts a commit row, idempotently when the commit carries a
	// hash. Returns whether a new row was created.
	AddCommit(ctx context.Context, c *store.Commit) (bool, error)
}

// Provider is one source-hosting backend.
type Provider interface {
	Name() string

	// URLPattern matches the host prefix of repository URLs this provider
	// handles. Stripping the match from a repo URL yields "owner/repo".
	URLPattern() *regexp.Regexp

	// FetchMetadata fills watcher count, fork count and description on the
	// package. The package is not persisted; the caller saves it.
	FetchMetadata(ctx context.Context, p *store.Package) error

	// FetchCommits fetches recent commit history and writes each commit
	// through w. Repeated calls must not duplicate rows. Returns the number
	// of newly inserted commits.
	FetchCommits(ctx context.Context, w CommitWriter, p *store.Package) (int, error)
}

// Registry is an ordered list of providers checked in registration order.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a registry resolving against the given providers in
// order; first match wins.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// DefaultRegistry returns a registry with all built-in providers. Tokens may
// be empty for unauthenticated access.
func DefaultRegistry(githubToken, gitlabToken string) *Registry {
	return NewRegistry(
		NewGitHub(githubToken),
		NewGitLab(gitlabToken),
	)
}

// Resolve returns the first provider whose pattern matches repoURL, or
// ErrUnsupportedHost when none do.
func (r *Registry) Resolve(repoURL string) (Provider, error) {
	for _, p := range r.providers {
		if p.URLPattern().MatchString(repoURL) {
			return p, nil
		}
	}
	return nil, ErrUnsupportedHost
}

// Providers returns the registered providers in resolution order.
func (r *Registry) Providers() []Provider { return r.providers }

// Close closes every registered provider that holds resources.
func (r *Registry) Close() {
	for _, p := range r.providers {
		if c, ok := p.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

// RepoName strips the provider's host prefix from a repository URL, leaving
// the "owner/repo" path.
func RepoName(p Provider, repoURL string) string {
	name := p.URLPattern().ReplaceAllString(repoURL, "")
	name = strings.Trim(name, "/")
	return strings.TrimSuffix(name, ".git")
}

// splitOwnerRepo cuts an "owner/repo" path into its parts.
func splitOwnerRepo(name string) (owner, repo string, ok bool) {
	owner, repo, ok = strings.Cut(name, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", false
	}
	// Drop anything after the repo segment (tree/branch paths).
	if i := strings.Index(repo, "/"); i >= 0 {
		repo = repo[:i]
	}
	return owner, repo, true
}
