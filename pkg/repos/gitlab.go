package repos

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/pkgscout/pkgscout/pkg/fetch"
	"github.com/pkgscout/pkgscout/pkg/store"
)

var gitlabURLPattern = regexp.MustCompile(`^https?://gitlab\.com/`)

// GitLab fetches repository stats and commit history from the GitLab
// projects API.
type GitLab struct {
	http    *fetch.Client
	baseURL string
}

// NewGitLab creates a GitLab provider. Pass an empty token for
// unauthenticated requests.
func NewGitLab(token string) *GitLab {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}
	return &GitLab{
		http:    fetch.NewClient(headers),
		baseURL: "https://gitlab.com",
	}
}

// NewGitLabWithBaseURL points the provider at a custom API root, used by
// tests.
func NewGitLabWithBaseURL(token, baseURL string) *GitLab {
	g := NewGitLab(token)
	g.baseURL = baseURL
	return g
}

func (g *GitLab) Name() string { return "gitlab" }

// Close releases the underlying HTTP client's resources.
func (g *GitLab) Close() { g.http.Close() }

func (g *GitLab) URLPattern() *regexp.Regexp { return gitlabURLPattern }

// projectPath is the URL-encoded "owner/repo" the projects API addresses
// projects by.
func (g *GitLab) projectPath(p *store.Package) (string, error) {
	name := RepoName(g, p.RepoURL)
	if _, _, ok := splitOwnerRepo(name); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedHost, p.RepoURL)
	}
	return url.PathEscape(name), nil
}

func (g *GitLab) FetchMetadata(ctx context.Context, p *store.Package) error {
	path, err := g.projectPath(p)
	if err != nil {
		return err
	}

	var data gitlabProject
	apiURL := fmt.Sprintf("%s/api/v4/projects/%s", g.baseURL, path)
	if err := g.http.GetJSON(ctx, apiURL, &data); err != nil {
		return fmt.Errorf("gitlab project %s: %w", path, err)
	}

	p.RepoWatchers = data.StarCount
	p.RepoForks = data.ForksCount
	p.RepoDescription = data.Description
	return nil
}

func (g *GitLab) FetchCommits(ctx context.Context, w CommitWriter, p *store.Package) (int, error) {
	path, err := g.projectPath(p)
	if err != nil {
		return 0, err
	}

	var data []gitlabCommit
	apiURL := fmt.Sprintf("%s/api/v4/projects/%s/repository/commits?per_page=100", g.baseURL, path)
	if err := g.http.GetJSON(ctx, apiURL, &data); err != nil {
		return 0, fmt.Errorf("gitlab commits %s: %w", path, err)
	}

	created := 0
	for _, c := range data {
		if c.CreatedAt.IsZero() {
			continue
		}
		inserted, err := w.AddCommit(ctx, &store.Commit{
			PackageID:  p.ID,
			CommitDate: c.CreatedAt,
			Hash:       c.ID,
		})
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}
	return created, nil
}

type gitlabProject struct {
	StarCount   int    `json:"star_count"`
	ForksCount  int    `json:"forks_count"`
	Description string `json:"description"`
}

type gitlabCommit struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Ensure GitLab implements Provider.
var _ Provider = (*GitLab)(nil)
