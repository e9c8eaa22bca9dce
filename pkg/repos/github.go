package repos

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/pkgscout/pkgscout/pkg/fetch"
	"github.com/pkgscout/pkgscout/pkg/store"
)

var githubURLPattern = regexp.MustCompile(`^https?://github\.com/`)

// GitHub fetches repository stats and commit history from the GitHub REST
// API. Safe for concurrent use.
type GitHub struct {
	http    *fetch.Client
	baseURL string
}

// NewGitHub creates a GitHub provider. Pass an empty token for
// unauthenticated requests (lower rate limits).
func NewGitHub(token string) *GitHub {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &GitHub{
		http:    fetch.NewClient(headers),
		baseURL: "https://api.github.com",
	}
}

// NewGitHubWithBaseURL points the provider at a custom API root, used by
// tests.
func NewGitHubWithBaseURL(token, baseURL string) *GitHub {
	g := NewGitHub(token)
	g.baseURL = baseURL
	return g
}

func (g *GitHub) Name() string { return "github" }

// Close releases the underlying HTTP client's resources.
func (g *GitHub) Close() { g.http.Close() }

func (g *GitHub) URLPattern() *regexp.Regexp { return githubURLPattern }

func (g *GitHub) FetchMetadata(ctx context.Context, p *store.Package) error {
	owner, repo, ok := splitOwnerRepo(RepoName(g, p.RepoURL))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedHost, p.RepoURL)
	}

	var data githubRepo
	url := fmt.Sprintf("%s/repos/%s/%s", g.baseURL, owner, repo)
	if err := g.http.GetJSON(ctx, url, &data); err != nil {
		return fmt.Errorf("github repo %s/%s: %w", owner, repo, err)
	}

	p.RepoWatchers = data.Stars
	p.RepoForks = data.Forks
	p.RepoDescription = data.Description
	return nil
}

func (g *GitHub) FetchCommits(ctx context.Context, w CommitWriter, p *store.Package) (int, error) {
	owner, repo, ok := splitOwnerRepo(RepoName(g, p.RepoURL))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedHost, p.RepoURL)
	}

	var data []githubCommit
	url := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=100", g.baseURL, owner, repo)
	if err := g.http.GetJSON(ctx, url, &data); err != nil {
		return 0, fmt.Errorf("github commits %s/%s: %w", owner, repo, err)
	}

	created := 0
	for _, c := range data {
		when := c.Commit.Author.Date
		if when.IsZero() {
			when = c.Commit.Committer.Date
		}
		if when.IsZero() {
			continue
		}
		inserted, err := w.AddCommit(ctx, &store.Commit{
			PackageID:  p.ID,
			CommitDate: when,
			Hash:       c.SHA,
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

type githubRepo struct {
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	Description string `json:"description"`
}

type githubCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Date time.Time `json:"date"`
		} `json:"author"`
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// Ensure GitHub implements Provider.
var _ Provider = (*GitHub)(nil)
