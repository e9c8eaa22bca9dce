package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/pkgscout/pkgscout/pkg/store"
)

// commitRecorder is a CommitWriter that dedups on hash like the real store.
type commitRecorder struct {
	commits []store.Commit
	seen    map[string]bool
}

func newCommitRecorder() *commitRecorder {
	return &commitRecorder{seen: make(map[string]bool)}
}

func (r *commitRecorder) AddCommit(ctx context.Context, c *store.Commit) (bool, error) {
	if c.Hash != "" && r.seen[c.Hash] {
		return false, nil
	}
	r.seen[c.Hash] = true
	r.commits = append(r.commits, *c)
	return true, nil
}

func TestRegistry_Resolve(t *testing.T) {
	r := DefaultRegistry("", "")

	tests := []struct {
		url      string
		provider string
		wantErr  bool
	}{
		{"https://github.com/django/django", "github", false},
		{"http://github.com/django/django", "github", false},
		{"https://gitlab.com/inkscape/inkscape", "gitlab", false},
		{"https://bitbucket.org/foo/bar", "", true},
		{"not-a-url", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		p, err := r.Resolve(tt.url)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedHost) {
				t.Errorf("Resolve(%q) err = %v, want ErrUnsupportedHost", tt.url, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", tt.url, err)
			continue
		}
		if p.Name() != tt.provider {
			t.Errorf("Resolve(%q) = %s, want %s", tt.url, p.Name(), tt.provider)
		}
	}
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	first := NewGitHub("")
	second := NewGitHubWithBaseURL("", "http://second.invalid")
	r := NewRegistry(first, second)

	p, err := r.Resolve("https://github.com/a/b")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p != Provider(first) {
		t.Error("Resolve did not return the first matching provider")
	}
}

func TestRepoName(t *testing.T) {
	g := NewGitHub("")

	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/django/django", "django/django"},
		{"https://github.com/django/django/", "django/django"},
		{"https://github.com/django/django.git", "django/django"},
		{"http://github.com/psf/requests", "psf/requests"},
	}

	for _, tt := range tests {
		if got := RepoName(g, tt.url); got != tt.want {
			t.Errorf("RepoName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestSplitOwnerRepo(t *testing.T) {
	tests := []struct {
		input       string
		owner, repo string
		ok          bool
	}{
		{"django/django", "django", "django", true},
		{"a/b/tree/main", "a", "b", true},
		{"justowner", "", "", false},
		{"/repo", "", "", false},
		{"owner/", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		owner, repo, ok := splitOwnerRepo(tt.input)
		if owner != tt.owner || repo != tt.repo || ok != tt.ok {
			t.Errorf("splitOwnerRepo(%q) = %q, %q, %v; want %q, %q, %v",
				tt.input, owner, repo, ok, tt.owner, tt.repo, tt.ok)
		}
	}
}
