package repos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkgscout/pkgscout/pkg/store"
)

func TestGitHub_FetchMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/django/django" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(githubRepo{
			Stars:       75000,
			Forks:       30000,
			Description: "The Web framework for perfectionists with deadlines.",
		})
	}))
	defer server.Close()

	g := NewGitHubWithBaseURL("", server.URL)
	p := &store.Package{RepoURL: "https://github.com/django/django"}

	if err := g.FetchMetadata(context.Background(), p); err != nil {
		t.Fatalf("FetchMetadata failed: %v", err)
	}
	if p.RepoWatchers != 75000 {
		t.Errorf("RepoWatchers = %d, want 75000", p.RepoWatchers)
	}
	if p.RepoForks != 30000 {
		t.Errorf("RepoForks = %d, want 30000", p.RepoForks)
	}
	if p.RepoDescription == "" {
		t.Error("RepoDescription not set")
	}
}

func TestGitHub_FetchCommits(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/django/django/commits" {
			http.NotFound(w, r)
			return
		}
		commits := []githubCommit{{SHA: "aaa"}, {SHA: "bbb"}, {SHA: ""}}
		commits[0].Commit.Author.Date = now
		commits[1].Commit.Committer.Date = now.Add(-time.Hour)
		// third commit has no dates at all and must be skipped
		json.NewEncoder(w).Encode(commits)
	}))
	defer server.Close()

	g := NewGitHubWithBaseURL("", server.URL)
	p := &store.Package{ID: "pkg-1", RepoURL: "https://github.com/django/django"}
	rec := newCommitRecorder()

	created, err := g.FetchCommits(context.Background(), rec, p)
	if err != nil {
		t.Fatalf("FetchCommits failed: %v", err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
	if len(rec.commits) != 2 {
		t.Fatalf("recorded %d commits, want 2", len(rec.commits))
	}
	if rec.commits[0].Hash != "aaa" || !rec.commits[0].CommitDate.Equal(now) {
		t.Errorf("first commit = %+v", rec.commits[0])
	}

	// A second fetch inserts nothing new.
	created, err = g.FetchCommits(context.Background(), rec, p)
	if err != nil {
		t.Fatalf("repeat FetchCommits failed: %v", err)
	}
	if created != 0 {
		t.Errorf("repeat created = %d, want 0", created)
	}
}

func TestGitHub_FetchMetadata_BadRepoURL(t *testing.T) {
	g := NewGitHubWithBaseURL("", "http://unused.invalid")
	p := &store.Package{RepoURL: "https://github.com/justowner"}
	if err := g.FetchMetadata(context.Background(), p); err == nil {
		t.Error("expected error for repo URL without owner/repo path")
	}
}
