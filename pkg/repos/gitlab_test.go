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

func TestGitLab_FetchMetadata(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(gitlabProject{
			StarCount:   3200,
			ForksCount:  870,
			Description: "Vector graphics editor",
		})
	}))
	defer server.Close()

	g := NewGitLabWithBaseURL("", server.URL)
	p := &store.Package{RepoURL: "https://gitlab.com/inkscape/inkscape"}

	if err := g.FetchMetadata(context.Background(), p); err != nil {
		t.Fatalf("FetchMetadata failed: %v", err)
	}
	if gotPath != "/api/v4/projects/inkscape%2Finkscape" {
		t.Errorf("request path = %q, want encoded project path", gotPath)
	}
	if p.RepoWatchers != 3200 || p.RepoForks != 870 {
		t.Errorf("stats = %d watchers %d forks", p.RepoWatchers, p.RepoForks)
	}
}

func TestGitLab_FetchCommits(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]gitlabCommit{
			{ID: "c1", CreatedAt: now},
			{ID: "c2", CreatedAt: now.Add(-2 * time.Hour)},
			{ID: "c3"}, // no timestamp, skipped
		})
	}))
	defer server.Close()

	g := NewGitLabWithBaseURL("", server.URL)
	p := &store.Package{ID: "pkg-2", RepoURL: "https://gitlab.com/inkscape/inkscape"}
	rec := newCommitRecorder()

	created, err := g.FetchCommits(context.Background(), rec, p)
	if err != nil {
		t.Fatalf("FetchCommits failed: %v", err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
}
