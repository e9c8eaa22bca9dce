package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkgscout/pkgscout/pkg/metadata"
	"github.com/pkgscout/pkgscout/pkg/store"
)

// serviceTestRepo is the repository GitHub uses when a hook's "Test service"
// button is pressed. It never corresponds to a tracked package.
const serviceTestRepo = "http://github.com/mojombo/grit"

type githubWebhookPayload struct {
	Zen        string `json:"zen"`
	HookID     int    `json:"hook_id"`
	Repository struct {
		URL string `json:"url"`
	} `json:"repository"`
}

// handleGitHubWebhook receives GitHub push hooks and refreshes the matching
// package's commit history. GitHub posts either raw JSON or a form-encoded
// "payload" field depending on the hook's content type.
func (s *Server) handleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := webhookBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	var payload githubWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	// Hook creation ping.
	if payload.Zen != "" {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, strconv.Itoa(payload.HookID))
		return
	}

	repoURL := payload.Repository.URL
	if repoURL == "" {
		writeError(w, http.StatusBadRequest, "missing repository url")
		return
	}
	if repoURL == serviceTestRepo {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "service test pass")
		return
	}

	p, err := s.catalog.PackageByRepoURL(ctx, repoURL)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}
	if err != nil {
		s.logger.Error("package lookup failed", "repo_url", repoURL, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	if _, err := s.aggregator.Refresh(ctx, p, metadata.Options{Repo: true}); err != nil {
		s.logger.Error("webhook refresh failed", "slug", p.Slug, "err", err)
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	if err := s.catalog.SavePackage(ctx, p); err != nil {
		s.logger.Error("package save failed", "slug", p.Slug, "err", err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// webhookBody extracts the hook payload from either delivery content type.
func webhookBody(r *http.Request) ([]byte, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return []byte(r.PostFormValue("payload")), nil
	}
	return io.ReadAll(io.LimitReader(r.Body, 1<<20))
}
