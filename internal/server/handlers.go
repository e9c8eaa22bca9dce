package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkgscout/pkgscout/pkg/metadata"
	"github.com/pkgscout/pkgscout/pkg/store"
)

// packageDetail is the read model for a single package, combining stored
// fields with derived values computed through the catalog.
type packageDetail struct {
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	RepoURL         string     `json:"repo_url"`
	RepoDescription string     `json:"repo_description,omitempty"`
	RepoWatchers    int        `json:"repo_watchers"`
	RepoForks       int        `json:"repo_forks"`
	PyPIURL         string     `json:"pypi_url,omitempty"`
	PyPIVersion     string     `json:"pypi_version,omitempty"`
	PyPIDownloads   int        `json:"pypi_downloads"`
	SupportsPython3 *bool      `json:"supports_python3,omitempty"`
	Score           int        `json:"score"`
	LastUpdated     *time.Time `json:"last_updated,omitempty"`
	LastReleased    string     `json:"last_released,omitempty"`
	DevStatus       string     `json:"development_status,omitempty"`
	CommitsOver52   []int      `json:"commits_over_52"`
	Deprecated      bool       `json:"deprecated"`
	LastFetched     *time.Time `json:"last_fetched,omitempty"`
}

func (s *Server) handlePackageDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	p, err := s.catalog.PackageBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}
	if err != nil {
		s.logger.Error("package lookup failed", "slug", slug, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	detail := packageDetail{
		Slug:            p.Slug,
		Title:           p.Title,
		RepoURL:         p.RepoURL,
		RepoDescription: p.RepoDescription,
		RepoWatchers:    p.RepoWatchers,
		RepoForks:       p.RepoForks,
		PyPIURL:         p.PyPIURL,
		PyPIDownloads:   p.PyPIDownloads,
		SupportsPython3: p.SupportsPython3,
		Score:           p.Score,
		Deprecated:      p.IsDeprecated(),
		LastFetched:     p.LastFetched,
	}

	if v, err := s.catalog.PyPIVersion(ctx, p); err == nil {
		detail.PyPIVersion = v
	}
	if t, err := s.catalog.LastUpdated(ctx, p); err == nil {
		detail.LastUpdated = t
	}
	if rel, err := s.catalog.LastReleased(ctx, p); err == nil && rel != nil {
		detail.LastReleased = rel.Number
		detail.DevStatus = rel.DevelopmentStatus.String()
	}
	if buckets, err := s.catalog.CommitsOver52Listed(ctx, p); err == nil {
		detail.CommitsOver52 = buckets
	}

	writeJSON(w, http.StatusOK, detail)
}

// refreshResponse acknowledges a refresh. Partial upstream failures still
// acknowledge; the phase fields say what actually happened.
type refreshResponse struct {
	Slug     string `json:"slug"`
	Status   string `json:"status"`
	Registry string `json:"registry"`
	Repo     string `json:"repo"`
	Commits  int    `json:"commits_created"`
	Score    int    `json:"score"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	p, err := s.catalog.PackageBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}
	if err != nil {
		s.logger.Error("package lookup failed", "slug", slug, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	result, err := s.aggregator.Refresh(ctx, p, metadata.RefreshAll())
	if err != nil {
		s.logger.Error("refresh failed", "slug", slug, "err", err)
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	if err := s.catalog.SavePackage(ctx, p); err != nil {
		s.logger.Error("package save failed", "slug", slug, "err", err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Slug:     p.Slug,
		Status:   "updated",
		Registry: string(result.Registry),
		Repo:     string(result.Repo),
		Commits:  result.CommitsCreated,
		Score:    p.Score,
	})
}
