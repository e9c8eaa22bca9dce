// Package pypi fetches release metadata from the PyPI JSON API.
package pypi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkgscout/pkgscout/pkg/fetch"
)

// DefaultBaseURL is the production PyPI JSON endpoint root.
const DefaultBaseURL = "https://pypi.org/pypi"

// ErrNotFound is returned when a package has no presence in the registry.
// It is an expected outcome, not a failure: the refresh continues without
// registry data.
var ErrNotFound = errors.New("package not found in registry")

// ReleaseInfo is the normalized registry response for a package's current
// release.
type ReleaseInfo struct {
	Version           string
	Classifiers       []string
	RequiresPython    string
	License           string
	Downloads         int
	UploadTime        *time.Time
	DevelopmentStatus string // first "Development Status ::" classifier, "" if none
	SupportsPython3   bool   // from "Programming Language :: Python :: 3" classifiers
}

// Client fetches release data from the registry's JSON metadata endpoint.
// Safe for concurrent use.
type Client struct {
	http    *fetch.Client
	baseURL string
}

// NewClient creates a PyPI client against the production endpoint.
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL creates a PyPI client against a custom endpoint root,
// used by tests to point at an httptest server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		http:    fetch.NewClient(map[string]string{"Accept": "application/json"}),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Close releases the underlying HTTP client's resources.
func (c *Client) Close() { c.http.Close() }

// FetchReleaseData looks up a package by registry name and returns its
// normalized release info.
//
// Returns ErrNotFound on a 404 ("resource not found" is expected for
// packages absent from the registry) and fetch.ErrNetwork for anything else
// that went wrong on the wire; the caller logs the latter and continues the
// refresh.
func (c *Client) FetchReleaseData(ctx context.Context, name string) (*ReleaseInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty package name", ErrNotFound)
	}

	var resp apiResponse
	url := fmt.Sprintf("%s/%s/json", c.baseURL, name)
	if err := c.http.GetJSON(ctx, url, &resp); err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}

	info := &ReleaseInfo{
		Version:        resp.Info.Version,
		Classifiers:    resp.Info.Classifiers,
		RequiresPython: resp.Info.RequiresPython,
		License:        resp.Info.License,
	}

	for _, c := range resp.Info.Classifiers {
		if info.DevelopmentStatus == "" && strings.HasPrefix(c, "Development Status") {
			info.DevelopmentStatus = c
		}
		if strings.HasPrefix(c, "Programming Language :: Python :: 3") {
			info.SupportsPython3 = true
		}
	}

	// The first release file carries the canonical upload time; downloads
	// aggregate across all files of the release.
	files := resp.Releases[resp.Info.Version]
	if len(files) == 0 {
		files = resp.URLs
	}
	for i, f := range files {
		if f.Downloads > 0 {
			info.Downloads += f.Downloads
		}
		if i == 0 && f.UploadTime != "" {
			if t, err := parseUploadTime(f.UploadTime); err == nil {
				info.UploadTime = &t
			}
		}
	}

	return info, nil
}

// parseUploadTime accepts both timestamp layouts PyPI has used.
func parseUploadTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized upload time %q", s)
}

type apiResponse struct {
	Info     apiInfo                  `json:"info"`
	Releases map[string][]releaseFile `json:"releases"`
	URLs     []releaseFile            `json:"urls"`
}

type apiInfo struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	License        string   `json:"license"`
	Classifiers    []string `json:"classifiers"`
	RequiresPython string   `json:"requires_python"`
}

type releaseFile struct {
	Downloads  int    `json:"downloads"`
	UploadTime string `json:"upload_time"`
}
