package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_FetchReleaseData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/flask/json" {
			http.NotFound(w, r)
			return
		}
		resp := apiResponse{
			Info: apiInfo{
				Name:           "Flask",
				Version:        "2.0.1",
				License:        "BSD-3-Clause",
				RequiresPython: ">=3.6",
				Classifiers: []string{
					"Development Status :: 5 - Production/Stable",
					"License :: OSI Approved :: BSD License",
					"Programming Language :: Python :: 3",
				},
			},
			Releases: map[string][]releaseFile{
				"2.0.1": {
					{Downloads: 100, UploadTime: "2021-05-21T19:40:05"},
					{Downloads: 50, UploadTime: "2021-05-21T19:41:00"},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)

	info, err := c.FetchReleaseData(context.Background(), "flask")
	if err != nil {
		t.Fatalf("FetchReleaseData failed: %v", err)
	}

	if info.Version != "2.0.1" {
		t.Errorf("Version = %q, want 2.0.1", info.Version)
	}
	if info.License != "BSD-3-Clause" {
		t.Errorf("License = %q", info.License)
	}
	if info.Downloads != 150 {
		t.Errorf("Downloads = %d, want 150", info.Downloads)
	}
	if !info.SupportsPython3 {
		t.Error("SupportsPython3 = false, want true")
	}
	if info.DevelopmentStatus != "Development Status :: 5 - Production/Stable" {
		t.Errorf("DevelopmentStatus = %q", info.DevelopmentStatus)
	}
	want := time.Date(2021, 5, 21, 19, 40, 5, 0, time.UTC)
	if info.UploadTime == nil || !info.UploadTime.Equal(want) {
		t.Errorf("UploadTime = %v, want %v", info.UploadTime, want)
	}
}

func TestClient_FetchReleaseData_URLsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := apiResponse{
			Info: apiInfo{Name: "newpkg", Version: "0.1.0"},
			URLs: []releaseFile{{Downloads: 7, UploadTime: "2025-01-02T03:04:05Z"}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	info, err := c.FetchReleaseData(context.Background(), "newpkg")
	if err != nil {
		t.Fatalf("FetchReleaseData failed: %v", err)
	}
	if info.Downloads != 7 {
		t.Errorf("Downloads = %d, want 7", info.Downloads)
	}
	if info.UploadTime == nil {
		t.Error("UploadTime = nil, want parsed RFC3339 value")
	}
}

func TestClient_FetchReleaseData_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	_, err := c.FetchReleaseData(context.Background(), "missing-pkg")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_FetchReleaseData_EmptyName(t *testing.T) {
	c := NewClientWithBaseURL("http://unused.invalid")
	if _, err := c.FetchReleaseData(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty name, got %v", err)
	}
}

func TestParseUploadTime(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2021-05-21T19:40:05", true},
		{"2025-01-02T03:04:05Z", true},
		{"yesterday", false},
		{"", false},
	}
	for _, tt := range tests {
		_, err := parseUploadTime(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("parseUploadTime(%q) err = %v, want ok=%v", tt.input, err, tt.ok)
		}
	}
}
