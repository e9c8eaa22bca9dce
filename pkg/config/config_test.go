package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkgscout.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("default store backend = %q", cfg.Store.Backend)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("default cache backend = %q", cfg.Cache.Backend)
	}
	if cfg.Server.Listen == "" {
		t.Error("default listen address empty")
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[server]
listen = ":9000"

[store]
backend = "mongo"
uri = "mongodb://localhost:27017"
database = "catalog"

[cache]
backend = "redis"
addr = "localhost:6379"
ttl = "15m"

[tokens]
github = "file-token"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Listen != ":9000" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.URI == "" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Cache.TTL.Duration != 15*time.Minute {
		t.Errorf("TTL = %v, want 15m", cfg.Cache.TTL.Duration)
	}
	if cfg.Tokens.GitHub != "file-token" {
		t.Errorf("GitHub token = %q", cfg.Tokens.GitHub)
	}
}

func TestLoad_EnvOverridesTokens(t *testing.T) {
	path := writeConfig(t, `
[tokens]
github = "file-token"
`)
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("GITLAB_TOKEN", "env-gitlab")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tokens.GitHub != "env-token" {
		t.Errorf("GitHub token = %q, want env override", cfg.Tokens.GitHub)
	}
	if cfg.Tokens.GitLab != "env-gitlab" {
		t.Errorf("GitLab token = %q, want env override", cfg.Tokens.GitLab)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown store backend", "[store]\nbackend = \"etcd\"\n"},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n"},
		{"unknown cache backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"file cache without dir", "[cache]\nbackend = \"file\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/no/such/pkgscout.toml"); err == nil {
		t.Error("Load accepted missing file")
	}
}
