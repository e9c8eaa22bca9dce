// Package config loads pkgscout configuration from a TOML file, with
// environment variables overriding credentials so tokens can stay out of
// files checked into version control.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full pkgscout configuration.
type Config struct {
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
	Cache  Cache  `toml:"cache"`
	Tokens Tokens `toml:"tokens"`
}

// Server configures the HTTP trigger surface.
type Server struct {
	// Listen is the address the HTTP server binds to.
	Listen string `toml:"listen"`
}

// Store selects and configures the persistence backend.
type Store struct {
	// Backend is "memory" or "mongo".
	Backend string `toml:"backend"`

	// URI is the MongoDB connection string, used when Backend is "mongo".
	URI string `toml:"uri"`

	// Database is the MongoDB database name.
	Database string `toml:"database"`
}

// Cache selects and configures the derived-value cache backend.
type Cache struct {
	// Backend is "memory", "redis", "file", or "none".
	Backend string `toml:"backend"`

	// Addr is the Redis address, used when Backend is "redis".
	Addr string `toml:"addr"`

	// Dir is the cache directory, used when Backend is "file".
	Dir string `toml:"dir"`

	// TTL bounds how long derived values live before recomputation.
	// Zero means entries live until invalidated.
	TTL Duration `toml:"ttl"`
}

// Duration decodes TOML duration strings such as "15m" or "1h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Tokens holds API credentials for repository hosts.
type Tokens struct {
	GitHub string `toml:"github"`
	GitLab string `toml:"gitlab"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: Server{Listen: ":8687"},
		Store:  Store{Backend: "memory", Database: "pkgscout"},
		Cache:  Cache{Backend: "memory"},
	}
}

// Load reads the TOML file at path, starting from defaults. An empty path
// returns the defaults untouched. GITHUB_TOKEN and GITLAB_TOKEN environment
// variables override the file's tokens either way.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		cfg.Tokens.GitHub = tok
	}
	if tok := os.Getenv("GITLAB_TOKEN"); tok != "" {
		cfg.Tokens.GitLab = tok
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "memory":
	case "mongo":
		if c.Store.URI == "" {
			return fmt.Errorf("store backend %q requires a uri", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.Addr == "" {
			return fmt.Errorf("cache backend %q requires an addr", c.Cache.Backend)
		}
	case "file":
		if c.Cache.Dir == "" {
			return fmt.Errorf("cache backend %q requires a dir", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
