// Package file loads promptrec configuration from a TOML file with
// environment overrides. A .env file in the working directory is honoured
// so remote credentials stay out of the config file.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Default locations relative to the user home directory.
const (
	DefaultConfigDir  = ".promptrec"
	DefaultConfigFile = "config.toml"
)

// Config is the full promptrec configuration.
type Config struct {
	Remote    RemoteConfig    `toml:"remote"`
	Store     StoreConfig     `toml:"store"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Data      DataConfig      `toml:"data"`
}

// RemoteConfig configures the primary store backend.
// Both URL and Key must be set for the remote backend to be considered.
type RemoteConfig struct {
	URL string `toml:"url"`
	Key string `toml:"key"`
}

// StoreConfig configures the local fallback store.
type StoreConfig struct {
	// Path is the prompts JSON file. Empty means the default under the
	// config directory.
	Path string `toml:"path"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// Provider selects the adapter: "openai", "ollama" or "" (disabled).
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// DataConfig configures derived data storage (the embedding cache).
type DataConfig struct {
	Dir string `toml:"dir"`
}

// Load reads configuration from the given TOML file path. An empty path
// means ~/.promptrec/config.toml; a missing file yields defaults.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env file is the normal case.
	_ = godotenv.Load()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables on top of file values.
// SUPABASE_* names are accepted for compatibility with existing setups.
func (c *Config) applyEnv() {
	setIfPresent(&c.Remote.URL, "PROMPTREC_REMOTE_URL", "SUPABASE_URL")
	setIfPresent(&c.Remote.Key, "PROMPTREC_REMOTE_KEY", "SUPABASE_KEY")
	setIfPresent(&c.Store.Path, "PROMPTREC_STORE_PATH")
	setIfPresent(&c.Data.Dir, "PROMPTREC_DATA_DIR")
	setIfPresent(&c.Embedding.Provider, "PROMPTREC_EMBEDDING_PROVIDER")
	setIfPresent(&c.Embedding.Model, "PROMPTREC_EMBEDDING_MODEL")
	setIfPresent(&c.Embedding.APIKey, "PROMPTREC_EMBEDDING_API_KEY", "OPENAI_API_KEY")
	setIfPresent(&c.Embedding.BaseURL, "PROMPTREC_EMBEDDING_BASE_URL")
}

func setIfPresent(dst *string, names ...string) {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			*dst = v
			return
		}
	}
}
