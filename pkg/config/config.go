// Package config handles loading and managing eqcoach CLI configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the eqcoach CLI.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Assessment AssessmentConfig `yaml:"assessment"`
	Cache      CacheConfig      `yaml:"cache"`
}

// ServerConfig points the CLI at a backend.
type ServerConfig struct {
	URL     string `yaml:"url"`     // empty means score locally
	Token   string `yaml:"token"`   // bearer credential from the identity provider
	Timeout int    `yaml:"timeout"` // seconds
}

// AssessmentConfig controls how the questionnaire is presented.
type AssessmentConfig struct {
	PageSize      int    `yaml:"page_size"`
	Questionnaire string `yaml:"questionnaire"` // optional override document
}

// CacheConfig controls where the last result is kept.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Timeout: 30,
		},
		Assessment: AssessmentConfig{
			PageSize: 5,
		},
		Cache: CacheConfig{
			Dir: CacheDir(),
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Assessment.PageSize <= 0 {
		return nil, fmt.Errorf("assessment.page_size must be positive, got %d", cfg.Assessment.PageSize)
	}
	if cfg.Server.Timeout <= 0 {
		cfg.Server.Timeout = 30
	}

	return cfg, nil
}

// FindConfigFile looks for .eqcoach/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".eqcoach", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the per-user cache directory, ~/.cache/eqcoach.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "eqcoach")
}
