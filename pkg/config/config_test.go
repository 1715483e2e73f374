package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assessment.PageSize != 5 {
		t.Errorf("expected default page size 5, got %d", cfg.Assessment.PageSize)
	}
	if cfg.Server.Timeout != 30 {
		t.Errorf("expected default timeout 30, got %d", cfg.Server.Timeout)
	}
	if cfg.Server.URL != "" {
		t.Errorf("expected no default server, got %q", cfg.Server.URL)
	}
	if !strings.HasSuffix(cfg.Cache.Dir, filepath.Join(".cache", "eqcoach")) {
		t.Errorf("unexpected cache dir %q", cfg.Cache.Dir)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		missing bool
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "non-existent file returns defaults",
			missing: true,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Assessment.PageSize != 5 {
					t.Errorf("expected default page size, got %d", cfg.Assessment.PageSize)
				}
			},
		},
		{
			name: "valid YAML overrides defaults",
			yaml: `
server:
  url: "http://localhost:5000"
  token: abc
  timeout: 5
assessment:
  page_size: 4
  questionnaire: ./custom.yaml
cache:
  dir: /tmp/eq
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.URL != "http://localhost:5000" {
					t.Errorf("expected server url, got %q", cfg.Server.URL)
				}
				if cfg.Server.Token != "abc" {
					t.Errorf("expected token abc, got %q", cfg.Server.Token)
				}
				if cfg.Server.Timeout != 5 {
					t.Errorf("expected timeout 5, got %d", cfg.Server.Timeout)
				}
				if cfg.Assessment.PageSize != 4 {
					t.Errorf("expected page size 4, got %d", cfg.Assessment.PageSize)
				}
				if cfg.Assessment.Questionnaire != "./custom.yaml" {
					t.Errorf("expected questionnaire override, got %q", cfg.Assessment.Questionnaire)
				}
				if cfg.Cache.Dir != "/tmp/eq" {
					t.Errorf("expected cache dir /tmp/eq, got %q", cfg.Cache.Dir)
				}
			},
		},
		{
			name: "zero timeout falls back to default",
			yaml: "server:\n  timeout: 0\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Timeout != 30 {
					t.Errorf("expected timeout 30, got %d", cfg.Server.Timeout)
				}
			},
		},
		{
			name:    "non-positive page size is rejected",
			yaml:    "assessment:\n  page_size: 0\n",
			wantErr: true,
		},
		{
			name:    "invalid YAML returns error",
			yaml:    "{{invalid yaml",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")

			if !tc.missing {
				if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
					t.Fatalf("write test config: %v", err)
				}
			}

			cfg, err := Load(path)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("found in parent directory", func(t *testing.T) {
		root := t.TempDir()
		configDir := filepath.Join(root, ".eqcoach")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			t.Fatalf("create config dir: %v", err)
		}
		configPath := filepath.Join(configDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		sub := filepath.Join(root, "a", "b")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("create sub: %v", err)
		}

		if got := FindConfigFile(sub); got != configPath {
			t.Errorf("FindConfigFile = %q, want %q", got, configPath)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if got := FindConfigFile(t.TempDir()); got != "" {
			t.Errorf("FindConfigFile = %q, want empty", got)
		}
	})
}
