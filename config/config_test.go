package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithProjectFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-project", cfg.Project.ID)
	assert.Equal(t, "global", cfg.SearchLocation())
	assert.Equal(t, 10, cfg.Search.PageSize)
	assert.Equal(t, "memory", cfg.Session.Store)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
project:
  id: file-project
  app_location: us
search:
  page_size: 25
session:
  store: redis
  redis:
    addr: localhost:6379
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-project", cfg.Project.ID)
	assert.Equal(t, "us", cfg.SearchLocation())
	assert.Equal(t, 25, cfg.Search.PageSize)
	assert.Equal(t, "redis", cfg.Session.Store)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/no/such/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file failed")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) { c.Project.ID = "p" },
		},
		{
			name:    "missing project id",
			mutate:  func(c *Config) {},
			wantErr: "project id is required",
		},
		{
			name: "negative page size",
			mutate: func(c *Config) {
				c.Project.ID = "p"
				c.Search.PageSize = -1
			},
			wantErr: "page size must not be negative",
		},
		{
			name: "bad query expansion",
			mutate: func(c *Config) {
				c.Project.ID = "p"
				c.Search.QueryExpansion = "SOMETIMES"
			},
			wantErr: "query expansion must be AUTO or DISABLED",
		},
		{
			name: "redis store without addr",
			mutate: func(c *Config) {
				c.Project.ID = "p"
				c.Session.Store = "redis"
			},
			wantErr: "requires session.redis.addr",
		},
		{
			name: "unknown store",
			mutate: func(c *Config) {
				c.Project.ID = "p"
				c.Session.Store = "dynamo"
			},
			wantErr: "session store must be memory or redis",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
