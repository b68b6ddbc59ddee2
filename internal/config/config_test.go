package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/jonesrussell/north-cloud/article-service/infrastructure/config"
	"github.com/jonesrussell/north-cloud/article-service/internal/config"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	for _, name := range []string{
		"ARTICLE_SERVICE_PORT", "ARTICLE_STORE_DRIVER", "REDIS_ENABLED",
		"REDIS_ADDRESS", "FILTER_CASE_SENSITIVE", "POSTGRES_ARTICLES_HOST",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "article-service", cfg.Service.Name)
	assert.Equal(t, 8080, cfg.Service.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Filter.CaseSensitive)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, time.Hour, cfg.Database.ConnectionMaxLifetime)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ARTICLE_SERVICE_PORT", "9001")
	t.Setenv("FILTER_CASE_SENSITIVE", "true")
	t.Setenv("REDIS_ADDRESS", "redis:6379")

	path := writeConfig(t, `
service:
  port: 8500
store:
  driver: postgres
database:
  host: db
  database: articles_test
redis:
  enabled: true
  address: localhost:6380
  db: 2
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Service.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.True(t, cfg.Filter.CaseSensitive)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	isolateEnv(t)

	_, err := config.Load(writeConfig(t, "store:\n  driver: sqlite\n"))
	require.Error(t, err)

	var vErr *infraconfig.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "store.driver", vErr.Field)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Config {
		return &config.Config{
			Service:  config.ServiceConfig{Port: 8080},
			Store:    config.StoreConfig{Driver: "postgres"},
			Database: config.DatabaseConfig{Host: "db", Port: 5432, Database: "articles"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"bad port", func(c *config.Config) { c.Service.Port = 70000 }, "service.port"},
		{"postgres without host", func(c *config.Config) { c.Database.Host = "" }, "database.host"},
		{"memory ignores database", func(c *config.Config) {
			c.Store.Driver = "memory"
			c.Database = config.DatabaseConfig{}
		}, ""},
		{"redis without address", func(c *config.Config) { c.Redis.Enabled = true }, "redis.address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *infraconfig.ValidationError
			require.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestDatabaseConfig_URL(t *testing.T) {
	t.Parallel()

	d := config.DatabaseConfig{
		Host: "db", Port: 5432, User: "app", Password: "p@ss", Database: "articles", SSLMode: "disable",
	}

	assert.Equal(t, "postgres://app:p%40ss@db:5432/articles?sslmode=disable", d.URL())
	assert.Equal(t, "host=db port=5432 user=app password=p@ss dbname=articles sslmode=disable", d.DSN())
}
