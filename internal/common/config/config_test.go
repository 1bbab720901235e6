package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: test-agent\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-agent", cfg.App.Name)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL())
	assert.Equal(t, time.Hour, cfg.Session.SweepInterval())
	assert.Equal(t, 100, cfg.Session.MaxHistory)
	assert.Equal(t, 50, cfg.Session.MaxSearchHistory)
	assert.Equal(t, CatalogMemory, cfg.Catalog.Source)
	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDRESS", "cache:6379")
	t.Setenv("CATALOG_SOURCE", "elasticsearch")
	t.Setenv("ES_HOST", "http://search:9200")

	path := writeConfig(t, `
database:
  elasticsearch:
    url: ${ES_HOST}
session:
  store: memory
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, "cache:6379", cfg.Database.Redis.Address)
	assert.Equal(t, CatalogElasticsearch, cfg.Catalog.Source)
	assert.Equal(t, "http://search:9200", cfg.Database.Elasticsearch.GetURL())
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "redis store without address",
			body:    "session:\n  store: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "file catalog without path",
			body:    "catalog:\n  source: file\n",
			wantErr: "catalog.file_path",
		},
		{
			name:    "postgres catalog without host",
			body:    "catalog:\n  source: postgres\n",
			wantErr: "database.postgres",
		},
		{
			name:    "unknown store",
			body:    "session:\n  store: etcd\n",
			wantErr: "unknown session.store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"rank-products": {Enabled: false, MaxJobsActive: 2, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "rank-products"))
	assert.True(t, IsWorkerEnabled(cfg, "classify-intent"))

	def := GetWorkerConfig(cfg, "classify-intent")
	assert.Equal(t, 5, def.MaxJobsActive)
	assert.Equal(t, 30*time.Second, GetDuration(def.Timeout))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", p.GetDSN())
}
