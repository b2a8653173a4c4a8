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
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: sqlite
  path: /tmp/approval.db
approval:
  cache_ttl: 30s
dispatch:
  upstream_url: http://erp:8069
  headers:
    X-Upstream-Key: secret
`)
	cfg, err := Load("test", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "/tmp/approval.db", cfg.Database.GetDSN())
	assert.Equal(t, 30*time.Second, cfg.Approval.CacheTTLDuration())
	assert.Equal(t, "./config/registry.yaml", cfg.Approval.RegistryPath)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "http://erp:8069", cfg.Dispatch.UpstreamURL)
	assert.Equal(t, 15, cfg.Dispatch.TimeoutSeconds)
	// viper 将键名转为小写，请求头名称不区分大小写
	assert.Equal(t, map[string]string{"x-upstream-key": "secret"}, cfg.Dispatch.Headers)
	assert.Same(t, cfg, Get())
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("APP_SERVER_PORT", "7070")

	cfg, err := Load("test", path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestCacheTTLFallback(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ApprovalConfig{CacheTTL: "bogus"}.CacheTTLDuration())
	assert.Equal(t, 5*time.Minute, ApprovalConfig{}.CacheTTLDuration())
}

func TestPostgresDSN(t *testing.T) {
	c := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", DBName: "approval", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=approval sslmode=disable", c.GetDSN())
}
