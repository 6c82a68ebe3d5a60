package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func validConfig() Config {
	return Config{
		App: AppConfig{Env: "local", Port: 8080},
		DB:  DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "calls"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV is required")
	assert.Contains(t, err.Error(), "DB_HOST is required")
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_SSLMODE")
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := validConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, "disable", c.DB.SSLMode)
	assert.Equal(t, DefaultDedupTTL, c.Dedup.TTL)
	assert.Equal(t, DefaultRedisPool, c.Redis.PoolSize)
	assert.Equal(t, DefaultRedisTimeout, c.Redis.Timeout)
	assert.Equal(t, int64(DefaultMaxBodyBytes), c.Webhook.MaxBodyBytes)
	assert.False(t, c.RedisEnabled())
	assert.False(t, c.NATSEnabled())
}

func TestValidate_RedisPortCheckedOnlyWhenEnabled(t *testing.T) {
	c := validConfig()
	c.Redis.Port = 0
	require.NoError(t, c.Validate())

	c.Redis.Host = "cache"
	assert.Error(t, c.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_NAME", "calls")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("NATS_URL", "nats://bus:4222")
	t.Setenv("DEDUP_TTL", "2h")
	t.Setenv("REDIS_TIMEOUT", "250ms")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, 9090, c.App.Port)
	assert.Equal(t, ":9090", c.HTTPAddr())
	assert.Equal(t, 5432, c.DB.Port)
	assert.Equal(t, "cache:6379", c.RedisAddr())
	assert.Equal(t, DefaultNATSSubject, c.NATS.Subject)
	assert.Equal(t, 2*time.Hour, c.Dedup.TTL)
	assert.Equal(t, 250*time.Millisecond, c.Redis.Timeout)
	assert.Contains(t, c.PostgresDSN(), "dbname=calls")
}

func TestLoad_FileUnderEnv(t *testing.T) {
	dir := chdirTemp(t)
	yaml := `
app:
  env: staging
  port: 7000
db:
  host: filehost
  user: fileuser
  name: filedb
  sslmode: require
webhook:
  max_body_bytes: 1024
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("DB_HOST", "envhost")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "staging", c.App.Env)
	assert.Equal(t, 7000, c.App.Port)
	assert.Equal(t, "envhost", c.DB.Host)
	assert.Equal(t, "require", c.DB.SSLMode)
	assert.Equal(t, int64(1024), c.Webhook.MaxBodyBytes)
}

func TestLoad_InvalidEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ENV", "qa")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV must be one of")
}
