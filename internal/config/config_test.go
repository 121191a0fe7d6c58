package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "bizval.db", cfg.Store.SQLitePath)
	assert.Equal(t, "static", cfg.Multipliers.Source)
	assert.Equal(t, "industry_multipliers", cfg.Multipliers.Table)
	assert.Equal(t, 3600, cfg.Cache.TTLSecs)
	assert.Equal(t, "bizval:multiplier:", cfg.Cache.Prefix)
	assert.Empty(t, cfg.Cache.RedisAddr)
	assert.Equal(t, 5, cfg.Resilience.FailureThreshold)
	assert.Equal(t, 30, cfg.Resilience.ResetTimeoutSecs)
	assert.Equal(t, 3, cfg.Resilience.MaxAttempts)
	assert.Equal(t, 100, cfg.Resilience.InitialBackoffMs)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 20, cfg.Server.RatePerSec, 0.001)
	assert.Equal(t, 40, cfg.Server.Burst)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/bizval
multipliers:
  source: file
  file: configs/multipliers.yaml
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins:
    - https://valuations.example.com
batch:
  concurrency: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/bizval", cfg.Store.DatabaseURL)
	assert.Equal(t, "file", cfg.Multipliers.Source)
	assert.Equal(t, "configs/multipliers.yaml", cfg.Multipliers.File)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://valuations.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	// Defaults still apply for unset values
	assert.Equal(t, 5, cfg.Resilience.FailureThreshold)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0o644))

	t.Setenv("BIZVAL_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BIZVAL_CACHE_REDIS_ADDR=localhost:6379\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("BIZVAL_CACHE_REDIS_ADDR") }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
}

func TestLoadDotEnvDoesNotOverrideEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BIZVAL_SERVER_PORT=1111\n"), 0o644))
	t.Setenv("BIZVAL_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.SQLitePath = "bizval.db"
	cfg.Multipliers.Source = "static"
	cfg.Server.Port = 8080
	cfg.Server.RatePerSec = 20
	cfg.Server.Burst = 40
	cfg.Batch.Concurrency = 8
	cfg.Resilience.FailureThreshold = 5
	cfg.Resilience.MaxAttempts = 3
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validDefaults()
	for _, mode := range []string{"value", "industry", "batch", "serve", "migrate"} {
		assert.NoError(t, cfg.Validate(mode), mode)
	}
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_Burst(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Burst = 0
	assert.Error(t, cfg.Validate("serve"))

	cfg.Server.RatePerSec = 0
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateBatch_ConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.Concurrency = 0
	err := cfg.Validate("batch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "batch.concurrency must be between 1 and 64")

	cfg.Batch.Concurrency = 65
	assert.Error(t, cfg.Validate("batch"))

	cfg.Batch.Concurrency = 64
	assert.NoError(t, cfg.Validate("batch"))
}

func TestValidate_PostgresStoreNeedsURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	// One-off valuations never touch the store.
	assert.NoError(t, cfg.Validate("value"))

	cfg.Store.DatabaseURL = "postgres://localhost/bizval"
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidate_MultiplierSource(t *testing.T) {
	cfg := validDefaults()

	cfg.Multipliers.Source = "file"
	err := cfg.Validate("value")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "multipliers.file is required")

	cfg.Multipliers.File = "configs/multipliers.yaml"
	assert.NoError(t, cfg.Validate("value"))

	cfg.Multipliers.Source = "postgres"
	assert.Error(t, cfg.Validate("value"))
	cfg.Store.DatabaseURL = "postgres://localhost/bizval"
	assert.NoError(t, cfg.Validate("value"))

	cfg.Multipliers.Source = "api"
	assert.Error(t, cfg.Validate("value"))
}

func TestValidateSeed(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("seed")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")

	cfg.Multipliers.DatabaseURL = "postgres://localhost/multipliers"
	assert.NoError(t, cfg.Validate("seed"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestMultiplierDatabaseURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.DatabaseURL = "postgres://localhost/main"
	assert.Equal(t, "postgres://localhost/main", cfg.MultiplierDatabaseURL())

	cfg.Multipliers.DatabaseURL = "postgres://localhost/multipliers"
	assert.Equal(t, "postgres://localhost/multipliers", cfg.MultiplierDatabaseURL())
}
