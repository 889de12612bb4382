package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/S-Corkum/sae-inference/internal/api"
	"github.com/S-Corkum/sae-inference/internal/sae"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, sae.DefaultConfig(), cfg.Engine)

	apiDefaults := api.DefaultConfig()
	assert.Equal(t, apiDefaults.ListenAddress, cfg.API.ListenAddress)
	assert.Equal(t, apiDefaults.RateLimit, cfg.API.RateLimit)
	assert.Equal(t, apiDefaults.CORS.AllowedOrigins, cfg.API.CORS.AllowedOrigins)
	assert.Equal(t, 60*time.Second, cfg.API.WriteTimeout)
	assert.Equal(t, "development", cfg.API.Environment)
	assert.Equal(t, "/metrics", cfg.API.MetricsPath)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "sae_inference", cfg.Metrics.Namespace)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "sae-inference", cfg.Tracing.ServiceName)
	assert.Equal(t, "development", cfg.Tracing.Environment)
}

func TestLoadFrom_File(t *testing.T) {
	path := writeConfig(t, `
environment: production
api:
  listen_address: ":8080"
  read_timeout: 5s
  rate_limit:
    limit: 10
    period: 1m
engine:
  default_layer: 4
  max_search_limit: 50
logging:
  level: debug
  format: text
metrics:
  enabled: false
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ":8080", cfg.API.ListenAddress)
	assert.Equal(t, 5*time.Second, cfg.API.ReadTimeout)
	assert.Equal(t, 10, cfg.API.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.API.RateLimit.Period)
	assert.True(t, cfg.API.RateLimit.Enabled)
	assert.Equal(t, 4, cfg.Engine.DefaultLayer)
	assert.Equal(t, 50, cfg.Engine.MaxSearchLimit)
	assert.Equal(t, 16384, cfg.Engine.FeatureDimension)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "production", cfg.API.Environment)
	assert.Empty(t, cfg.API.MetricsPath)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
api:
  listen_address: ":8080"
`)
	t.Setenv("SAE_API_LISTEN_ADDRESS", ":9090")
	t.Setenv("SAE_ENGINE_TOP_K", "7")
	t.Setenv("SAE_TRACING_ENABLED", "true")
	t.Setenv("SAE_API_RATE_LIMIT_EXPIRATION", "30m")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.API.ListenAddress)
	assert.Equal(t, 7, cfg.Engine.TopK)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.API.RateLimit.Expiration)
}

func TestLoad_ConfigFileEnv(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown environment", "environment: staging\n"},
		{"bad log level", "logging:\n  level: verbose\n"},
		{"bad log format", "logging:\n  format: xml\n"},
		{"zero dimension", "engine:\n  feature_dimension: 0\n"},
		{"resized feature space", "engine:\n  feature_dimension: 4096\n"},
		{"resized vocabulary", "engine:\n  vocabulary_size: 32000\n"},
		{"search limit above cap", "engine:\n  max_search_limit: 500\n"},
		{"latency window", "engine:\n  min_latency_ms: 300\n"},
		{"metrics path", "metrics:\n  path: metrics\n"},
		{"compression level", "api:\n  performance:\n    compression_level: 12\n"},
		{"malformed yaml", "api: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_SearchLimitCapFromEnv(t *testing.T) {
	t.Setenv("SAE_ENGINE_MAX_SEARCH_LIMIT", "500")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxSearchLimit")
}

func TestValidate(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	cfg.API.ListenAddress = ""
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
