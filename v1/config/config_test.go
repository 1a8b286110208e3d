package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/httpapi"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/logger"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/qdrant"
)

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	var names []string
	for _, v := range []interface{}{&Config{}, &grpcPort{}} {
		params, err := env.GetFieldParams(v)
		require.NoError(t, err)
		for _, p := range params {
			names = append(names, p.Key)
		}
	}
	require.Contains(t, names, "QDRANT_HOST")

	for _, name := range names {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "/api/v1", cfg.App.APIPrefix)
	assert.Equal(t, ":8000", cfg.HTTP.Address)
	assert.Equal(t, qdrant.DefaultGRPCPort, cfg.Qdrant.Port)
	assert.Equal(t, 30*time.Second, cfg.Qdrant.Timeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", `
app:
  name: gw
  environment: staging
  api_prefix: /v2
qdrant:
  url: https://xyz.cloud.qdrant.io:6333
  api_key: secret
  timeout: 5s
logger:
  level: debug
`)

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "gw", cfg.App.Name)
	assert.Equal(t, "/v2", cfg.App.APIPrefix)
	assert.Equal(t, "https://xyz.cloud.qdrant.io:6333", cfg.Qdrant.URL)
	assert.Equal(t, "secret", cfg.Qdrant.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Qdrant.Timeout)
	assert.Equal(t, "localhost", cfg.Qdrant.Host, "unset keys keep their defaults")
	assert.Equal(t, logger.Debug, cfg.Logger.Level)
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", "qdrant:\n  hots: typo\n")
	_, err := Load(path, noEnvFile(t))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", "qdrant:\n  host: from-yaml\n")
	t.Setenv("QDRANT_HOST", "from-env")
	t.Setenv("QDRANT_LOCAL_PATH", "/data/qdrant")
	t.Setenv("QDRANT_TIMEOUT", "2.5")
	t.Setenv("QDRANT_CHECK_COMPATIBILITY", "false")
	t.Setenv("API_PREFIX", "/api/v3")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Qdrant.Host)
	assert.Equal(t, "/data/qdrant", cfg.Qdrant.LocalPath)
	assert.Equal(t, 2500*time.Millisecond, cfg.Qdrant.Timeout)
	assert.False(t, cfg.Qdrant.CheckCompatibility)
	assert.Equal(t, "/api/v3", cfg.App.APIPrefix)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Tracer.EnableExport)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	envFile := writeFile(t, ".env", "QDRANT_HOST=dotenv-host\nLOG_LEVEL=error\n")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-host", cfg.Qdrant.Host)
	assert.Equal(t, "debug", cfg.Logger.Level, "process environment wins over .env")
}

func TestLoadPorts(t *testing.T) {
	clearEnv(t)

	t.Setenv("QDRANT_PORT", "6333")
	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, qdrant.DefaultGRPCPort, cfg.Qdrant.Port)

	t.Setenv("QDRANT_GRPC_PORT", "7334")
	cfg, err = Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 7334, cfg.Qdrant.Port)
}

func TestLoadInvalidEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("QDRANT_PORT", "not-a-port")
	_, err := Load("", noEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[Config] invalid environment")

	var parseErr env.ParseError
	require.True(t, errors.As(err, &parseErr), "got %v", err)
	assert.Equal(t, "Port", parseErr.Name)

	clearEnv(t)
	t.Setenv("QDRANT_TIMEOUT", "soon")
	_, err = Load("", noEnvFile(t))
	assert.Error(t, err)
}

func TestLoadEnvDurations(t *testing.T) {
	clearEnv(t)

	t.Setenv("QDRANT_TIMEOUT", "45")
	t.Setenv("HTTP_READ_TIMEOUT", "1m30s")
	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Qdrant.Timeout)
	assert.Equal(t, 90*time.Second, cfg.HTTP.ReadTimeout)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"environment", func(c *Config) { c.App.Environment = "qa" }},
		{"api prefix", func(c *Config) { c.App.APIPrefix = "api" }},
		{"address", func(c *Config) { c.HTTP.Address = "" }},
		{"port", func(c *Config) { c.Qdrant.Port = 70000 }},
		{"timeout", func(c *Config) { c.Qdrant.Timeout = 0 }},
		{"log level", func(c *Config) { c.Logger.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSectionConfigs(t *testing.T) {
	cfg := Default()
	cfg.App.Name = "gw"
	cfg.Logger.Level = "DEBUG"
	cfg.HTTP.DocsURL = "/docs"

	lc := cfg.LoggerConfig()
	assert.Equal(t, logger.Debug, lc.Level)
	assert.Equal(t, "gw", lc.ServiceName)
	assert.True(t, lc.Development)

	hc := cfg.HTTPConfig()
	assert.Equal(t, "/api/v1", hc.APIPrefix)
	assert.Equal(t, "gw", hc.ProjectName)
	assert.Equal(t, "/docs", hc.DocsURL)

	assert.Equal(t, "gw", cfg.MetricsConfig().ServiceName)
	assert.Equal(t, "development", cfg.TracerConfig().AppEnv)

	q := cfg.QdrantConfig()
	q.Host = "changed"
	assert.Equal(t, "localhost", cfg.Qdrant.Host, "QdrantConfig returns a copy")
}

func TestFXModule(t *testing.T) {
	cfg := Default()
	cfg.Qdrant.LocalPath = "/tmp/x"

	var (
		httpCfg   httpapi.Config
		qdrantCfg *qdrant.Config
		loggerCfg logger.Config
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		FXModule,
		fx.Populate(&httpCfg, &qdrantCfg, &loggerCfg),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, ":8000", httpCfg.Address)
	assert.Equal(t, "/tmp/x", qdrantCfg.LocalPath)
	assert.Equal(t, "info", loggerCfg.Level)
}
