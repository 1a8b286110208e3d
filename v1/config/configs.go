package config

import (
	"strings"
	"time"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/httpapi"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/logger"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/metrics"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/qdrant"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/tracer"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is the complete gateway configuration. Each section maps onto the
// config type of the package that consumes it.
type Config struct {
	App     AppSection     `yaml:"app"`
	HTTP    HTTPSection    `yaml:"http"`
	Qdrant  qdrant.Config  `yaml:"qdrant"`
	Logger  LoggerSection  `yaml:"logger"`
	Metrics MetricsSection `yaml:"metrics"`
	Tracer  TracerSection  `yaml:"tracer"`
}

type AppSection struct {
	Name        string `yaml:"name" env:"PROJECT_NAME"`
	Version     string `yaml:"version" env:"VERSION"`
	Environment string `yaml:"environment" env:"ENVIRONMENT"`
	APIPrefix   string `yaml:"api_prefix" env:"API_PREFIX"`
}

type HTTPSection struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	DocsURL      string        `yaml:"docs_url" env:"DOCS_URL"`
}

type LoggerSection struct {
	Level         string `yaml:"level" env:"LOG_LEVEL"`
	EnableTracing bool   `yaml:"enable_tracing" env:"LOG_ENABLE_TRACING"`
}

type MetricsSection struct {
	Enabled                 bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Address                 string `yaml:"address" env:"METRICS_ADDRESS"`
	Namespace               string `yaml:"namespace" env:"METRICS_NAMESPACE"`
	EnableDefaultCollectors bool   `yaml:"enable_default_collectors" env:"METRICS_ENABLE_DEFAULT_COLLECTORS"`
}

type TracerSection struct {
	EnableExport bool   `yaml:"enable_export" env:"TRACING_ENABLED"`
	Endpoint     string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Default returns the configuration used when no file or environment
// variable overrides anything.
func Default() *Config {
	srv := httpapi.DefaultConfig()
	return &Config{
		App: AppSection{
			Name:        "Qdrant Gateway",
			Version:     "0.1.0",
			Environment: EnvDevelopment,
			APIPrefix:   srv.APIPrefix,
		},
		HTTP: HTTPSection{
			Address:      srv.Address,
			ReadTimeout:  srv.ReadTimeout,
			WriteTimeout: srv.WriteTimeout,
		},
		Qdrant:  *qdrant.DefaultConfig(),
		Logger:  LoggerSection{Level: logger.Info},
		Metrics: MetricsSection{Enabled: true, EnableDefaultCollectors: true},
	}
}

// IsProduction reports whether the gateway runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:         strings.ToLower(c.Logger.Level),
		ServiceName:   c.App.Name,
		Development:   c.App.Environment == EnvDevelopment,
		EnableTracing: c.Logger.EnableTracing,
	}
}

func (c *Config) MetricsConfig() metrics.Config {
	return metrics.Config{
		Address:                 c.Metrics.Address,
		EnableDefaultCollectors: c.Metrics.EnableDefaultCollectors,
		ServiceName:             c.App.Name,
		Namespace:               c.Metrics.Namespace,
	}
}

func (c *Config) TracerConfig() tracer.Config {
	return tracer.Config{
		ServiceName:  c.App.Name,
		AppEnv:       c.App.Environment,
		EnableExport: c.Tracer.EnableExport,
		Endpoint:     c.Tracer.Endpoint,
	}
}

// QdrantConfig returns a copy of the qdrant section.
func (c *Config) QdrantConfig() *qdrant.Config {
	q := c.Qdrant
	return &q
}

func (c *Config) HTTPConfig() httpapi.Config {
	return httpapi.Config{
		Address:      c.HTTP.Address,
		APIPrefix:    c.App.APIPrefix,
		ReadTimeout:  c.HTTP.ReadTimeout,
		WriteTimeout: c.HTTP.WriteTimeout,
		ProjectName:  c.App.Name,
		Version:      c.App.Version,
		DocsURL:      c.HTTP.DocsURL,
	}
}
