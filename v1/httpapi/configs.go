package httpapi

import "time"

// Config controls the gateway's HTTP server.
type Config struct {
	// Address is the listen address, e.g. ":8000".
	Address string `yaml:"address" env:"HTTP_ADDRESS"`

	// APIPrefix is prepended to every /qdrant route. Root routes
	// (/, /health, /metrics) are never prefixed.
	APIPrefix string `yaml:"api_prefix" env:"API_PREFIX"`

	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`

	// ProjectName and Version are reported by GET / and GET /health.
	ProjectName string `yaml:"project_name" env:"PROJECT_NAME"`
	Version     string `yaml:"version" env:"VERSION"`

	// DocsURL is advertised by GET /. Empty is rendered as null.
	DocsURL string `yaml:"docs_url" env:"DOCS_URL"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Address:      ":8000",
		APIPrefix:    "/api/v1",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ProjectName:  "qdrant-gateway",
		Version:      "0.1.0",
	}
}
