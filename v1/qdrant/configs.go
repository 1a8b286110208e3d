package qdrant

import (
	"time"
)

const (
	// DefaultGRPCPort is Qdrant's gRPC port. The Go SDK only speaks gRPC.
	DefaultGRPCPort = 6334

	// restPort is Qdrant's REST port. URLs copied from the dashboard usually
	// carry it; it is translated to DefaultGRPCPort.
	restPort = 6333
)

// Config holds connection and behavior settings for the connection manager.
//
// Exactly one connection mode is chosen from it (see ResolveMode):
// LocalPath wins, then URL, then Host/Port.
//
// Example (programmatic):
//
//	cfg := qdrant.DefaultConfig()
//	cfg.URL = "https://xyz.eu-central.aws.cloud.qdrant.io:6333"
//	cfg.APIKey = os.Getenv("QDRANT_API_KEY")
//
// Example (builder style):
//
//	cfg := qdrant.DefaultConfig().
//	    WithLocalPath("./data/qdrant").
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Host string `yaml:"host" env:"QDRANT_HOST"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" env:"QDRANT_PORT"`

	// Full URL of a Qdrant deployment. With an API key this selects Cloud mode.
	URL string `yaml:"url" env:"QDRANT_URL"`

	// Optional authentication token for secured deployments.
	APIKey string `yaml:"api_key" env:"QDRANT_API_KEY"`

	// Directory of the embedded store. Non-empty selects Local mode.
	LocalPath string `yaml:"local_path" env:"QDRANT_LOCAL_PATH"`

	// Force TLS for Host/Port connections. URLs decide by scheme.
	UseTLS bool `yaml:"use_tls" env:"QDRANT_HTTPS"`

	// Maximum duration of a single Qdrant call.
	Timeout time.Duration `yaml:"timeout" env:"QDRANT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`

	// Number of gRPC connections in the client pool. 0 uses the SDK default.
	PoolSize uint `yaml:"pool_size" env:"QDRANT_POOL_SIZE"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Host:               "localhost",
		Port:               DefaultGRPCPort,
		Timeout:            30 * time.Second,
		CheckCompatibility: true,
	}
}

func (c *Config) WithHost(host string, port int) *Config {
	c.Host = host
	c.Port = port
	return c
}

func (c *Config) WithURL(url, apiKey string) *Config {
	c.URL = url
	c.APIKey = apiKey
	return c
}

func (c *Config) WithLocalPath(path string) *Config {
	c.LocalPath = path
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}

// ConnectParams extracts the mode-relevant settings.
func (c *Config) ConnectParams() ConnectParams {
	return ConnectParams{
		LocalPath: c.LocalPath,
		URL:       c.URL,
		APIKey:    c.APIKey,
		Host:      c.Host,
		Port:      c.Port,
		UseTLS:    c.UseTLS,
	}
}
