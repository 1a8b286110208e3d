package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/qdrant"
)

// DefaultEnvFile is loaded when Load is called without env files.
const DefaultEnvFile = ".env"

// restPort is what QDRANT_PORT holds in deployments shared with REST
// clients. The gateway only speaks gRPC.
const restPort = 6333

// Load builds the configuration in layers, each overriding the previous one:
//
//  1. Default()
//  2. the YAML file at path, if path is non-empty
//  3. variables from envFiles (default ".env"), which never override
//     variables already set in the process environment; missing files are
//     ignored
//  4. the process environment, matched through the `env` struct tags;
//     empty variables count as unset
//
// The result is validated before it is returned.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("[Config] failed to load env file %s: %w", file, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.Qdrant.Port == restPort {
		cfg.Qdrant.Port = qdrant.DefaultGRPCPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("[Config] failed to read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("[Config] failed to parse %s: %w", path, err)
	}
	return nil
}

// envOptions reads the `env` struct tags. Durations accept Go durations
// ("30s") as well as plain numbers of seconds ("30", "2.5").
func envOptions() env.Options {
	return env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): parseDuration,
		},
	}
}

// grpcPort is QDRANT_GRPC_PORT, which wins over QDRANT_PORT when set.
type grpcPort struct {
	Port int `env:"QDRANT_GRPC_PORT"`
}

func applyEnv(cfg *Config) error {
	opts := envOptions()
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("[Config] invalid environment: %w", err)
	}

	var override grpcPort
	if err := env.ParseWithOptions(&override, opts); err != nil {
		return fmt.Errorf("[Config] invalid environment: %w", err)
	}
	if override.Port != 0 {
		cfg.Qdrant.Port = override.Port
	}
	return nil
}

func parseDuration(raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(raw)
}
