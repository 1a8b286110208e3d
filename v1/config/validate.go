package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/logger"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.App.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("app.environment must be one of %s, %s, %s; got %q",
			EnvDevelopment, EnvStaging, EnvProduction, c.App.Environment))
	}
	if c.App.APIPrefix != "" && !strings.HasPrefix(c.App.APIPrefix, "/") {
		errs = append(errs, fmt.Errorf("app.api_prefix must start with '/'; got %q", c.App.APIPrefix))
	}

	if c.HTTP.Address == "" {
		errs = append(errs, errors.New("http.address must not be empty"))
	}
	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 {
		errs = append(errs, errors.New("http timeouts must not be negative"))
	}

	if c.Qdrant.Port < 0 || c.Qdrant.Port > 65535 {
		errs = append(errs, fmt.Errorf("qdrant.port must be between 1 and 65535; got %d", c.Qdrant.Port))
	}
	if c.Qdrant.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("qdrant.timeout must be positive; got %s", c.Qdrant.Timeout))
	}

	switch strings.ToLower(c.Logger.Level) {
	case "", logger.Debug, logger.Info, logger.Warning, logger.Error:
	default:
		errs = append(errs, fmt.Errorf("logger.level must be one of %s, %s, %s, %s; got %q",
			logger.Debug, logger.Info, logger.Warning, logger.Error, c.Logger.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("[Config] invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
