// Command gateway serves the Qdrant HTTP gateway.
//
//	gateway -config config.yaml
//
// Every setting can also come from the environment or a .env file in the
// working directory; see package config.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/config"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/httpapi"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/logger"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/metrics"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/qdrant"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/tracer"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/vectors"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fx.New(options(cfg)...).Run()
}

func options(cfg *config.Config) []fx.Option {
	opts := []fx.Option{
		fx.Supply(cfg),
		config.FXModule,
		logger.FXModule,
		tracer.FXModule,
		qdrant.FXModule,
		vectors.FXModule,
		httpapi.FXModule,
		fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Zap.Named("fx")}
		}),
		fx.Invoke(func(log *logger.Logger) {
			log.Info("Gateway configured", nil, map[string]interface{}{
				"environment": cfg.App.Environment,
				"qdrant_mode": string(qdrant.ResolveMode(cfg.Qdrant.ConnectParams())),
				"version":     cfg.App.Version,
			})
		}),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, metrics.FXModule)
	}
	return opts
}
