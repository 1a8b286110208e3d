package config

import (
	"go.uber.org/fx"
)

// FXModule splits a *Config supplied to the container into the config
// values the other modules consume.
//
//	cfg, err := config.Load("config.yaml")
//	...
//	app := fx.New(
//	    fx.Supply(cfg),
//	    config.FXModule,
//	    logger.FXModule,
//	)
var FXModule = fx.Module("config",
	fx.Provide(
		(*Config).LoggerConfig,
		(*Config).MetricsConfig,
		(*Config).TracerConfig,
		(*Config).QdrantConfig,
		(*Config).HTTPConfig,
	),
)
