package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/logger"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/metrics"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/tracer"
)

// FXModule provides the process-wide *Manager, connects it on start and
// closes it on stop.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewManager,
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// ManagerParams groups the manager's dependencies for fx.
type ManagerParams struct {
	fx.In

	Config  *Config
	Logger  *logger.Logger
	Tracer  *tracer.Tracer   `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

// RegisterQdrantLifecycle connects on start. A failed connect aborts the
// application start.
func RegisterQdrantLifecycle(lc fx.Lifecycle, m *Manager) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.Connect(ctx, m.cfg.ConnectParams())
		},
		OnStop: func(ctx context.Context) error {
			return m.Close()
		},
	})
}
