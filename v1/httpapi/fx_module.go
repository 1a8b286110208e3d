package httpapi

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/logger"
)

// FXModule provides the *Server and serves it for the lifetime of the app.
var FXModule = fx.Module("httpapi",
	fx.Provide(NewServer),
	fx.Invoke(RegisterServerLifecycle),
)

// RegisterServerLifecycle binds the listen address on start, serves in the
// background and drains in-flight requests on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := s.Listen()
			if err != nil {
				return err
			}
			go func() {
				log.Info("Starting HTTP server", nil, map[string]interface{}{
					"address": ln.Addr().String(),
					"prefix":  s.cfg.APIPrefix,
				})
				if err := s.Serve(ln); err != nil {
					log.Error("HTTP server stopped unexpectedly", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down HTTP server", nil, nil)
			return s.Shutdown(ctx)
		},
	})
}
