package httpapi

import (
	"context"
	"errors"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/logger"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/metrics"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/tracer"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/vectors"
)

// Server is the gateway's HTTP surface. It owns a fiber app whose routes
// delegate to a *vectors.Service.
type Server struct {
	App *fiber.App

	cfg     Config
	vectors *vectors.Service
	log     *logger.Logger
	metrics *metrics.Metrics
	tracer  *tracer.Tracer
}

// ServerParams groups the server's dependencies for fx. Metrics and Tracer
// are optional; without them the corresponding middleware is a no-op.
type ServerParams struct {
	fx.In

	Config  Config
	Vectors *vectors.Service
	Logger  *logger.Logger
	Metrics *metrics.Metrics `optional:"true"`
	Tracer  *tracer.Tracer   `optional:"true"`
}

// NewServer builds the fiber app with its middleware chain and routes.
// Nothing is listened on until Serve is called.
func NewServer(p ServerParams) *Server {
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}

	s := &Server{
		cfg:     p.Config,
		vectors: p.Vectors,
		log:     log.Named("http"),
		metrics: p.Metrics,
		tracer:  p.Tracer,
	}

	s.App = fiber.New(fiber.Config{
		AppName:               p.Config.ProjectName,
		ReadTimeout:           p.Config.ReadTimeout,
		WriteTimeout:          p.Config.WriteTimeout,
		ErrorHandler:          s.handleError,
		UnescapePath:          true,
		Immutable:             true,
		DisableStartupMessage: true,
	})

	// instrument sits outside recover so that recovered panics are counted
	// and logged like any other failed request.
	s.App.Use(requestid.New())
	s.App.Use(s.instrument())
	s.App.Use(recover.New())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.App.Get("/", s.root)
	s.App.Get("/health", s.health)
	if s.metrics != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}

	api := s.App.Group(s.cfg.APIPrefix + "/qdrant")

	api.Get("/collections", s.listCollections)
	api.Post("/collections", s.createCollection)
	api.Get("/collections/:name", s.getCollection)
	api.Delete("/collections/:name", s.deleteCollection)

	api.Post("/collections/:collection/points", s.upsertPoint)
	api.Post("/collections/:collection/points/batch", s.upsertPointsBatch)
	api.Get("/collections/:collection/points/:id", s.getPoint)
	api.Delete("/collections/:collection/points/:id", s.deletePoint)

	api.Post("/collections/:collection/search", s.search)
}

// Listen binds the configured address. Binding happens synchronously so
// address conflicts fail application start instead of surfacing later.
func (s *Server) Listen() (net.Listener, error) {
	return net.Listen("tcp", s.cfg.Address)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	err := s.App.Listener(ln)
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
