package qdrant

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/apperr"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/logger"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/metrics"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/tracer"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT CONNECTION MANAGER
// ──────────────────────────────────────────────────────────────
//
// Manager owns the single handle to the vector database for the whole
// process and is passed explicitly to every consumer.
//
// Responsibilities:
//   • Resolve the connection mode and open the handle exactly once.
//   • Probe connectivity and report health without ever failing.
//   • Pass collection and point operations through, translating
//     upstream failures into the apperr taxonomy.
//

// Manager is safe for concurrent use.
type Manager struct {
	cfg     *Config
	log     *logger.Logger
	tracer  *tracer.Tracer
	metrics *metrics.Metrics

	mu        sync.RWMutex
	client    engine
	mode      ConnectionMode
	connected bool

	connectGroup singleflight.Group
	dial         dialFunc
}

// HealthStatus is the result of HealthCheck.
type HealthStatus struct {
	Status           string  `json:"status"`
	LatencyMs        float64 `json:"latency_ms"`
	CollectionsCount *int    `json:"collections_count,omitempty"`
	Error            string  `json:"error,omitempty"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// NewManager ──────────────────────────────────────────────────────────────
// NewManager
// ──────────────────────────────────────────────────────────────
//
// NewManager constructs an unconnected manager. Tracer and metrics are
// optional; nil disables them.
//
// Example:
//
//	m := qdrant.NewManager(qdrant.ManagerParams{Config: cfg, Logger: log})
//	if err := m.Connect(ctx, cfg.ConnectParams()); err != nil { ... }
func NewManager(p ManagerParams) *Manager {
	cfg := p.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		cfg:     cfg,
		log:     log.Named("qdrant"),
		tracer:  p.Tracer,
		metrics: p.Metrics,
		dial:    dial,
	}
}

// Connect ──────────────────────────────────────────────────────────────
// Connect
// ──────────────────────────────────────────────────────────────
//
// Connect resolves the mode from p, opens the handle and verifies it with a
// list-collections probe. It is idempotent: once connected, further calls
// return nil without touching p. Concurrent first calls share one attempt.
//
// On failure the half-open handle is closed, the manager stays unconnected
// and a QdrantConnection error with details {"mode": ...} is returned, so a
// later retry is safe.
func (m *Manager) Connect(ctx context.Context, p ConnectParams) error {
	if m.Connected() {
		return nil
	}

	_, err, _ := m.connectGroup.Do("connect", func() (interface{}, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.connected {
			return nil, nil
		}

		mode := ResolveMode(p)
		fields := map[string]interface{}{"mode": string(mode)}
		m.log.Info("connecting to Qdrant", nil, fields)

		client, err := m.dial(ctx, mode, p, m.cfg)
		if err != nil {
			m.log.Error("failed to connect to Qdrant", err, fields)
			return nil, connectionError(mode, err)
		}

		probeCtx, cancel := m.withTimeout(ctx)
		defer cancel()

		if _, err := client.ListCollections(probeCtx); err != nil {
			_ = client.Close()
			m.log.Error("failed to connect to Qdrant", err, fields)
			return nil, connectionError(mode, err)
		}

		m.client = client
		m.mode = mode
		m.connected = true
		m.log.Info("connected to Qdrant", nil, fields)
		return nil, nil
	})
	return err
}

func connectionError(mode ConnectionMode, err error) error {
	return apperr.QdrantConnection(
		apperr.WithMessage(fmt.Sprintf("Failed to connect to Qdrant: %v", err)),
		apperr.WithDetails(map[string]interface{}{"mode": string(mode)}),
		apperr.WithCause(err),
	)
}

// Close releases the handle. It is a no-op when not connected.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	err := m.client.Close()
	m.client = nil
	m.connected = false
	m.log.Info("Qdrant connection closed", err, nil)
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to close client: %w", err)
	}
	return nil
}

// Connected reports whether Connect has succeeded and Close not been called since.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Mode returns the mode of the live connection, or "" when unconnected.
func (m *Manager) Mode() ConnectionMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.connected {
		return ""
	}
	return m.mode
}

// HealthCheck ──────────────────────────────────────────────────────────────
// HealthCheck
// ──────────────────────────────────────────────────────────────
//
// HealthCheck times a list-collections probe. It never returns an error:
// failures, including an unconnected manager, are reported as an unhealthy
// status carrying the error text.
func (m *Manager) HealthCheck(ctx context.Context) HealthStatus {
	start := time.Now()

	var names []string
	err := m.do(ctx, "HealthCheck", nil, func(ctx context.Context, c engine) error {
		var err error
		names, err = c.ListCollections(ctx)
		return err
	})

	latency := roundMillis(time.Since(start))
	if err != nil {
		return HealthStatus{
			Status:    StatusUnhealthy,
			LatencyMs: latency,
			Error:     err.Error(),
		}
	}

	count := len(names)
	return HealthStatus{
		Status:           StatusHealthy,
		LatencyMs:        latency,
		CollectionsCount: &count,
	}
}

// current returns the live handle or a connection error.
func (m *Manager) current() (engine, ConnectionMode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.connected {
		return nil, "", apperr.QdrantConnection(
			apperr.WithMessage("Qdrant client not initialized. Call Connect() first."),
		)
	}
	return m.client, m.mode, nil
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.cfg.Timeout)
}

// do runs fn against the live handle under the per-call timeout, with a
// span, a duration observation and a debug log line, and classifies the
// returned error.
func (m *Manager) do(ctx context.Context, op string, attrs map[string]interface{}, fn func(ctx context.Context, c engine) error) error {
	c, _, err := m.current()
	if err != nil {
		return err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var span trace.Span
	if m.tracer != nil {
		ctx, span = m.tracer.StartSpan(ctx, "qdrant."+op)
		m.tracer.SetAttributes(span, attrs)
		defer span.End()
	}

	start := time.Now()
	err = classify(op, attrs, fn(ctx, c))

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if span != nil {
			m.tracer.RecordErrorOnSpan(span, err)
		}
	}
	if m.metrics != nil {
		m.metrics.ObserveOperation(op, outcome, start)
	}

	m.log.DebugWithContext(ctx, "qdrant operation", err, attrs, map[string]interface{}{
		"operation":   op,
		"outcome":     outcome,
		"duration_ms": roundMillis(time.Since(start)),
	})
	return err
}

// roundMillis converts d to milliseconds rounded to two decimals.
func roundMillis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
