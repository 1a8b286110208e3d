package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns an isolated registry and the gateway's collectors.
//
// The registry is private to this instance so tests can build as many as
// they like without duplicate-registration panics.
type Metrics struct {
	// Server is only set when Config.Address is non-empty.
	Server *http.Server

	Registry *prometheus.Registry

	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	operationDuration *prometheus.HistogramVec
	wrapped           prometheus.Registerer
}

// NewMetrics creates the registry and registers the HTTP and Qdrant
// collectors under cfg.Namespace, labelled with cfg.ServiceName.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)
	if cfg.Namespace != "" {
		wrappedRegistry = prometheus.WrapRegistererWithPrefix(cfg.Namespace+"_", wrappedRegistry)
	}

	m := &Metrics{
		Registry: registry,
		wrapped:  wrappedRegistry,
	}

	m.requestsTotal = createCounterVec("http_requests_total", "Total number of processed HTTP requests", []string{"method", "route", "status"})
	m.requestDuration = createHistogramVec("http_request_duration_seconds", "Duration of HTTP requests in seconds", []string{"method", "route"}, prometheus.DefBuckets)
	m.operationDuration = createHistogramVec("qdrant_operation_duration_seconds", "Duration of Qdrant operations in seconds", []string{"operation", "outcome"}, prometheus.DefBuckets)

	wrappedRegistry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.operationDuration,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	if cfg.Address != "" {
		m.Server = &http.Server{
			Addr:    cfg.Address,
			Handler: m.Handler(),
		}
	}

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
