package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// ObserveOperation records one call against the vector database.
// outcome is "ok" or "error".
func (m *Metrics) ObserveOperation(operation, outcome string, start time.Time) {
	m.operationDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

// CreateCounter registers an additional counter on the wrapped registry.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.wrapped.MustRegister(counter)
	return counter
}

// CreateHistogram registers an additional histogram on the wrapped registry.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.wrapped.MustRegister(hist)
	return hist
}

func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}
