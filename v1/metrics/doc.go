// Package metrics exposes Prometheus metrics for the gateway.
//
// Each *Metrics owns a private registry wrapped with a constant "service"
// label. Two families are always registered:
//
//	http_requests_total{method,route,status}
//	http_request_duration_seconds{method,route}
//	qdrant_operation_duration_seconds{operation,outcome}
//
// The HTTP layer calls ObserveRequest from its middleware; the Qdrant
// connection manager calls ObserveOperation around every engine call.
// Handler() is mounted at /metrics on the gateway server, and
// Config.Address optionally starts a separate listener for scraping.
package metrics
