// Package logger provides the structured logger used across the gateway.
//
// It wraps go.uber.org/zap behind a small, uniform call shape:
//
//	log.Info(msg string, err error, fields ...map[string]interface{})
//
// so that call sites read the same whether or not an error is involved.
// The *WithContext variants add trace_id and span_id from an OpenTelemetry
// span in the context when Config.EnableTracing is set.
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Supply(logger.Config{Level: "info", ServiceName: "qdrant-gateway"}),
//	    logger.FXModule,
//	)
//
// Output in production is one JSON object per line:
//
//	{"level":"INFO","timestamp":"2026-10-19T10:00:00.000Z","caller":"qdrant/client.go:120",
//	 "msg":"connected to Qdrant","pid":1,"service":"qdrant-gateway","mode":"server"}
package logger
