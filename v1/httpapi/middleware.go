package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	traceSpan "go.opentelemetry.io/otel/trace"
)

const (
	unmatchedRoute = "unmatched"

	// methodUse is the method fiber records on middleware-only routes.
	methodUse = "USE"
)

// instrument wraps every request in a server span, records the request
// metrics and writes one access log entry.
//
// Errors from the rest of the chain are rendered here through the app's
// error handler, so the status that gets recorded is the one the client
// actually receives.
func (s *Server) instrument() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Path())

		ctx := c.UserContext()
		var span traceSpan.Span
		if s.tracer != nil {
			ctx = s.tracer.ExtractHeaders(ctx, requestHeaders(c))
			ctx, span = s.tracer.StartSpan(ctx, method+" "+path, traceSpan.WithSpanKind(traceSpan.SpanKindServer))
			defer span.End()
			c.SetUserContext(ctx)
		}

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		route := c.Route().Path
		if c.Route().Method == methodUse {
			route = unmatchedRoute
		}

		if span != nil {
			span.SetName(method + " " + route)
			s.tracer.SetAttributes(span, map[string]interface{}{
				"http.method":      method,
				"http.route":       route,
				"http.target":      path,
				"http.status_code": status,
			})
			if status >= fiber.StatusInternalServerError && chainErr != nil {
				s.tracer.RecordErrorOnSpan(span, chainErr)
			}
		}

		if s.metrics != nil {
			s.metrics.ObserveRequest(method, route, status, start)
		}

		s.log.InfoWithContext(ctx, "request completed", nil, map[string]interface{}{
			"method":      method,
			"path":        path,
			"route":       route,
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
			"request_id":  c.GetRespHeader(fiber.HeaderXRequestID),
		})
		return nil
	}
}

// requestHeaders returns the request headers keyed by lower-case name, the
// form the W3C propagators look up.
func requestHeaders(c *fiber.Ctx) map[string]string {
	headers := make(map[string]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		headers[strings.ToLower(string(key))] = string(value)
	})
	return headers
}
