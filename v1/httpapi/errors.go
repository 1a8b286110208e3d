package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/apperr"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/vectors"
)

const (
	codeRequestValidation = "request_validation_error"
	codeHTTP              = "http_error"
	codeInternal          = "internal_error"
)

// handleError is the app's single error handler. Every error a route
// returns ends up here and is rendered as the JSON error envelope.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fieldErr *vectors.FieldError
	if errors.As(err, &fieldErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(apperr.Body{
			Error:   codeRequestValidation,
			Message: fieldErr.Error(),
			Details: map[string]interface{}{
				"field":  fieldErr.Field,
				"reason": fieldErr.Reason,
			},
		})
	}

	if appErr, ok := apperr.From(err); ok {
		s.log.WarnWithContext(c.UserContext(), "request failed", err, map[string]interface{}{
			"code":   appErr.Code,
			"status": appErr.Status(),
			"path":   c.Path(),
		})
		return c.Status(appErr.Status()).JSON(appErr.Body())
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(apperr.Body{
			Error:   codeHTTP,
			Message: fiberErr.Message,
		})
	}

	s.log.ErrorWithContext(c.UserContext(), "unhandled error", err, map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
	})
	return c.Status(fiber.StatusInternalServerError).JSON(apperr.Body{
		Error:   codeInternal,
		Message: "Internal server error",
	})
}

// decodeBody decodes the JSON request body into v. Numbers inside untyped
// fields (payloads, filters) are kept as json.Number so integers survive.
// Decoding failures and anything after the JSON value are reported as
// request validation errors.
func decodeBody(c *fiber.Ctx, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &vectors.FieldError{Field: typeErr.Field, Reason: "must be of type " + typeErr.Type.String()}
		}
		return &vectors.FieldError{Field: "body", Reason: "invalid JSON: " + err.Error()}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &vectors.FieldError{Field: "body", Reason: "invalid JSON: unexpected data after the top-level value"}
	}
	return nil
}
