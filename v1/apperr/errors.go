package apperr

import (
	"errors"
	"net/http"
)

// Kind is the base category of a domain error. Every concrete error belongs
// to exactly one kind, and the kind alone decides the HTTP status.
type Kind int

const (
	KindDomain Kind = iota
	KindNotFound
	KindAlreadyExists
	KindValidation
	KindConnection
)

type kindInfo struct {
	status  int
	code    string
	message string
}

var kinds = map[Kind]kindInfo{
	KindDomain:        {http.StatusBadRequest, "domain_error", "Domain error occurred"},
	KindNotFound:      {http.StatusNotFound, "not_found", "Resource not found"},
	KindAlreadyExists: {http.StatusConflict, "already_exists", "Resource already exists"},
	KindValidation:    {http.StatusUnprocessableEntity, "validation_error", "Validation error"},
	KindConnection:    {http.StatusServiceUnavailable, "connection_error", "Service connection error"},
}

// String returns the default error code of the kind.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return "unknown"
}

// Status returns the HTTP status associated with the kind.
func (k Kind) Status() int {
	if info, ok := kinds[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error is the single concrete error type of the taxonomy.
//
// Two errors are considered the same (errors.Is) when their codes match, so
// the package-level Err* values can be used as sentinels regardless of the
// message or details carried by a particular instance.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]interface{}

	cause error
}

// Body is the JSON envelope returned to HTTP clients.
type Body struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error returns the client-facing message. The cause, if any, is reachable
// through errors.Unwrap but not repeated here.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on the error code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Status returns the HTTP status of the error's kind.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// Body renders the wire envelope. Details are omitted when empty.
func (e *Error) Body() Body {
	b := Body{Error: e.Code, Message: e.Message}
	if len(e.Details) > 0 {
		b.Details = e.Details
	}
	return b
}

// Option customizes a constructed error.
type Option func(*Error)

// WithMessage overrides the default message.
func WithMessage(msg string) Option {
	return func(e *Error) {
		if msg != "" {
			e.Message = msg
		}
	}
}

// WithDetails attaches structured details.
func WithDetails(details map[string]interface{}) Option {
	return func(e *Error) {
		e.Details = details
	}
}

// WithCause records the underlying error.
func WithCause(err error) Option {
	return func(e *Error) {
		e.cause = err
	}
}

// New builds an error of the given kind. An empty code falls back to the
// kind's default code and message.
func New(kind Kind, code, message string, opts ...Option) *Error {
	info := kinds[kind]
	if code == "" {
		code = info.code
	}
	if message == "" {
		message = info.message
	}
	e := &Error{Kind: kind, Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// From extracts the taxonomy error from err, if there is one.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := From(err)
	return ok && e.Kind == kind
}

// IsNotFound reports whether err belongs to the not-found kind.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsConnection reports whether err belongs to the connection kind.
func IsConnection(err error) bool {
	return IsKind(err, KindConnection)
}
