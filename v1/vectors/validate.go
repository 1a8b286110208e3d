package vectors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	qd "github.com/Aleph-Alpha/qdrant-gateway/v1/qdrant"
)

// FieldError reports a request that does not satisfy the request schema.
// It is not part of the apperr taxonomy: it is raised before any business
// rule runs, and the HTTP layer maps it to its own 422 response.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// validate checks the `validate` tags on the request types. Errors name
// fields by their JSON key.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// A missing id validates as absent, so `required` rejects it.
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		id := f.Interface().(PointID)
		if id.IsZero() {
			return nil
		}
		return id.String()
	}, PointID{})
	return v
}

// Validate checks c and fills in the default distance.
func (c *CollectionCreate) Validate() error {
	if c.Distance == "" {
		c.Distance = qd.DistanceCosine
	}
	return check(c)
}

// Validate checks the id, vector and payload keys of p.
func (p *PointCreate) Validate() error {
	return check(p)
}

// Validate checks the batch size and every point in it.
func (b *PointsBatchCreate) Validate() error {
	return check(b)
}

// Validate checks r and fills in the default limit and payload flag.
func (r *SearchRequest) Validate() error {
	if r.Limit == 0 {
		r.Limit = DefaultSearchLimit
	}
	if err := check(r); err != nil {
		return err
	}
	if r.WithPayload == nil {
		enabled := true
		r.WithPayload = &enabled
	}
	return nil
}

// check runs the validator and reports the first failing field.
func check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	return toFieldError(errs[0])
}

func toFieldError(fe validator.FieldError) *FieldError {
	field, isKey := fieldPath(fe.Namespace())
	return &FieldError{Field: field, Reason: reason(fe, isKey)}
}

// fieldPath turns a validator namespace such as
// "PointsBatchCreate.points[1].vector" into "points.1.vector". Map keys are
// dropped; isKey reports that the failure was on one.
func fieldPath(ns string) (path string, isKey bool) {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}

	var b strings.Builder
	for len(ns) > 0 {
		open := strings.IndexByte(ns, '[')
		if open < 0 {
			b.WriteString(ns)
			break
		}
		b.WriteString(ns[:open])
		end := strings.IndexByte(ns[open:], ']')
		if end < 0 {
			break
		}
		index := ns[open+1 : open+end]
		ns = ns[open+end+1:]
		if isDigits(index) {
			b.WriteString(".")
			b.WriteString(index)
			isKey = false
		} else {
			isKey = true
		}
	}
	return b.String(), isKey
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func reason(fe validator.FieldError, isKey bool) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "field required"
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(param), ", ")
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch {
		case isKey:
			return fmt.Sprintf("key length must be %s %s", bound, param)
		case fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map:
			unit := "items"
			if param == "1" {
				unit = "item"
			}
			return fmt.Sprintf("must contain %s %s %s", bound, param, unit)
		case fe.Kind() == reflect.String:
			return fmt.Sprintf("length must be %s %s", bound, param)
		default:
			if fe.Tag() == "min" {
				return "must be >= " + param
			}
			return "must be <= " + param
		}
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
