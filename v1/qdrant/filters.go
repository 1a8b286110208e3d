package qdrant

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/apperr"
)

// ValueKind tags the variant held by a FilterValue.
type ValueKind int

const (
	KindString ValueKind = iota + 1
	KindInteger
	KindFloat
	KindBool
)

// FilterValue is a scalar a payload field can be compared against.
// The zero value is invalid; build one with the String/Integer/Float/Bool
// constructors or through ParseFilter.
type FilterValue struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
	b    bool
}

func String(v string) FilterValue     { return FilterValue{kind: KindString, s: v} }
func Integer(v int64) FilterValue     { return FilterValue{kind: KindInteger, i: v} }
func Float(v float64) FilterValue     { return FilterValue{kind: KindFloat, f: v} }
func Bool(v bool) FilterValue         { return FilterValue{kind: KindBool, b: v} }
func (v FilterValue) Kind() ValueKind { return v.kind }

// Filter is a flat field -> value equality map. All entries must hold.
type Filter map[string]FilterValue

// ParseFilter converts a decoded JSON object into a Filter.
//
// Strings, booleans, integers and floats are accepted. Only values written
// as integers become integer matches: json.Number("2.0") and float64(2) are
// floats, since the payload side stores them as doubles. Lists, objects and
// null are rejected with an InvalidFilter error naming the field.
func ParseFilter(raw map[string]interface{}) (Filter, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make(Filter, len(raw))
	for key, value := range raw {
		v, err := toFilterValue(value)
		if err != nil {
			return nil, apperr.InvalidFilter(
				apperr.WithMessage(fmt.Sprintf("Invalid filter on field '%s': %v", key, err)),
				apperr.WithDetails(map[string]interface{}{
					"field": key,
					"type":  typeName(value),
				}),
			)
		}
		out[key] = v
	}
	return out, nil
}

func toFilterValue(value interface{}) (FilterValue, error) {
	switch v := value.(type) {
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Integer(int64(v)), nil
	case int32:
		return Integer(int64(v)), nil
	case int64:
		return Integer(v), nil
	case uint32:
		return Integer(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return FilterValue{}, fmt.Errorf("integer %d out of range", v)
		}
		return Integer(int64(v)), nil
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Integer(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return FilterValue{}, fmt.Errorf("invalid number %q", v.String())
		}
		return fromFloat(f)
	case nil:
		return FilterValue{}, fmt.Errorf("null is not a supported filter value")
	default:
		return FilterValue{}, fmt.Errorf("only string, number and boolean values are supported")
	}
}

func fromFloat(f float64) (FilterValue, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return FilterValue{}, fmt.Errorf("non-finite number")
	}
	return Float(f), nil
}

func typeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// BuildFilter ──────────────────────────────────────────────────────────────
// BuildFilter
// ──────────────────────────────────────────────────────────────
//
// BuildFilter turns a Filter into a Qdrant filter made only of Must
// conditions, one per key, in key order:
//
//	string  -> keyword match
//	integer -> integer match
//	bool    -> boolean match
//	float   -> closed range [v, v] (Qdrant has no float equality match)
//
// An empty Filter yields an empty (match-all) filter, never nil.
func BuildFilter(f Filter) *qdrant.Filter {
	out := &qdrant.Filter{}
	if len(f) == 0 {
		return out
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if cond := f[key].toCondition(key); cond != nil {
			out.Must = append(out.Must, cond)
		}
	}
	return out
}

func (v FilterValue) toCondition(key string) *qdrant.Condition {
	switch v.kind {
	case KindString:
		return qdrant.NewMatchKeyword(key, v.s)
	case KindInteger:
		return qdrant.NewMatchInt(key, v.i)
	case KindBool:
		return qdrant.NewMatchBool(key, v.b)
	case KindFloat:
		return qdrant.NewRange(key, &qdrant.Range{
			Gte: qdrant.PtrOf(v.f),
			Lte: qdrant.PtrOf(v.f),
		})
	default:
		return nil
	}
}
