package qdrant

import (
	"encoding/json"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// ── Payload Conversion ───────────────────────────────────────────────────────

// NewPayload converts a decoded JSON object into a Qdrant payload.
//
// Besides the types qdrant.NewValue understands it accepts json.Number at
// any depth: integral numbers become integer values, everything else a
// double. A nil map yields an empty payload.
//
// Example:
//
//	payload, err := NewPayload(map[string]any{"k": "v", "n": json.Number("3")})
//	// payload["n"] holds IntegerValue 3
func NewPayload(m map[string]any) (map[string]*qdrant.Value, error) {
	out := make(map[string]*qdrant.Value, len(m))
	for k, v := range m {
		val, err := toValue(v)
		if err != nil {
			return nil, fmt.Errorf("payload field %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

func toValue(v any) (*qdrant.Value, error) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return qdrant.NewValueInt(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", val.String())
		}
		return qdrant.NewValueDouble(f), nil
	case map[string]any:
		fields, err := NewPayload(val)
		if err != nil {
			return nil, err
		}
		return qdrant.NewValueStruct(&qdrant.Struct{Fields: fields}), nil
	case []any:
		items := make([]*qdrant.Value, len(val))
		for i, item := range val {
			iv, err := toValue(item)
			if err != nil {
				return nil, err
			}
			items[i] = iv
		}
		return qdrant.NewValueList(&qdrant.ListValue{Values: items}), nil
	default:
		return qdrant.NewValue(v)
	}
}

// PayloadMap converts a Qdrant payload back to plain Go values. Integers
// come back as int64, doubles as float64. A nil payload yields nil.
func PayloadMap(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = fromValue(v)
	}
	return result
}

// fromValue recursively converts a Qdrant Value to a Go native type.
func fromValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return PayloadMap(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = fromValue(item)
		}
		return items
	default:
		return nil
	}
}
