package localstore

import (
	"strings"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// matches evaluates f against a payload. A nil filter matches everything.
//
// Supported: field conditions with keyword/integer/boolean match or a
// numeric range, and nested filters. Other condition types are rejected.
func matches(f *qdrant.Filter, payload map[string]*qdrant.Value) (bool, error) {
	if f == nil {
		return true, nil
	}

	for _, c := range f.GetMust() {
		ok, err := matchCondition(c, payload)
		if err != nil || !ok {
			return false, err
		}
	}

	for _, c := range f.GetMustNot() {
		ok, err := matchCondition(c, payload)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}

	if should := f.GetShould(); len(should) > 0 {
		for _, c := range should {
			ok, err := matchCondition(c, payload)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}

	return true, nil
}

func matchCondition(c *qdrant.Condition, payload map[string]*qdrant.Value) (bool, error) {
	if nested := c.GetFilter(); nested != nil {
		return matches(nested, payload)
	}

	field := c.GetField()
	if field == nil {
		return false, invalid("Wrong input: unsupported filter condition %T", c.GetConditionOneOf())
	}

	values := lookupPath(payload, field.GetKey())

	switch {
	case field.GetMatch() != nil:
		return anyValue(values, func(v *qdrant.Value) (bool, error) {
			return matchValue(field.GetMatch(), v)
		})
	case field.GetRange() != nil:
		return anyValue(values, func(v *qdrant.Value) (bool, error) {
			return inRange(field.GetRange(), v), nil
		})
	default:
		return false, invalid("Wrong input: unsupported condition on field `%s`", field.GetKey())
	}
}

func anyValue(values []*qdrant.Value, fn func(*qdrant.Value) (bool, error)) (bool, error) {
	for _, v := range values {
		ok, err := fn(v)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func matchValue(m *qdrant.Match, v *qdrant.Value) (bool, error) {
	switch mv := m.GetMatchValue().(type) {
	case *qdrant.Match_Keyword:
		s, ok := v.GetKind().(*qdrant.Value_StringValue)
		return ok && s.StringValue == mv.Keyword, nil
	case *qdrant.Match_Integer:
		i, ok := v.GetKind().(*qdrant.Value_IntegerValue)
		return ok && i.IntegerValue == mv.Integer, nil
	case *qdrant.Match_Boolean:
		b, ok := v.GetKind().(*qdrant.Value_BoolValue)
		return ok && b.BoolValue == mv.Boolean, nil
	default:
		return false, invalid("Wrong input: unsupported match %T", mv)
	}
}

func inRange(r *qdrant.Range, v *qdrant.Value) bool {
	var x float64
	switch k := v.GetKind().(type) {
	case *qdrant.Value_IntegerValue:
		x = float64(k.IntegerValue)
	case *qdrant.Value_DoubleValue:
		x = k.DoubleValue
	default:
		return false
	}
	if r.Lt != nil && !(x < r.GetLt()) {
		return false
	}
	if r.Gt != nil && !(x > r.GetGt()) {
		return false
	}
	if r.Lte != nil && !(x <= r.GetLte()) {
		return false
	}
	if r.Gte != nil && !(x >= r.GetGte()) {
		return false
	}
	return true
}

// lookupPath resolves a dotted key through nested objects. Lists along the
// way are flattened, so a condition matches if any element matches.
func lookupPath(payload map[string]*qdrant.Value, key string) []*qdrant.Value {
	parts := strings.Split(key, ".")
	current := []*qdrant.Value{{Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{Fields: payload}}}}

	for _, part := range parts {
		var next []*qdrant.Value
		for _, v := range current {
			for _, item := range flatten(v) {
				if child, ok := item.GetStructValue().GetFields()[part]; ok {
					next = append(next, child)
				}
			}
		}
		current = next
	}

	var out []*qdrant.Value
	for _, v := range current {
		out = append(out, flatten(v)...)
	}
	return out
}

func flatten(v *qdrant.Value) []*qdrant.Value {
	if list, ok := v.GetKind().(*qdrant.Value_ListValue); ok {
		return list.ListValue.GetValues()
	}
	return []*qdrant.Value{v}
}
