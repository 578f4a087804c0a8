package attribute

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// FromAny converts a Go value into a typed Value.
//
// This exists as an adapter layer for decoded configuration and legacy APIs.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint64(x)
	case *semver.Version:
		if x == nil {
			return Value{}, fmt.Errorf("attribute: nil version")
		}
		return Version(x), nil
	case []Value:
		return Array(x...), nil
	case []any:
		arr := make([]Value, len(x))
		for i := range x {
			vv, err := FromAny(x[i])
			if err != nil {
				return Value{}, err
			}
			arr[i] = vv
		}
		return Value{kind: KindArray, arr: arr}, nil
	case []string:
		return Strings(x...), nil
	case []int:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Int(int64(x[i]))
		}
		return Value{kind: KindArray, arr: arr}, nil
	case []float64:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Float(x[i])
		}
		return Value{kind: KindArray, arr: arr}, nil
	default:
		return Value{}, fmt.Errorf("unsupported attribute value type %T", v)
	}
}

func fromUint64(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		// Avoid silently wrapping large values.
		return Value{}, fmt.Errorf("attribute uint64 out of range: %d", x)
	}
	return Int(int64(x)), nil
}

// FromAnyAs converts v into a Value of kind, parsing strings as needed.
// Slices convert element-wise into an Array of kind.
func FromAnyAs(kind Kind, v any) (Value, error) {
	switch x := v.(type) {
	case []any:
		arr := make([]Value, len(x))
		for i := range x {
			vv, err := FromAnyAs(kind, x[i])
			if err != nil {
				return Value{}, err
			}
			arr[i] = vv
		}
		return Value{kind: KindArray, arr: arr}, nil
	case string:
		return Parse(kind, x)
	}

	val, err := FromAny(v)
	if err != nil {
		return Value{}, err
	}
	if val.kind == kind {
		return val, nil
	}
	return Parse(kind, val.String())
}

// AttributesFromMap converts an untyped map into optional attributes.
//
// Map iteration order is random, so the result is sorted by name to keep
// capability construction deterministic.
func AttributesFromMap(m map[string]any) ([]Attribute, error) {
	attrs := make([]Attribute, 0, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		attrs = append(attrs, Optional(k, vv))
	}
	slices.SortFunc(attrs, func(a, b Attribute) int {
		return strings.Compare(a.Name, b.Name)
	})
	return attrs, nil
}
