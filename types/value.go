package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unique"

	"github.com/hupe1980/annogo/internal/conv"
)

// ValueKind identifies the concrete type stored in a Value.
type ValueKind uint8

const (
	// KindAny is only meaningful on an AttributeType: any decodable value is accepted.
	KindAny ValueKind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindArray represents an array value.
	KindArray
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Value is a small typed attribute value.
//
// Strings are interned; tag-like attributes (part of speech, entity category)
// repeat heavily across a document.
type Value struct {
	Kind ValueKind
	I64  int64
	F64  float64
	s    unique.Handle[string]
	B    bool
	A    []Value
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Array returns an array Value.
func Array(v []Value) Value { return Value{Kind: KindArray, A: v} }

// IsNull reports whether v is null or the zero Value.
func (v Value) IsNull() bool { return v.Kind == KindNull || v.Kind == KindAny }

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsArray returns the array value if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// Equal reports whether v and o hold the same kind and value.
func (v Value) Equal(o Value) bool {
	return v.Key() == o.Key()
}

// Key returns a stable string representation for use in maps.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull, KindAny:
		return "null"
	case KindInt:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindArray:
		if len(v.A) == 0 {
			return "a:"
		}
		parts := make([]string, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i].Key()
		}
		return "a:" + strings.Join(parts, "\x1f")
	default:
		return "invalid"
	}
}

// String renders the value for display; strings are returned unquoted.
func (v Value) String() string {
	switch v.Kind {
	case KindNull, KindAny:
		return ""
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return v.s.Value()
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindArray:
		parts := make([]string, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i].String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "invalid"
	}
}

// FromAny converts a Go value into a typed Value without coercion.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
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
		i, err := conv.Uint64ToInt64(uint64(x))
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		i, err := conv.Uint64ToInt64(x)
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case []Value:
		return Array(x), nil
	case []any:
		arr := make([]Value, len(x))
		for i := range x {
			vv, err := FromAny(x[i])
			if err != nil {
				return Value{}, err
			}
			arr[i] = vv
		}
		return Array(arr), nil
	case []string:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = String(x[i])
		}
		return Array(arr), nil
	case []int:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Int(int64(x[i]))
		}
		return Array(arr), nil
	case []float64:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Float(x[i])
		}
		return Array(arr), nil
	case fmt.Stringer:
		return String(x.String()), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// coerce converts v into kind, parsing strings and widening numbers where
// that is lossless enough to be unsurprising.
func coerce(v Value, kind ValueKind) (Value, error) {
	if kind == KindAny || v.Kind == kind || v.Kind == KindNull {
		return v, nil
	}
	switch kind {
	case KindString:
		if v.Kind == KindArray {
			break
		}
		return String(v.String()), nil
	case KindInt:
		switch v.Kind {
		case KindFloat:
			if i, err := conv.Float64ToInt64(v.F64); err == nil {
				return Int(i), nil
			}
		case KindString:
			i, err := strconv.ParseInt(strings.TrimSpace(v.s.Value()), 10, 64)
			if err == nil {
				return Int(i), nil
			}
		case KindBool:
			if v.B {
				return Int(1), nil
			}
			return Int(0), nil
		}
	case KindFloat:
		switch v.Kind {
		case KindInt:
			return Float(float64(v.I64)), nil
		case KindString:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.s.Value()), 64)
			if err == nil {
				return Float(f), nil
			}
		}
	case KindBool:
		switch v.Kind {
		case KindString:
			b, err := strconv.ParseBool(strings.TrimSpace(v.s.Value()))
			if err == nil {
				return Bool(b), nil
			}
		case KindInt:
			return Bool(v.I64 != 0), nil
		}
	case KindArray:
		return Array([]Value{v}), nil
	}
	return Value{}, fmt.Errorf("cannot decode %s %q as %s", v.Kind, v.String(), kind)
}
