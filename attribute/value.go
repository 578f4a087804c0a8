package attribute

import (
	"cmp"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
	"unique"

	"github.com/Masterminds/semver/v3"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents the zero Value.
	KindInvalid Kind = iota
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindChar represents a single character.
	KindChar
	// KindVersion represents a semantic version.
	KindVersion
	// KindArray represents a multi-valued attribute.
	KindArray
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindVersion:
		return "version"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Ordered reports whether values of this kind carry a total order.
func (k Kind) Ordered() bool {
	switch k {
	case KindString, KindInt, KindFloat, KindChar, KindVersion:
		return true
	default:
		return false
	}
}

// Value is a small immutable typed value attached to a capability.
//
// The representation is a closed variant: filtering switches on Kind and never
// needs reflection.
type Value struct {
	kind Kind
	i64  int64
	f64  float64
	s    unique.Handle[string]
	b    bool
	r    rune
	ver  *semver.Version
	arr  []Value
}

// String returns a string Value.
func String(v string) Value { return Value{kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{kind: KindInt, i64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{kind: KindFloat, f64: v} }

// Char returns a single character Value.
func Char(v rune) Value { return Value{kind: KindChar, r: v} }

// Version returns a version Value. A nil version yields the zero Value.
func Version(v *semver.Version) Value {
	if v == nil {
		return Value{}
	}
	return Value{kind: KindVersion, ver: v}
}

// MustVersion parses text as a semantic version and panics on failure.
func MustVersion(text string) Value {
	return Version(semver.MustParse(text))
}

// Array returns a multi-valued Value. The elements are copied.
func Array(elems ...Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: KindArray, arr: cp}
}

// Strings is a shorthand for an Array of String values.
func Strings(elems ...string) Value {
	arr := make([]Value, len(elems))
	for i, e := range elems {
		arr[i] = String(e)
	}
	return Value{kind: KindArray, arr: arr}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f64, true
}

// AsChar returns the rune if Kind is KindChar.
func (v Value) AsChar() (rune, bool) {
	if v.kind != KindChar {
		return 0, false
	}
	return v.r, true
}

// AsVersion returns the version if Kind is KindVersion.
func (v Value) AsVersion() (*semver.Version, bool) {
	if v.kind != KindVersion {
		return nil, false
	}
	return v.ver, true
}

// AsArray returns the elements if Kind is KindArray.
// The returned slice must not be modified.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// Key returns a stable string representation for use in index buckets.
//
// Two scalar values of the same kind share a key iff Compare reports them
// equal. Arrays have no bucket key of their own; the index flattens them.
func (v Value) Key() string {
	switch v.kind {
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.b {
			return "b:1"
		}
		return "b:0"
	case KindInt:
		return "i:" + strconv.FormatInt(v.i64, 10)
	case KindFloat:
		switch {
		case math.IsNaN(v.f64):
			return "f:nan"
		case v.f64 == 0:
			return "f:0"
		}
		return "f:" + strconv.FormatUint(math.Float64bits(v.f64), 16)
	case KindChar:
		return "c:" + strconv.FormatInt(int64(v.r), 10)
	case KindVersion:
		return "v:" + versionKey(v.ver)
	case KindArray:
		parts := make([]string, len(v.arr))
		for i := range v.arr {
			parts[i] = v.arr[i].Key()
		}
		return "a:" + strings.Join(parts, "\x1f")
	default:
		return "invalid"
	}
}

func versionKey(ver *semver.Version) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(ver.Major(), 10))
	sb.WriteByte('.')
	sb.WriteString(strconv.FormatUint(ver.Minor(), 10))
	sb.WriteByte('.')
	sb.WriteString(strconv.FormatUint(ver.Patch(), 10))
	if pre := ver.Prerelease(); pre != "" {
		sb.WriteByte('-')
		sb.WriteString(pre)
	}
	return sb.String()
}

// Compare orders two values of the same ordered kind.
// ok is false when the kinds differ or the kind is not ordered.
func (v Value) Compare(o Value) (c int, ok bool) {
	if v.kind != o.kind {
		return 0, false
	}
	switch v.kind {
	case KindString:
		return strings.Compare(v.s.Value(), o.s.Value()), true
	case KindInt:
		return cmp.Compare(v.i64, o.i64), true
	case KindFloat:
		return compareFloat(v.f64, o.f64), true
	case KindChar:
		return cmp.Compare(v.r, o.r), true
	case KindVersion:
		return v.ver.Compare(o.ver), true
	default:
		return 0, false
	}
}

// compareFloat orders NaN above every number and equal to itself, and
// treats -0 and 0 as equal.
func compareFloat(a, b float64) int {
	switch aNaN, bNaN := math.IsNaN(a), math.IsNaN(b); {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(a, b)
}

// Equal reports whether two values are equal. Arrays compare element-wise.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindInvalid:
		return true
	default:
		c, _ := v.Compare(o)
		return c == 0
	}
}

// String renders the value in a form accepted by Parse for the same kind.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s.Value()
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case KindChar:
		return string(v.r)
	case KindVersion:
		return v.ver.String()
	case KindArray:
		parts := make([]string, len(v.arr))
		for i := range v.arr {
			parts[i] = v.arr[i].String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return "<invalid>"
	}
}

// Parse converts text into a Value of the given scalar kind.
//
// Numeric, boolean and version text is trimmed first. Booleans accept only
// "true" and "false" (case-insensitive). Characters take the first rune.
func Parse(kind Kind, text string) (Value, error) {
	switch kind {
	case KindString:
		return String(text), nil
	case KindBool:
		t := strings.TrimSpace(text)
		switch {
		case strings.EqualFold(t, "true"):
			return Bool(true), nil
		case strings.EqualFold(t, "false"):
			return Bool(false), nil
		}
		return Value{}, &ErrConversion{Kind: kind, Text: text}
	case KindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, &ErrConversion{Kind: kind, Text: text, cause: err}
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, &ErrConversion{Kind: kind, Text: text, cause: err}
		}
		return Float(f), nil
	case KindChar:
		if text == "" {
			return Value{}, &ErrConversion{Kind: kind, Text: text}
		}
		r, _ := utf8.DecodeRuneInString(text)
		return Char(r), nil
	case KindVersion:
		ver, err := semver.NewVersion(strings.TrimSpace(text))
		if err != nil {
			return Value{}, &ErrConversion{Kind: kind, Text: text, cause: err}
		}
		return Version(ver), nil
	default:
		return Value{}, &ErrConversion{Kind: kind, Text: text}
	}
}

// ParseKind resolves a kind name as produced by Kind.String.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "string":
		return KindString, nil
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer", "long":
		return KindInt, nil
	case "float", "double":
		return KindFloat, nil
	case "char", "character":
		return KindChar, nil
	case "version":
		return KindVersion, nil
	default:
		return KindInvalid, &ErrUnknownKind{Name: name}
	}
}
