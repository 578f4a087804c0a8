package attribute

import (
	"fmt"
)

// Schema declares the expected kind for attribute names.
//
// Attributes not named in the schema are unconstrained. An Array attribute
// satisfies the schema when every element has the declared kind.
type Schema map[string]Kind

// Validate checks that the capability conforms to the schema.
func (s Schema) Validate(c *Capability) error {
	if s == nil {
		return nil
	}
	for _, a := range c.Attributes() {
		expected, ok := s[a.Name]
		if !ok {
			continue
		}
		if !checkKind(a.Value, expected) {
			return &ErrSchemaMismatch{Attribute: a.Name, Expected: expected, Actual: a.Value.Kind()}
		}
	}
	return nil
}

func checkKind(v Value, expected Kind) bool {
	if v.kind != KindArray || expected == KindArray {
		return v.kind == expected
	}
	for _, e := range v.arr {
		if !checkKind(e, expected) {
			return false
		}
	}
	return true
}

// ErrSchemaMismatch indicates an attribute whose kind violates the schema.
type ErrSchemaMismatch struct {
	Attribute string
	Expected  Kind
	Actual    Kind
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("attribute %q has kind %s, expected %s", e.Attribute, e.Actual, e.Expected)
}
