package attribute

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAttribute is returned when a capability names an attribute twice.
	ErrDuplicateAttribute = errors.New("duplicate attribute")

	// ErrEmptyName is returned for an attribute without a name.
	ErrEmptyName = errors.New("empty attribute name")

	// ErrInvalidValue is returned for an attribute holding the zero Value.
	ErrInvalidValue = errors.New("invalid attribute value")
)

// ErrConversion indicates that text could not be converted into a Value of Kind.
//
// The underlying parse error (if any) can be accessed via errors.Unwrap.
type ErrConversion struct {
	Kind  Kind
	Text  string
	cause error
}

func (e *ErrConversion) Error() string {
	return fmt.Sprintf("cannot convert %q to %s", e.Text, e.Kind)
}

func (e *ErrConversion) Unwrap() error { return e.cause }

// ErrUnknownKind indicates an unrecognized kind name.
type ErrUnknownKind struct {
	Name string
}

func (e *ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown attribute kind %q", e.Name)
}
