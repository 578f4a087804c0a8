package capset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/capset/attribute"
)

var (
	// ErrNilCapability is returned when a nil capability is added.
	ErrNilCapability = errors.New("nil capability")

	// ErrSchemaViolation is returned when a capability does not conform to
	// the configured schema.
	ErrSchemaViolation = errors.New("schema violation")
)

// ErrInvalidFilter indicates a filter string that failed to parse.
//
// The underlying *filter.ParseError can be accessed via errors.As.
type ErrInvalidFilter struct {
	Filter string
	cause  error
}

func (e *ErrInvalidFilter) Error() string {
	return fmt.Sprintf("invalid filter %q: %v", e.Filter, e.cause)
}

func (e *ErrInvalidFilter) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var mismatch *attribute.ErrSchemaMismatch
	if errors.As(err, &mismatch) {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	return err
}
