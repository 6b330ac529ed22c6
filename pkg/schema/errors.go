package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is matched by every *UnsupportedTypeError.
	ErrUnsupportedType = errors.New("schema: unsupported type")

	// ErrEmptyFieldSet is returned when a subset operation would leave no fields.
	ErrEmptyFieldSet = errors.New("schema: cannot create a subset with no fields")

	// ErrUnknownField is returned when a subset names a field its source does not have.
	ErrUnknownField = errors.New("schema: unknown field")

	// ErrInvalidDefinition is returned when a field definition carries values of the wrong shape.
	ErrInvalidDefinition = errors.New("schema: invalid field definition")

	// ErrInvalidModel is returned when a record argument is not a structured record.
	ErrInvalidModel = errors.New("schema: model must be a record")
)

// UnsupportedTypeError reports a type hint outside the closed TypeTag set.
type UnsupportedTypeError struct {
	Field string // empty when resolving outside of a definition
	Name  string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: type %q is not supported", e.Name)
	}
	return fmt.Sprintf("schema: field %q: type %q is not supported", e.Field, e.Name)
}

// Is reports whether target is ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// IsUnsupportedType returns true if err is or wraps an *UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	var e *UnsupportedTypeError
	return errors.As(err, &e)
}
