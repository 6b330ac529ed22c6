package ports

import (
	"context"
	"errors"
)

// ErrEmptyValue is returned when an index operation is given an empty value.
var ErrEmptyValue = errors.New("ports: empty index value")

// UniqueIndex records which values are taken within a scope (usually
// "Schema.field"). The unique validator only reads it through Exists; values
// are added with Claim once a record is accepted (Catalog.Claim, or
// "schemata validate --claim") and removed with Release by the host
// application when the record goes away.
type UniqueIndex interface {
	// Exists reports whether value is already taken in scope.
	Exists(ctx context.Context, scope, value string) (bool, error)

	// Claim marks value as taken. It returns false, without error, when the
	// value was already taken.
	Claim(ctx context.Context, scope, value string) (bool, error)

	// Release frees value. Releasing a free value is not an error.
	Release(ctx context.Context, scope, value string) error
}
