package schemata

import "errors"

var (
	// ErrUnknownSchema is returned when a catalog has no schema with the given name.
	ErrUnknownSchema = errors.New("schemata: unknown schema")

	// ErrValueTaken is returned by Claim when a unique value is already taken.
	ErrValueTaken = errors.New("schemata: unique value already taken")
)
