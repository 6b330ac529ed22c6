package validation

import (
	"context"

	"github.com/aretw0/schemata/pkg/schema"
)

// SyncFunc checks a field value and returns a failure code, or "" on success.
// rec is the whole record being validated.
type SyncFunc func(value any, rec schema.Record) string

// AsyncFunc checks a field value and reports through done exactly once, with
// a failure code or "". It may return before calling done.
type AsyncFunc func(ctx context.Context, value any, rec schema.Record, done func(code string))

// Validator is one step of a field chain: either synchronous or asynchronous.
// The zero value is not usable; build validators with Sync or Async.
type Validator struct {
	name  string
	sync  SyncFunc
	async AsyncFunc
}

// Sync wraps a synchronous check.
func Sync(name string, fn SyncFunc) Validator {
	return Validator{name: name, sync: fn}
}

// Async wraps an asynchronous check.
func Async(name string, fn AsyncFunc) Validator {
	return Validator{name: name, async: fn}
}

// Name returns the name given at construction.
func (v Validator) Name() string { return v.name }

// IsAsync reports whether the validator completes through a callback.
func (v Validator) IsAsync() bool { return v.async != nil }

func (v Validator) valid() bool {
	return (v.sync == nil) != (v.async == nil)
}

// asValidator accepts the forms allowed in a field's "validate" entry.
func asValidator(entry any) (Validator, bool) {
	switch fn := entry.(type) {
	case Validator:
		return fn, fn.valid()
	case *Validator:
		if fn == nil {
			return Validator{}, false
		}
		return *fn, fn.valid()
	case SyncFunc:
		return Sync("custom", fn), fn != nil
	case func(any, schema.Record) string:
		return Sync("custom", fn), fn != nil
	case AsyncFunc:
		return Async("custom", fn), fn != nil
	case func(context.Context, any, schema.Record, func(string)):
		return Async("custom", fn), fn != nil
	default:
		return Validator{}, false
	}
}
