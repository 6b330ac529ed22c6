package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/schemata/pkg/schema"
)

var (
	// ErrInvalidModel is returned by Validate when the model is not a record.
	ErrInvalidModel = schema.ErrInvalidModel

	// ErrMissingValidators is returned by Validate when the schema was built
	// without the validation plugin.
	ErrMissingValidators = errors.New("validation: validators not defined, use the validation plugin before building schemas")

	// ErrInvalidValidator is returned at schema construction when a "validate"
	// entry is not a Validator.
	ErrInvalidValidator = errors.New("validation: invalid validator")

	// ErrValidationFailed is matched by every *FailedError.
	ErrValidationFailed = errors.New("validation: record is invalid")
)

// FailedError is returned by Pending.Wait when at least one field failed.
// It carries the same result the callback receives.
type FailedError struct {
	Result *Result
}

func (e *FailedError) Error() string {
	fields := make([]string, 0, len(e.Result.Errors))
	for f := range e.Result.Errors {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	var b strings.Builder
	b.WriteString("validation failed:")
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%s", f, strings.Join(e.Result.Errors[f], ","))
	}
	return b.String()
}

// Is reports whether target is ErrValidationFailed.
func (e *FailedError) Is(target error) bool {
	return target == ErrValidationFailed
}

// IsFailed returns the result carried by err if it is or wraps a *FailedError.
func IsFailed(err error) (*Result, bool) {
	var e *FailedError
	if errors.As(err, &e) {
		return e.Result, true
	}
	return nil, false
}
