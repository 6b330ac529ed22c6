package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/aretw0/schemata/pkg/schema"
)

// Failure codes reported by the built-in validators.
const (
	CodeRequired  = "required"
	CodeEnum      = "enum"
	CodeMin       = "min"
	CodeMax       = "max"
	CodeMinLength = "min-length"
	CodeMaxLength = "max-length"
	CodeHasLength = "has-length"
	CodeMatches   = "matches"
	CodeUnique    = "unique"
)

// Required fails on nil, nil pointers and the empty string.
func Required() Validator {
	return Sync(CodeRequired, func(v any, _ schema.Record) string {
		if isMissing(v) {
			return CodeRequired
		}
		return ""
	})
}

// Enum fails unless the value equals one of values. Numbers compare by value
// regardless of their Go type.
func Enum(values []any) Validator {
	values = append([]any(nil), values...)
	return Sync(CodeEnum, func(v any, _ schema.Record) string {
		for _, allowed := range values {
			if equal(allowed, v) {
				return ""
			}
		}
		return CodeEnum
	})
}

// Min fails unless the value is a number (or numeric string, or time) >= bound.
func Min(bound float64) Validator {
	return Sync(CodeMin, func(v any, _ schema.Record) string {
		n, ok := toFloat64(v)
		if !ok || n < bound {
			return CodeMin
		}
		return ""
	})
}

// Max fails unless the value is a number (or numeric string, or time) <= bound.
func Max(bound float64) Validator {
	return Sync(CodeMax, func(v any, _ schema.Record) string {
		n, ok := toFloat64(v)
		if !ok || n > bound {
			return CodeMax
		}
		return ""
	})
}

// MinLength fails unless the value is a non-empty string, slice or array with
// at least n elements. Strings are measured in runes.
func MinLength(n int) Validator {
	return lengthValidator(CodeMinLength, func(l int) bool { return l >= n })
}

// MaxLength fails unless the value is a non-empty string, slice or array with
// at most n elements.
func MaxLength(n int) Validator {
	return lengthValidator(CodeMaxLength, func(l int) bool { return l <= n })
}

// HasLength fails unless the value is a non-empty string, slice or array with
// exactly n elements.
func HasLength(n int) Validator {
	return lengthValidator(CodeHasLength, func(l int) bool { return l == n })
}

// Matches tests the value against a *regexp.Regexp, or compares it for
// equality with any other pattern value.
func Matches(pattern any) Validator {
	if re, ok := pattern.(*regexp.Regexp); ok {
		return Sync(CodeMatches, func(v any, _ schema.Record) string {
			if v == nil || !re.MatchString(stringOf(v)) {
				return CodeMatches
			}
			return ""
		})
	}
	return Sync(CodeMatches, func(v any, _ schema.Record) string {
		if !equal(pattern, v) {
			return CodeMatches
		}
		return ""
	})
}

func lengthValidator(code string, ok func(int) bool) Validator {
	return Sync(code, func(v any, _ schema.Record) string {
		l, has := lengthOf(v)
		if !has || !ok(l) {
			return code
		}
		return ""
	})
}

func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// lengthOf returns the length of strings, slices and arrays. Empty strings
// and nil report no length at all.
func lengthOf(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return 0, false
		}
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Len(), true
	case reflect.Array:
		return rv.Len(), true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case time.Time:
		return float64(n.UnixMilli()), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func isNumber(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// equal is strict equality, except that numbers of different Go types
// compare by value: YAML decodes 1 as int and JSON as float64.
func equal(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		x, _ := toFloat64(a)
		y, _ := toFloat64(b)
		return x == y
	}
	return reflect.DeepEqual(a, b)
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
