package validation

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func check(v Validator, value any) string {
	return v.sync(value, nil)
}

func TestBuiltins(t *testing.T) {
	var nilPtr *string
	now := time.Now()

	tests := []struct {
		name  string
		v     Validator
		value any
		want  string
	}{
		{"required ok", Required(), "x", ""},
		{"required zero number", Required(), 0, ""},
		{"required false", Required(), false, ""},
		{"required nil", Required(), nil, CodeRequired},
		{"required empty string", Required(), "", CodeRequired},
		{"required nil pointer", Required(), nilPtr, CodeRequired},

		{"enum ok", Enum([]any{"a", "b"}), "b", ""},
		{"enum miss", Enum([]any{"a", "b"}), "c", CodeEnum},
		{"enum numbers across types", Enum([]any{1, 2}), float64(2), ""},
		{"enum nil", Enum([]any{"a"}), nil, CodeEnum},

		{"min equal", Min(3), 3, ""},
		{"min above", Min(3), 4.5, ""},
		{"min below", Min(3), 1, CodeMin},
		{"min uint", Min(3), uint8(7), ""},
		{"min numeric string", Min(3), "10", ""},
		{"min not a number", Min(3), "abc", CodeMin},
		{"min missing", Min(3), nil, CodeMin},
		{"min time", Min(0), now, ""},

		{"max equal", Max(10), 10, ""},
		{"max above", Max(10), int64(11), CodeMax},
		{"max missing", Max(10), nil, CodeMax},

		{"min-length ok", MinLength(2), "ab", ""},
		{"min-length runes", MinLength(2), "é", CodeMinLength},
		{"min-length short", MinLength(2), "a", CodeMinLength},
		{"min-length empty string", MinLength(0), "", CodeMinLength},
		{"min-length slice", MinLength(2), []any{1, 2}, ""},
		{"min-length empty slice", MinLength(0), []int{}, ""},
		{"min-length nil", MinLength(0), nil, CodeMinLength},
		{"min-length number", MinLength(1), 12, CodeMinLength},

		{"max-length ok", MaxLength(3), "abc", ""},
		{"max-length long", MaxLength(3), "abcd", CodeMaxLength},
		{"max-length array", MaxLength(1), [2]int{}, CodeMaxLength},

		{"has-length ok", HasLength(3), "abc", ""},
		{"has-length off", HasLength(3), []string{"a"}, CodeHasLength},

		{"matches regexp", Matches(regexp.MustCompile(`^a+$`)), "aaa", ""},
		{"matches regexp miss", Matches(regexp.MustCompile(`^a+$`)), "ab", CodeMatches},
		{"matches regexp on number", Matches(regexp.MustCompile(`^\d+$`)), 42, ""},
		{"matches regexp nil", Matches(regexp.MustCompile(`.*`)), nil, CodeMatches},
		{"matches value", Matches("yes"), "yes", ""},
		{"matches value miss", Matches("yes"), "no", CodeMatches},
		{"matches number", Matches(1), 1.0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, check(tt.v, tt.value))
		})
	}
}

func TestBuiltins_Names(t *testing.T) {
	assert.Equal(t, CodeRequired, Required().Name())
	assert.Equal(t, CodeMinLength, MinLength(1).Name())
	assert.False(t, Min(1).IsAsync())
}

func TestEnum_CopiesValues(t *testing.T) {
	values := []any{"a"}
	v := Enum(values)
	values[0] = "b"
	assert.Equal(t, "", check(v, "a"))
}
