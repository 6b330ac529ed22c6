package schema

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Normalizes(t *testing.T) {
	def := NewDefinition().
		Set("name", "string").
		Set("age", Spec{"type": Number, "min": 3, "writable": false}).
		Set("meta", Spec{}).
		Set("tags", []any{})

	c, err := Compile(def)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "meta", "tags"}, c.Fields)
	assert.Equal(t, map[string]TypeTag{
		"name": String,
		"age":  Number,
		"meta": Object,
		"tags": Array,
	}, c.Types)

	entry, ok := c.Definition.Get("name")
	require.True(t, ok)
	assert.Equal(t, Spec{"type": String, "writable": true, "readable": true}, entry)

	entry, _ = c.Definition.Get("age")
	assert.Equal(t, Spec{"type": Number, "min": 3, "writable": false, "readable": true}, entry)

	age := c.Specs["age"]
	require.NotNil(t, age.Min)
	assert.Equal(t, 3.0, *age.Min)
	assert.False(t, age.Writable)
	assert.True(t, age.Readable)
	assert.Equal(t, "age", age.Name)
}

func TestCompile_NullFlagsDefaultToTrue(t *testing.T) {
	def := NewDefinition().
		Set("name", Spec{"type": String, "writable": nil, "readable": nil})

	c, err := Compile(def)
	require.NoError(t, err)

	name := c.Specs["name"]
	assert.True(t, name.Writable)
	assert.True(t, name.Readable)

	entry, _ := c.Definition.Get("name")
	assert.Equal(t, Spec{"type": String, "writable": true, "readable": true}, entry)
}

func TestCompile_DoesNotModifyInput(t *testing.T) {
	ageSpec := Spec{"type": "number"}
	def := NewDefinition().Set("name", "String").Set("age", ageSpec)

	_, err := Compile(def)
	require.NoError(t, err)

	entry, _ := def.Get("name")
	assert.Equal(t, "String", entry)
	assert.Equal(t, Spec{"type": "number"}, ageSpec)
}

func TestCompile_Idempotent(t *testing.T) {
	def := NewDefinition().
		Set("name", Spec{"type": "String", "readable": false}).
		Set("age", 0).
		Set("when", Spec{"type": "date", "required": true})

	first, err := Compile(def)
	require.NoError(t, err)

	second, err := Compile(first.Definition)
	require.NoError(t, err)

	assert.Equal(t, first.Fields, second.Fields)
	assert.Equal(t, first.Types, second.Types)
	assert.Equal(t, first.Specs, second.Specs)
	for name, entry := range first.Definition.All() {
		again, _ := second.Definition.Get(name)
		assert.Equal(t, entry, again, name)
	}
}

func TestCompile_Constraints(t *testing.T) {
	re := regexp.MustCompile(`^a`)
	check := func(any) string { return "" }

	def := NewDefinition().Set("code", Spec{
		"type":      "String",
		"required":  true,
		"enum":      []string{"a", "b"},
		"minLength": 1,
		"maxLength": 3.0,
		"hasLength": 2,
		"matches":   re,
		"validate":  check,
		"label":     "Code",
	})

	c, err := Compile(def)
	require.NoError(t, err)

	f := c.Specs["code"]
	assert.True(t, f.Required)
	assert.Equal(t, []any{"a", "b"}, f.Enum)
	assert.Equal(t, 1, *f.MinLength)
	assert.Equal(t, 3, *f.MaxLength)
	assert.Equal(t, 2, *f.HasLength)
	assert.Same(t, re, f.Matches)
	assert.Len(t, f.Validate, 1)
	assert.Equal(t, map[string]any{"label": "Code"}, f.Extra)
	assert.Nil(t, f.Min)
}

func TestCompile_Errors(t *testing.T) {
	t.Run("unsupported type names the field", func(t *testing.T) {
		_, err := Compile(NewDefinition().Set("ok", "String").Set("bad", struct{}{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedType)

		var ute *UnsupportedTypeError
		require.True(t, errors.As(err, &ute))
		assert.Equal(t, "bad", ute.Field)
	})

	t.Run("wrong constraint shape", func(t *testing.T) {
		_, err := Compile(NewDefinition().Set("age", Spec{"type": Number, "min": "three"}))
		assert.ErrorIs(t, err, ErrInvalidDefinition)
	})

	t.Run("wrong flag shape", func(t *testing.T) {
		_, err := Compile(NewDefinition().Set("age", Spec{"writable": "yes"}))
		assert.ErrorIs(t, err, ErrInvalidDefinition)
	})
}

func TestCompile_Empty(t *testing.T) {
	c, err := Compile(nil)
	require.NoError(t, err)
	assert.Empty(t, c.Fields)
	assert.Empty(t, c.Types)
}
