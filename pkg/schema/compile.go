package schema

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Field is the typed, canonical metadata of one compiled field.
type Field struct {
	Name      string         `mapstructure:"-"`
	Type      TypeTag        `mapstructure:"type"`
	Writable  bool           `mapstructure:"writable"`
	Readable  bool           `mapstructure:"readable"`
	Required  bool           `mapstructure:"required"`
	Enum      []any          `mapstructure:"enum"`
	Min       *float64       `mapstructure:"min"`
	Max       *float64       `mapstructure:"max"`
	MinLength *int           `mapstructure:"minLength"`
	MaxLength *int           `mapstructure:"maxLength"`
	HasLength *int           `mapstructure:"hasLength"`
	Matches   any            `mapstructure:"matches"`
	Validate  []any          `mapstructure:"-"`
	Extra     map[string]any `mapstructure:",remain"`
}

// Compiled is the output of Compile.
type Compiled struct {
	// Definition is the normalized copy of the input: every entry is a Spec
	// with explicit type, writable and readable keys.
	Definition *Definition
	Fields     []string
	Types      map[string]TypeTag
	Specs      map[string]*Field
}

// Compile normalizes a definition and extracts its field order and types.
// The input is never modified. Compiling an already normalized definition
// yields the same result.
func Compile(def *Definition) (*Compiled, error) {
	out := &Compiled{
		Definition: NewDefinition(),
		Fields:     make([]string, 0, def.Len()),
		Types:      make(map[string]TypeTag, def.Len()),
		Specs:      make(map[string]*Field, def.Len()),
	}

	for name, entry := range def.All() {
		tag, err := Resolve(entry)
		if err != nil {
			var ute *UnsupportedTypeError
			if errors.As(err, &ute) {
				return nil, &UnsupportedTypeError{Field: name, Name: ute.Name}
			}
			return nil, fmt.Errorf("field %s: %w", name, err)
		}

		spec := normalize(entry, tag)
		field, err := decodeField(name, spec)
		if err != nil {
			return nil, err
		}

		out.Definition.Set(name, spec)
		out.Fields = append(out.Fields, name)
		out.Types[name] = tag
		out.Specs[name] = field
	}

	return out, nil
}

// normalize rewrites an entry into its canonical Spec form.
func normalize(entry any, tag TypeTag) Spec {
	spec := Spec{}
	if m, ok := asMap(entry); ok {
		for k, v := range m {
			spec[k] = deepCopy(v)
		}
	}
	spec[KeyType] = tag
	// An explicit null counts as unset.
	if spec[KeyWritable] == nil {
		spec[KeyWritable] = true
	}
	if spec[KeyReadable] == nil {
		spec[KeyReadable] = true
	}
	return spec
}

func decodeField(name string, spec Spec) (*Field, error) {
	input := make(map[string]any, len(spec))
	for k, v := range spec {
		if k == KeyValidate {
			continue
		}
		input[k] = v
	}

	field := &Field{Name: name}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  field,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidDefinition, name, err)
	}

	field.Validate = listOf(spec[KeyValidate])
	return field, nil
}

// listOf lifts a scalar into a one-element list and flattens any slice type
// into []any. nil yields nil.
func listOf(v any) []any {
	if v == nil {
		return nil
	}
	if l, ok := v.([]any); ok {
		return append([]any(nil), l...)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
