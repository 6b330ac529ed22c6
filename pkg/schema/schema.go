package schema

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// AnonymousName is the name given to schemas built without one.
const AnonymousName = "Anonymous"

// Record is the generic shape of the data validated against a schema.
type Record = map[string]any

// Schema is a compiled, immutable set of named and typed fields.
//
// A schema is either a root, built by Registry.New or Extend, or a subset
// view created by Only, Pick, Except, Writable or Readable. A subset owns
// only its field list; definition, types, field metadata and extensions are
// read from the root it was derived from.
type Schema struct {
	name     string
	source   *Schema
	registry *Registry
	fields   []string

	// Root only.
	definition *Definition
	types      map[string]TypeTag
	specs      map[string]*Field
	ext        map[string]any
}

// Name returns the schema name. Subsets carry their source's name.
func (s *Schema) Name() string { return s.name }

// Source returns the schema a subset was derived from, or nil for a root.
func (s *Schema) Source() *Schema { return s.source }

// Root returns the root schema this view delegates to.
func (s *Schema) Root() *Schema {
	r := s
	for r.source != nil {
		r = r.source
	}
	return r
}

// Registry returns the registry the schema was built with.
func (s *Schema) Registry() *Registry { return s.registry }

// Definition returns the normalized definition, shared with the root and
// every subset of it.
func (s *Schema) Definition() *Definition { return s.Root().definition }

// Types returns the field→type map, shared with the root. It covers every
// field of the root, not only this view's fields. Do not modify it.
func (s *Schema) Types() map[string]TypeTag { return s.Root().types }

// Type returns the type of a field.
func (s *Schema) Type(name string) (TypeTag, bool) {
	t, ok := s.Root().types[name]
	return t, ok
}

// Field returns the compiled metadata of a field.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.Root().specs[name]
	return f, ok
}

// Fields returns a copy of this view's field names, in order.
func (s *Schema) Fields() []string {
	return slices.Clone(s.fields)
}

// Has reports whether name is one of this view's fields.
func (s *Schema) Has(name string) bool {
	return slices.Contains(s.fields, name)
}

// Extension returns data attached to the root by a construction stage.
func (s *Schema) Extension(key string) (any, bool) {
	v, ok := s.Root().ext[key]
	return v, ok
}

// SetExtension attaches data to the root schema. It is meant to be called
// from construction stages, before the schema is shared.
func (s *Schema) SetExtension(key string, value any) {
	s.Root().ext[key] = value
}

// Only returns a view restricted to names, in the given order. Duplicate
// names are dropped. It fails with ErrUnknownField for names this schema
// does not have and with ErrEmptyFieldSet when names is empty.
func (s *Schema) Only(names ...string) (*Schema, error) {
	sub, err := s.subset(names)
	if err != nil {
		return nil, err
	}
	if len(sub.fields) == 0 {
		return nil, ErrEmptyFieldSet
	}
	return sub, nil
}

// Pick is like Only but accepts an empty result.
func (s *Schema) Pick(names ...string) (*Schema, error) {
	return s.subset(names)
}

// Except returns a view without names, keeping this schema's order. Names
// that are not fields are ignored. It fails with ErrEmptyFieldSet when no
// field would remain.
func (s *Schema) Except(names ...string) (*Schema, error) {
	fields := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		if !slices.Contains(names, f) {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return nil, ErrEmptyFieldSet
	}
	return s.derive(fields), nil
}

// WritableFields returns the fields whose writable flag is true.
func (s *Schema) WritableFields() []string {
	return s.filter(KeyWritable)
}

// ReadableFields returns the fields whose readable flag is true.
func (s *Schema) ReadableFields() []string {
	return s.filter(KeyReadable)
}

// Writable returns Only(WritableFields()...).
func (s *Schema) Writable() (*Schema, error) {
	return s.Only(s.WritableFields()...)
}

// Readable returns Only(ReadableFields()...).
func (s *Schema) Readable() (*Schema, error) {
	return s.Only(s.ReadableFields()...)
}

// Extend merges def over this schema's definition (see Merge) and builds a
// new, independent schema on the same registry.
func (s *Schema) Extend(name string, def *Definition) (*Schema, error) {
	return s.registry.New(name, Merge(s.Definition(), def))
}

// Strip removes from model everything that is not one of this view's fields.
//
// For maps with string keys, the extra keys are deleted. For pointers to
// structs, own exported fields not in the schema are reset to their zero
// value; fields promoted from embedded structs are inherited and left alone.
// The key of a struct field is its mapstructure tag name, or its Go name.
func (s *Schema) Strip(model any) error {
	rv := reflect.ValueOf(model)
	switch {
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		if rv.IsNil() {
			return nil
		}
		for _, k := range rv.MapKeys() {
			if !s.Has(k.String()) {
				rv.SetMapIndex(k, reflect.Value{})
			}
		}
		return nil
	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
		sv := rv.Elem()
		st := sv.Type()
		for i := range st.NumField() {
			sf := st.Field(i)
			if sf.Anonymous || !sf.IsExported() {
				continue
			}
			key, skip := structKey(sf)
			if skip || s.Has(key) {
				continue
			}
			sv.Field(i).SetZero()
		}
		return nil
	default:
		return fmt.Errorf("%w: got %T", ErrInvalidModel, model)
	}
}

func structKey(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("mapstructure")
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", true
	}
	if name == "" {
		name = sf.Name
	}
	return name, false
}

func (s *Schema) subset(names []string) (*Schema, error) {
	fields := make([]string, 0, len(names))
	for _, n := range names {
		if !s.Has(n) {
			return nil, fmt.Errorf("%w: %q in schema %s", ErrUnknownField, n, s.name)
		}
		if !slices.Contains(fields, n) {
			fields = append(fields, n)
		}
	}
	return s.derive(fields), nil
}

func (s *Schema) derive(fields []string) *Schema {
	return &Schema{
		name:     s.name,
		source:   s,
		registry: s.registry,
		fields:   fields,
	}
}

func (s *Schema) filter(flag string) []string {
	def := s.Definition()
	out := make([]string, 0, len(s.fields))
	for _, name := range s.fields {
		entry, _ := def.Get(name)
		m, ok := asMap(entry)
		if !ok {
			continue
		}
		if on, _ := m[flag].(bool); on {
			out = append(out, name)
		}
	}
	return out
}
