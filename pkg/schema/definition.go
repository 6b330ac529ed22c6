package schema

import (
	"fmt"
	"iter"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Keys understood in a structured field definition.
const (
	KeyType      = "type"
	KeyWritable  = "writable"
	KeyReadable  = "readable"
	KeyRequired  = "required"
	KeyEnum      = "enum"
	KeyMin       = "min"
	KeyMax       = "max"
	KeyMinLength = "minLength"
	KeyMaxLength = "maxLength"
	KeyHasLength = "hasLength"
	KeyMatches   = "matches"
	KeyValidate  = "validate"
)

// Spec is a structured field definition, e.g.
//
//	schema.Spec{"type": schema.Number, "min": 0, "required": true}
type Spec map[string]any

// Definition maps field names to field entries. An entry is either a Spec or
// a plain type hint (see Resolve). Insertion order is the field order used by
// every schema built from the definition.
//
// The zero value and a nil *Definition are empty definitions.
type Definition struct {
	entries *orderedmap.OrderedMap[string, any]
}

// NewDefinition creates an empty definition.
func NewDefinition() *Definition {
	return &Definition{entries: orderedmap.New[string, any]()}
}

// Set adds or replaces an entry. Replacing keeps the original position.
func (d *Definition) Set(name string, entry any) *Definition {
	if d.entries == nil {
		d.entries = orderedmap.New[string, any]()
	}
	d.entries.Set(name, entry)
	return d
}

// Get returns the entry stored under name.
func (d *Definition) Get(name string) (any, bool) {
	if d == nil || d.entries == nil {
		return nil, false
	}
	return d.entries.Get(name)
}

// Delete removes an entry.
func (d *Definition) Delete(name string) {
	if d == nil || d.entries == nil {
		return
	}
	d.entries.Delete(name)
}

// Len returns the number of entries.
func (d *Definition) Len() int {
	if d == nil || d.entries == nil {
		return 0
	}
	return d.entries.Len()
}

// Names returns the field names in insertion order.
func (d *Definition) Names() []string {
	names := make([]string, 0, d.Len())
	for name := range d.All() {
		names = append(names, name)
	}
	return names
}

// All iterates over the entries in insertion order.
func (d *Definition) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if d == nil || d.entries == nil {
			return
		}
		for pair := d.entries.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Clone returns a deep copy. Maps and slices are copied; functions and other
// leaf values are shared.
func (d *Definition) Clone() *Definition {
	out := NewDefinition()
	for name, entry := range d.All() {
		out.Set(name, deepCopy(entry))
	}
	return out
}

// UnmarshalYAML decodes a YAML mapping while keeping key order.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected a mapping of fields, got line %d", ErrInvalidDefinition, node.Line)
	}

	d.entries = orderedmap.New[string, any]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var entry any
		if err := value.Decode(&entry); err != nil {
			return fmt.Errorf("field %s: %w", key.Value, err)
		}
		if m, ok := entry.(map[string]any); ok {
			entry = Spec(m)
		}
		d.entries.Set(key.Value, entry)
	}
	return nil
}

// UnmarshalJSON decodes a JSON object while keeping key order.
func (d *Definition) UnmarshalJSON(data []byte) error {
	entries := orderedmap.New[string, any]()
	if err := entries.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		if m, ok := pair.Value.(map[string]any); ok {
			pair.Value = Spec(m)
		}
	}
	d.entries = entries
	return nil
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case Spec:
		out := make(Spec, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	case nil:
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface()
	default:
		return v
	}
}

// asMap returns the structured form of an entry, if it has one.
func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case Spec:
		return t, true
	case map[string]any:
		return t, true
	default:
		return nil, false
	}
}
