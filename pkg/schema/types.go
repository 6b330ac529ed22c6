package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// TypeTag is the canonical type of a schema field.
type TypeTag string

// The closed set of supported field types.
const (
	String  TypeTag = "String"
	Number  TypeTag = "Number"
	Boolean TypeTag = "Boolean"
	Date    TypeTag = "Date"
	Array   TypeTag = "Array"
	Object  TypeTag = "Object"
)

// TypeTags returns every supported tag in declaration order.
func TypeTags() []TypeTag {
	return []TypeTag{String, Number, Boolean, Date, Array, Object}
}

// Valid reports whether t belongs to the closed tag set.
func (t TypeTag) Valid() bool {
	switch t {
	case String, Number, Boolean, Date, Array, Object:
		return true
	default:
		return false
	}
}

func (t TypeTag) String() string { return string(t) }

var timeType = reflect.TypeOf(time.Time{})

// referenceKinds maps Go type references (reflect.Type) to their tag.
// Only kinds listed here are accepted; everything else is unsupported.
var referenceKinds = map[reflect.Kind]TypeTag{
	reflect.String:  String,
	reflect.Bool:    Boolean,
	reflect.Int:     Number,
	reflect.Int8:    Number,
	reflect.Int16:   Number,
	reflect.Int32:   Number,
	reflect.Int64:   Number,
	reflect.Uint:    Number,
	reflect.Uint8:   Number,
	reflect.Uint16:  Number,
	reflect.Uint32:  Number,
	reflect.Uint64:  Number,
	reflect.Float32: Number,
	reflect.Float64: Number,
	reflect.Slice:   Array,
	reflect.Array:   Array,
	reflect.Map:     Object,
}

// Resolve determines the canonical TypeTag of a field entry.
//
// The hint may be:
//   - a structured field definition (Spec or map[string]any): its "type" entry
//     is resolved, defaulting to Object when absent;
//   - a TypeTag;
//   - a type name such as "number" (casing is canonicalized, unknown names
//     fall back to String);
//   - a reflect.Type such as reflect.TypeOf(0);
//   - a representative literal such as 0, true or []any{}.
//
// Anything else fails with an *UnsupportedTypeError.
func Resolve(hint any) (TypeTag, error) {
	switch h := hint.(type) {
	case Spec:
		return resolveSpec(h)
	case map[string]any:
		return resolveSpec(h)
	case TypeTag:
		if !h.Valid() {
			return "", &UnsupportedTypeError{Name: string(h)}
		}
		return h, nil
	case string:
		return resolveName(h), nil
	case reflect.Type:
		return resolveReference(h)
	default:
		return resolveLiteral(hint)
	}
}

func resolveSpec(spec map[string]any) (TypeTag, error) {
	t, ok := spec[KeyType]
	if !ok || t == nil {
		return Object, nil
	}
	return Resolve(t)
}

func resolveName(name string) TypeTag {
	if name == "" {
		return String
	}
	tag := TypeTag(strings.ToUpper(name[:1]) + name[1:])
	if !tag.Valid() {
		return String
	}
	return tag
}

func resolveReference(t reflect.Type) (TypeTag, error) {
	if t == timeType {
		return Date, nil
	}
	if t.Kind() == reflect.Struct || t.Kind() == reflect.Pointer {
		return "", &UnsupportedTypeError{Name: t.String()}
	}
	tag, ok := referenceKinds[t.Kind()]
	if !ok {
		return "", &UnsupportedTypeError{Name: t.String()}
	}
	return tag, nil
}

func resolveLiteral(v any) (TypeTag, error) {
	switch v.(type) {
	case nil:
		return "", &UnsupportedTypeError{Name: "nil"}
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Number, nil
	case bool:
		return Boolean, nil
	case time.Time, *time.Time:
		return Date, nil
	case []any, []string, []int, []float64, []bool:
		return Array, nil
	}

	// Other slices and maps are still recognisable by kind.
	switch rt := reflect.TypeOf(v); rt.Kind() {
	case reflect.Slice, reflect.Array:
		return Array, nil
	case reflect.Map:
		return Object, nil
	default:
		return "", &UnsupportedTypeError{Name: fmt.Sprintf("%T", v)}
	}
}
