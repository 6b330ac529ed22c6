package schema

import (
	"fmt"
	"reflect"
)

// ToRecord returns the record view of a model.
//
// Maps with string keys are returned as is (map[string]any) or copied. Structs
// and non-nil pointers to structs are read field by field: keys follow the
// same mapstructure naming as Strip, fields of embedded structs are promoted,
// and values are kept with their Go types. Anything else is ErrInvalidModel.
func ToRecord(model any) (Record, error) {
	if m, ok := model.(map[string]any); ok {
		if m == nil {
			return Record{}, nil
		}
		return m, nil
	}

	rv := reflect.ValueOf(model)
	switch {
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		out := make(Record, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil
	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
		return structRecord(rv.Elem(), Record{}), nil
	case rv.Kind() == reflect.Struct:
		return structRecord(rv, Record{}), nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidModel, model)
	}
}

func structRecord(sv reflect.Value, out Record) Record {
	st := sv.Type()
	for i := range st.NumField() {
		sf := st.Field(i)
		fv := sv.Field(i)
		key, skip := structKey(sf)
		if skip {
			continue
		}
		if sf.Anonymous {
			if fv.Kind() == reflect.Pointer {
				// A pointer to an unexported type cannot be followed.
				if fv.IsNil() || !sf.IsExported() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				// Own fields win over promoted ones.
				for k, v := range structRecord(fv, Record{}) {
					if _, ok := out[k]; !ok {
						out[k] = v
					}
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		out[key] = fv.Interface()
	}
	return out
}
