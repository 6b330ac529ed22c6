package schema

import "reflect"

// Merge combines two definitions for schema inheritance. Neither input is
// modified and the result shares no maps or slices with base.
//
// For every key of base:
//   - if either value is list-like, the result is base ++ overlay, with
//     scalars treated as one-element lists;
//   - else if both values are structured, they are merged recursively;
//   - else if overlay defines the key, overlay wins;
//   - else base's value is copied.
//
// Keys only present in overlay are appended in overlay order.
func Merge(base, overlay *Definition) *Definition {
	out := NewDefinition()
	for name, bv := range base.All() {
		ov, ok := overlay.Get(name)
		out.Set(name, mergeValue(bv, ov, ok))
	}
	for name, ov := range overlay.All() {
		if _, ok := base.Get(name); ok {
			continue
		}
		out.Set(name, deepCopy(ov))
	}
	return out
}

// MergeSpec applies the Merge rules to two structured values.
func MergeSpec(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, bv := range base {
		ov, ok := overlay[k]
		out[k] = mergeValue(bv, ov, ok)
	}
	for k, ov := range overlay {
		if _, ok := base[k]; ok {
			continue
		}
		out[k] = deepCopy(ov)
	}
	return out
}

func mergeValue(bv, ov any, overlayHas bool) any {
	if isList(bv) || isList(ov) {
		merged := listOf(bv)
		if overlayHas {
			merged = append(merged, listOf(ov)...)
		}
		if merged == nil {
			merged = []any{}
		}
		return merged
	}

	bm, bok := asMap(bv)
	om, ook := asMap(ov)
	if bok && ook {
		merged := MergeSpec(bm, om)
		if _, isSpec := bv.(Spec); isSpec {
			return Spec(merged)
		}
		if _, isSpec := ov.(Spec); isSpec {
			return Spec(merged)
		}
		return merged
	}

	if overlayHas {
		return deepCopy(ov)
	}
	return deepCopy(bv)
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
