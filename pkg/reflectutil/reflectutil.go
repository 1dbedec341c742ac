package reflectutil

import (
	"encoding/json"
	"reflect"
)

func DerefValue(v reflect.Value) reflect.Value {
	for (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// IsEmptyValue reports whether v is nil, an empty string or container, a nil
// pointer, or the zero value of its type. json.Number values count as empty
// when they denote zero.
func IsEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return n == "" || (err == nil && f == 0)
	}
	val := DerefValue(reflect.ValueOf(v))
	switch val.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Chan, reflect.String:
		return val.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return val.IsNil()
	default:
		return val.IsZero()
	}
}
