package gomapper

import (
	"encoding/json"
	"reflect"
)

var jsonNumberType = reflect.TypeFor[json.Number]()

// ClassifyType maps a declared Go type onto a Kind. Pointers keep the kind of
// their element and are nullable; interface{} is KindAny and always nullable.
func ClassifyType(t reflect.Type) (Kind, bool, error) {
	if t == nil {
		return KindInvalid, false, &ResolutionError{Reason: "nil type"}
	}
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
		if t.Kind() == reflect.Pointer {
			return KindInvalid, false, &ResolutionError{Type: t, Reason: "pointer to pointer is not supported"}
		}
	}
	if t == jsonNumberType {
		return KindFloat, nullable, nil
	}
	switch t.Kind() {
	case reflect.String:
		return KindString, nullable, nil
	case reflect.Bool:
		return KindBool, nullable, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger, nullable, nil
	case reflect.Float32, reflect.Float64:
		return KindFloat, nullable, nil
	case reflect.Slice, reflect.Array:
		return KindContainer, nullable, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return KindInvalid, false, &ResolutionError{Type: t, Reason: "map keys must be strings"}
		}
		return KindContainer, nullable, nil
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return KindInvalid, false, &ResolutionError{Type: t, Reason: "only empty interfaces are supported"}
		}
		return KindAny, true, nil
	case reflect.Struct:
		return KindObject, nullable, nil
	default:
		return KindInvalid, false, &ResolutionError{Type: t, Reason: "unsupported kind " + t.Kind().String()}
	}
}
