package gomapper

import (
	"encoding/json"
	"reflect"
	"strconv"
)

// Validate checks a raw wire value against a builtin kind.
//
//   - KindString accepts only strings
//   - KindBool accepts only booleans
//   - KindContainer accepts only sequence or mapping shaped values
//   - KindInteger accepts only integers (including integral json.Number)
//   - KindFloat accepts integers and floats, never strings
//   - KindAny accepts every value
//
// Any other kind, KindObject included, is a DeserializeError.
func Validate(kind Kind, value any) (bool, error) {
	switch kind {
	case KindString:
		return isString(value), nil
	case KindBool:
		return isBool(value), nil
	case KindContainer:
		return isContainer(value), nil
	case KindInteger:
		return isInteger(value), nil
	case KindFloat:
		return isInteger(value) || isFloat(value), nil
	case KindAny:
		return true, nil
	default:
		return false, deserializeErr("", CodeUnsupportedKind, map[string]string{"kind": kind.String()})
	}
}

func isString(v any) bool {
	if _, ok := v.(json.Number); ok {
		return false
	}
	if _, ok := v.(string); ok {
		return true
	}
	return v != nil && reflect.TypeOf(v).Kind() == reflect.String
}

func isBool(v any) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Bool
}

func isContainer(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return true
	case nil:
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

func isInteger(v any) bool {
	if n, ok := v.(json.Number); ok {
		if _, err := n.Int64(); err == nil {
			return true
		}
		_, err := strconv.ParseUint(n.String(), 10, 64)
		return err == nil
	}
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(v any) bool {
	if n, ok := v.(json.Number); ok {
		_, err := n.Float64()
		return err == nil
	}
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
