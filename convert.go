package gomapper

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// convert turns a validated raw wire value into a value of Go type t.
// Containers are rebuilt element-wise so that the result never aliases the
// input; struct elements are deserialized recursively.
func (r *run) convert(t reflect.Type, raw any, p pathRef) (reflect.Value, error) {
	if rv := reflect.ValueOf(raw); rv.Kind() == reflect.Pointer && t.Kind() != reflect.Interface {
		// Pointer values only come from declared defaults; copy what they
		// point at.
		if rv.IsNil() {
			raw = nil
		} else {
			raw = rv.Elem().Interface()
		}
	}
	if raw == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, deserializeErr(p.Pointer(), CodeInvalidType, map[string]string{"expected": t.String()})
	}
	rt := reflect.TypeOf(raw)
	switch t.Kind() {
	case reflect.Interface:
		if !rt.AssignableTo(t) {
			return reflect.Value{}, deserializeErr(p.Pointer(), CodeInvalidType, map[string]string{"expected": t.String()})
		}
		v := reflect.New(t).Elem()
		v.Set(reflect.ValueOf(cloneValue(raw)))
		return v, nil
	case reflect.Pointer:
		ev, err := r.convert(t.Elem(), raw, p)
		if err != nil {
			return reflect.Value{}, err
		}
		if ev.CanAddr() && ev.Type() == t.Elem() && t.Elem().Kind() == reflect.Struct {
			return ev.Addr(), nil
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(ev)
		return ptr, nil
	case reflect.Struct:
		if rt == t {
			v := reflect.New(t).Elem()
			v.Set(reflect.ValueOf(raw))
			return v, nil
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return reflect.Value{}, deserializeErr(p.Pointer(), CodeNotObject, nil)
		}
		return r.deserializeNested(m, t, p)
	case reflect.Slice, reflect.Array:
		return r.convertSequence(t, raw, p)
	case reflect.Map:
		return r.convertMap(t, raw, p)
	}
	if t == jsonNumberType {
		return convertJSONNumber(raw, p)
	}
	return convertScalar(t, raw, p)
}

func (r *run) convertSequence(t reflect.Type, raw any, p pathRef) (reflect.Value, error) {
	src := reflect.ValueOf(raw)
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		return reflect.Value{}, deserializeErr(p.Pointer(), CodeInvalidType, map[string]string{"expected": t.String()})
	}
	n := src.Len()
	var out reflect.Value
	if t.Kind() == reflect.Array {
		if n != t.Len() {
			return reflect.Value{}, deserializeErr(p.Pointer(), CodeInvalidType, map[string]string{"expected": t.String()})
		}
		out = reflect.New(t).Elem()
	} else {
		out = reflect.MakeSlice(t, n, n)
	}
	for i := 0; i < n; i++ {
		ev, err := r.convert(t.Elem(), src.Index(i).Interface(), p.Index(i))
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func (r *run) convertMap(t reflect.Type, raw any, p pathRef) (reflect.Value, error) {
	src := reflect.ValueOf(raw)
	if src.Kind() != reflect.Map || src.Type().Key().Kind() != reflect.String {
		return reflect.Value{}, deserializeErr(p.Pointer(), CodeInvalidType, map[string]string{"expected": t.String()})
	}
	out := reflect.MakeMapWithSize(t, src.Len())
	iter := src.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		ev, err := r.convert(t.Elem(), iter.Value().Interface(), p.Field(k))
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
	}
	return out, nil
}

func convertScalar(t reflect.Type, raw any, p pathRef) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	invalid := func() (reflect.Value, error) {
		return reflect.Value{}, deserializeErr(p.Pointer(), CodeInvalidType, map[string]string{"expected": t.String()})
	}
	overflow := func() (reflect.Value, error) {
		return reflect.Value{}, deserializeErr(p.Pointer(), CodeOverflow, map[string]string{"type": t.String()})
	}
	switch t.Kind() {
	case reflect.String:
		if !isString(raw) {
			return invalid()
		}
		v.SetString(reflect.ValueOf(raw).String())
	case reflect.Bool:
		if !isBool(raw) {
			return invalid()
		}
		v.SetBool(reflect.ValueOf(raw).Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !isInteger(raw) {
			return invalid()
		}
		n, ok := int64Of(raw)
		if !ok || v.OverflowInt(n) {
			return overflow()
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !isInteger(raw) {
			return invalid()
		}
		n, ok := uint64Of(raw)
		if !ok || v.OverflowUint(n) {
			return overflow()
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if !isInteger(raw) && !isFloat(raw) {
			return invalid()
		}
		f, ok := float64Of(raw)
		if !ok || v.OverflowFloat(f) {
			return overflow()
		}
		v.SetFloat(f)
	default:
		return invalid()
	}
	return v, nil
}

func convertJSONNumber(raw any, p pathRef) (reflect.Value, error) {
	var s string
	switch {
	case isInteger(raw):
		if n, ok := raw.(json.Number); ok {
			s = n.String()
		} else if i, ok := int64Of(raw); ok {
			s = strconv.FormatInt(i, 10)
		} else if u, ok := uint64Of(raw); ok {
			s = strconv.FormatUint(u, 10)
		}
	case isFloat(raw):
		if n, ok := raw.(json.Number); ok {
			s = n.String()
		} else {
			f, _ := float64Of(raw)
			s = strconv.FormatFloat(f, 'g', -1, 64)
		}
	default:
		return reflect.Value{}, deserializeErr(p.Pointer(), CodeInvalidType, map[string]string{"expected": "number"})
	}
	return reflect.ValueOf(json.Number(s)), nil
}

func int64Of(raw any) (int64, bool) {
	if n, ok := raw.(json.Number); ok {
		i, err := n.Int64()
		return i, err == nil
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func uint64Of(raw any) (uint64, bool) {
	if n, ok := raw.(json.Number); ok {
		u, err := strconv.ParseUint(n.String(), 10, 64)
		return u, err == nil
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	}
	return 0, false
}

func float64Of(raw any) (float64, bool) {
	if n, ok := raw.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// cloneValue copies mapping and sequence values so that an interface field
// never aliases its source.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
