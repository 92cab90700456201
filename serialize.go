package gomapper

import (
	"fmt"
	"reflect"
)

// serialize dumps the struct value rv. When groups is non-empty only fields
// sharing at least one group are kept; nested objects are filtered
// independently with the same groups.
func (r *run) serialize(rv reflect.Value, groups []string, p pathRef) (*Ordered, error) {
	meta, err := r.m.resolver.Resolve(rv.Type())
	if err != nil {
		return nil, err
	}
	if r.visiting != nil && rv.CanAddr() {
		key := visitKey{ptr: rv.Addr().Pointer(), typ: rv.Type()}
		if _, seen := r.visiting[key]; seen {
			return nil, fmt.Errorf("%w at %s", ErrCycle, p.Pointer())
		}
		r.visiting[key] = struct{}{}
		defer delete(r.visiting, key)
	}

	props := meta.Properties()
	out := newOrdered(len(props))
	for _, f := range props {
		if len(groups) > 0 && !f.InGroups(groups) {
			continue
		}
		v, err := r.serializeValue(rv.FieldByIndex(f.Index), groups, p.Field(f.Name))
		if err != nil {
			return nil, err
		}
		out.set(f.Name, v)
	}
	return out, nil
}

func (r *run) serializeNested(rv reflect.Value, groups []string, p pathRef) (*Ordered, error) {
	r.depth++
	defer func() { r.depth-- }()
	if r.m.maxDepth > 0 && r.depth > r.m.maxDepth {
		return nil, fmt.Errorf("gomapper: max depth %d exceeded at %s", r.m.maxDepth, p.Pointer())
	}
	return r.serialize(rv, groups, p)
}

// serializeValue normalises a Go value into the Mapping value alphabet.
func (r *run) serializeValue(v reflect.Value, groups []string, p pathRef) (any, error) {
	switch v.Kind() {
	case reflect.Invalid:
		return nil, nil
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return r.serializeValue(v.Elem(), groups, p)
	case reflect.Struct:
		return r.serializeNested(v, groups, p)
	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		return r.serializeSequence(v, groups, p)
	case reflect.Array:
		return r.serializeSequence(v, groups, p)
	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Key().Kind() != reflect.String {
			return nil, &ResolutionError{Type: v.Type(), Reason: "map keys must be strings"}
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			ev, err := r.serializeValue(iter.Value(), groups, p.Field(k))
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	}
	return v.Interface(), nil
}

func (r *run) serializeSequence(v reflect.Value, groups []string, p pathRef) (any, error) {
	out := make([]any, v.Len())
	for i := range out {
		ev, err := r.serializeValue(v.Index(i), groups, p.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}
