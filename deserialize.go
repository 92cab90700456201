package gomapper

import (
	"context"
	"maps"
	"reflect"
	"slices"

	"github.com/reoring/gomapper/logger"
)

// run carries per-call state through one Deserialize or Serialize invocation.
type run struct {
	m     *Mapper
	ctx   context.Context
	log   logger.Logger
	depth int
	// visiting holds the addresses of structs on the current serialization
	// path when the cycle guard is enabled.
	visiting map[visitKey]struct{}
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

func (m *Mapper) newRun(ctx context.Context) *run {
	if ctx == nil {
		ctx = context.Background()
	}
	r := &run{m: m, ctx: ctx, log: logger.FromContext(ctx, m.log)}
	if m.cycleGuard {
		r.visiting = make(map[visitKey]struct{})
	}
	return r
}

// deserialize builds a value of struct type t from data. The returned value is
// addressable. On failure no partially built object escapes.
func (r *run) deserialize(data Mapping, t reflect.Type, p pathRef) (reflect.Value, error) {
	meta, err := r.m.resolver.Resolve(t)
	if err != nil {
		return reflect.Value{}, &DeserializeError{Path: p.Pointer(), Code: CodeUnresolvable, Message: reasonOf(err), Cause: err}
	}

	remaining := maps.Clone(data)
	if remaining == nil {
		remaining = Mapping{}
	}
	assigned := make(map[string]bool, len(meta.Fields))

	var obj reflect.Value
	if meta.Constructor != nil {
		params := meta.ConstructorFields()
		args := make([]reflect.Value, len(params))
		for i, f := range params {
			raw, present := remaining[f.Name]
			delete(remaining, f.Name)
			v, err := r.fieldValue(f, f.ParamType, raw, present, p.Field(f.Name))
			if err != nil {
				return reflect.Value{}, err
			}
			args[i] = v
		}
		obj, err = meta.Constructor.call(args)
		if err != nil {
			return reflect.Value{}, rebase(p.Pointer(), err)
		}
		for _, f := range params {
			if f.IsProperty() {
				assigned[f.Name] = true
			}
		}
	} else {
		obj = reflect.New(meta.Type).Elem()
	}

	props := meta.Properties()
	for _, f := range props {
		if assigned[f.Name] || !f.HasDefault {
			continue
		}
		if _, given := remaining[f.Name]; given {
			continue
		}
		v, err := r.defaultValue(f, f.Type, p.Field(f.Name))
		if err != nil {
			return reflect.Value{}, err
		}
		obj.FieldByIndex(f.Index).Set(v)
		assigned[f.Name] = true
		r.log.Debug("applied default", "type", meta.Name(), "field", f.Name)
	}

	keys := slices.Sorted(maps.Keys(remaining))
	for _, key := range keys {
		f, ok := meta.Field(key)
		if !ok || !f.IsProperty() {
			if r.m.unknown == UnknownStrict {
				return reflect.Value{}, deserializeErr(p.Field(key).Pointer(), CodeUnknownKey, map[string]string{"key": key})
			}
			r.log.Debug("ignored unknown key", "type", meta.Name(), "key", key)
			continue
		}
		v, err := r.fieldValue(f, f.Type, remaining[key], true, p.Field(key))
		if err != nil {
			return reflect.Value{}, err
		}
		obj.FieldByIndex(f.Index).Set(v)
		assigned[f.Name] = true
	}

	for _, f := range props {
		if assigned[f.Name] {
			continue
		}
		// A non-zero value left by the constructor counts as assigned.
		if meta.Constructor != nil && !obj.FieldByIndex(f.Index).IsZero() {
			continue
		}
		if !f.Nullable {
			return reflect.Value{}, deserializeErr(p.Field(f.Name).Pointer(), CodeIncomplete, nil)
		}
		obj.FieldByIndex(f.Index).Set(reflect.Zero(f.Type))
		r.log.Debug("filled null", "type", meta.Name(), "field", f.Name)
	}
	return obj, nil
}

// deserializeNested descends one object level, enforcing the depth limit.
func (r *run) deserializeNested(data Mapping, t reflect.Type, p pathRef) (reflect.Value, error) {
	r.depth++
	defer func() { r.depth-- }()
	if r.m.maxDepth > 0 && r.depth > r.m.maxDepth {
		return reflect.Value{}, deserializeErr(p.Pointer(), CodeMaxDepth, nil)
	}
	return r.deserialize(data, t, p)
}

// fieldValue produces the value for one field from its raw input, applying
// the absent/null rule, nested recursion or builtin validation.
func (r *run) fieldValue(f *FieldDescriptor, target reflect.Type, raw any, present bool, p pathRef) (reflect.Value, error) {
	if !present || raw == nil {
		switch {
		case f.HasDefault:
			return r.defaultValue(f, target, p)
		case f.Nullable:
			return reflect.Zero(target), nil
		default:
			return reflect.Value{}, deserializeErr(p.Pointer(), CodeRequired, nil)
		}
	}
	if f.Kind == KindObject {
		m, ok := raw.(map[string]any)
		if !ok {
			return reflect.Value{}, deserializeErr(p.Pointer(), CodeNotObject, nil)
		}
		v, err := r.deserializeNested(m, f.objectType(), p)
		if err != nil {
			return reflect.Value{}, err
		}
		if target.Kind() == reflect.Pointer {
			return v.Addr(), nil
		}
		return v, nil
	}
	ok, err := Validate(f.Kind, raw)
	if err != nil {
		return reflect.Value{}, rebase(p.Pointer(), err)
	}
	if !ok {
		return reflect.Value{}, deserializeErr(p.Pointer(), CodeInvalidType, map[string]string{"expected": f.Kind.String()})
	}
	return r.convert(target, raw, p)
}

// defaultValue converts the declared default into target. Containers are
// rebuilt so that objects never share a mutable default.
func (r *run) defaultValue(f *FieldDescriptor, target reflect.Type, p pathRef) (reflect.Value, error) {
	if f.Default == nil {
		return reflect.Zero(target), nil
	}
	return r.convert(target, f.Default, p)
}

// validateStruct runs the optional go-playground validator on the top-level
// result.
func (r *run) validateStruct(obj reflect.Value) error {
	if r.m.validator == nil {
		return nil
	}
	if err := r.m.validator.StructCtx(r.ctx, obj.Addr().Interface()); err != nil {
		return &DeserializeError{Path: "/", Code: CodeValidation, Message: err.Error(), Cause: err}
	}
	return nil
}
