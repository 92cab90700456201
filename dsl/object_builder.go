package dsl

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/reoring/gomapper"
)

// ObjectOf returns a builder for the metadata of struct type T.
func ObjectOf[T any]() *objectBuilderT[T] {
	return &objectBuilderT[T]{overrides: map[string]*fieldOverride{}}
}

type objectBuilderT[T any] struct {
	ctorFn     any
	ctorParams []string
	hasCtor    bool
	order      []string // field declaration order
	overrides  map[string]*fieldOverride
}

type fieldOverride struct {
	groups     []string
	setGroups  bool
	def        any
	setDefault bool
	nullable   bool
	kind       gomapper.Kind
	ignore     bool
}

// fieldStepT keeps the selected field so that modifiers chain.
type fieldStepT[T any] struct {
	tb   *objectBuilderT[T]
	name string
}

// Constructor declares the factory used to create T. params name the
// Mapping key feeding each parameter, in order.
func (tb *objectBuilderT[T]) Constructor(fn any, params ...string) *objectBuilderT[T] {
	tb.ctorFn = fn
	tb.ctorParams = append([]string(nil), params...)
	tb.hasCtor = true
	return tb
}

// Field selects a field (a property or a constructor parameter) by name.
func (tb *objectBuilderT[T]) Field(name string) *fieldStepT[T] {
	if _, ok := tb.overrides[name]; !ok {
		tb.overrides[name] = &fieldOverride{}
		tb.order = append(tb.order, name)
	}
	return &fieldStepT[T]{tb: tb, name: name}
}

// Groups replaces the group tags of the current field.
func (f *fieldStepT[T]) Groups(groups ...string) *fieldStepT[T] {
	o := f.tb.overrides[f.name]
	o.groups = gomapper.ParseGroups(strings.Join(groups, ","))
	o.setGroups = true
	return f
}

// Default sets the value used when the field is absent or null.
func (f *fieldStepT[T]) Default(v any) *fieldStepT[T] {
	o := f.tb.overrides[f.name]
	o.def = v
	o.setDefault = true
	return f
}

// Nullable lets the field take null even though its Go type is not a pointer.
func (f *fieldStepT[T]) Nullable() *fieldStepT[T] {
	f.tb.overrides[f.name].nullable = true
	return f
}

// Kind pins the declared kind; Build fails if the Go type disagrees.
func (f *fieldStepT[T]) Kind(k gomapper.Kind) *fieldStepT[T] {
	f.tb.overrides[f.name].kind = k
	return f
}

// Ignore drops the field from the metadata.
func (f *fieldStepT[T]) Ignore() *fieldStepT[T] {
	f.tb.overrides[f.name].ignore = true
	return f
}

func (f *fieldStepT[T]) Field(name string) *fieldStepT[T] { return f.tb.Field(name) }
func (f *fieldStepT[T]) Constructor(fn any, params ...string) *objectBuilderT[T] {
	return f.tb.Constructor(fn, params...)
}
func (f *fieldStepT[T]) Build() (*gomapper.TypeMetadata, error) { return f.tb.Build() }
func (f *fieldStepT[T]) MustBuild() *gomapper.TypeMetadata      { return f.tb.MustBuild() }
func (f *fieldStepT[T]) Register(r *gomapper.Resolver) error    { return f.tb.Register(r) }
func (f *fieldStepT[T]) MustRegister()                          { f.tb.MustRegister() }

// Build assembles the metadata and checks it against the Go types.
func (tb *objectBuilderT[T]) Build() (*gomapper.TypeMetadata, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	meta, err := gomapper.DeriveMetadata(t)
	if err != nil {
		return nil, err
	}
	if tb.hasCtor {
		c, err := gomapper.NewConstructor(tb.ctorFn, tb.ctorParams...)
		if err != nil {
			return nil, err
		}
		meta.Constructor = c
		for i, p := range tb.ctorParams {
			if f, ok := meta.Field(p); ok {
				f.Origin |= gomapper.OriginConstructor
				f.Param = i
				f.ParamType = c.ParamType(i)
				continue
			}
			meta.Fields = append(meta.Fields, gomapper.FieldDescriptor{
				Name:      p,
				Origin:    gomapper.OriginConstructor,
				Param:     i,
				ParamType: c.ParamType(i),
			})
		}
	}
	for _, name := range tb.order {
		o := tb.overrides[name]
		f, ok := meta.Field(name)
		if !ok {
			return nil, &gomapper.ResolutionError{Type: t, Field: name, Reason: "no such field"}
		}
		if o.ignore {
			if f.IsParam() {
				return nil, &gomapper.ResolutionError{Type: t, Field: name, Reason: "constructor parameters cannot be ignored"}
			}
			meta.Fields = slices.DeleteFunc(meta.Fields, func(fd gomapper.FieldDescriptor) bool { return fd.Name == name })
			continue
		}
		if o.setGroups {
			f.Groups = o.groups
		}
		if o.setDefault {
			f.HasDefault = true
			f.Default = o.def
		}
		if o.nullable {
			f.Nullable = true
		}
		if o.kind != gomapper.KindInvalid {
			f.Kind = o.kind
		}
	}
	if err := gomapper.CheckMetadata(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// MustBuild is like Build but panics on error.
func (tb *objectBuilderT[T]) MustBuild() *gomapper.TypeMetadata {
	m, err := tb.Build()
	if err != nil {
		panic(fmt.Sprintf("dsl: %v", err))
	}
	return m
}

// Register builds the metadata and stores it in r, or in the default
// resolver when r is nil.
func (tb *objectBuilderT[T]) Register(r *gomapper.Resolver) error {
	m, err := tb.Build()
	if err != nil {
		return err
	}
	if r == nil {
		r = gomapper.DefaultResolver()
	}
	return r.Register(m)
}

// MustRegister registers into the default resolver and panics on error.
func (tb *objectBuilderT[T]) MustRegister() {
	if err := tb.Register(nil); err != nil {
		panic(fmt.Sprintf("dsl: %v", err))
	}
}
