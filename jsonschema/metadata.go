package jsonschema

import (
	"reflect"

	"github.com/reoring/gomapper"
)

// FromMetadata exports m as a JSON Schema. Nested object types are resolved
// through r (the default resolver when nil); a type that recurses into
// itself is emitted as a bare object at the point of recursion.
func FromMetadata(m *gomapper.TypeMetadata, r *gomapper.Resolver) (*Schema, error) {
	if r == nil {
		r = gomapper.DefaultResolver()
	}
	x := exporter{r: r, active: map[reflect.Type]bool{}}
	return x.object(m)
}

type exporter struct {
	r      *gomapper.Resolver
	active map[reflect.Type]bool
}

func (x exporter) object(m *gomapper.TypeMetadata) (*Schema, error) {
	x.active[m.Type] = true
	defer delete(x.active, m.Type)
	props := make([]Property, 0, len(m.Fields))
	for _, f := range m.Fields {
		t := f.Type
		if t == nil {
			t = f.ParamType
		}
		p := Property{
			Name:       f.Name,
			Kind:       f.Kind.String(),
			Nullable:   f.Nullable,
			HasDefault: f.HasDefault,
			Default:    f.Default,
			Groups:     f.Groups,
			Origin:     f.Origin.String(),
		}
		et := deref(t)
		switch f.Kind {
		case gomapper.KindObject:
			s, err := x.typeSchema(et)
			if err != nil {
				return nil, err
			}
			p.Object = s
		case gomapper.KindContainer:
			p.Map = et.Kind() == reflect.Map
			s, err := x.elemSchema(et.Elem())
			if err != nil {
				return nil, err
			}
			p.Object = s
		}
		props = append(props, p)
	}
	return Object(m.Type.Name(), props), nil
}

func (x exporter) typeSchema(t reflect.Type) (*Schema, error) {
	if x.active[t] {
		return &Schema{Title: t.Name(), Type: "object"}, nil
	}
	m, err := x.r.Resolve(t)
	if err != nil {
		return nil, err
	}
	return x.object(m)
}

// elemSchema describes container elements; nil means "any".
func (x exporter) elemSchema(t reflect.Type) (*Schema, error) {
	kind, nullable, err := gomapper.ClassifyType(t)
	if err != nil {
		return nil, err
	}
	et := deref(t)
	p := Property{Kind: kind.String(), Nullable: nullable}
	switch kind {
	case gomapper.KindAny:
		return nil, nil
	case gomapper.KindObject:
		s, err := x.typeSchema(et)
		if err != nil {
			return nil, err
		}
		p.Object = s
	case gomapper.KindContainer:
		p.Map = et.Kind() == reflect.Map
		s, err := x.elemSchema(et.Elem())
		if err != nil {
			return nil, err
		}
		p.Object = s
	}
	return propertySchema(p), nil
}

func deref(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
