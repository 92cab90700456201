package analyze

import (
	"gopkg.in/yaml.v3"

	"github.com/reoring/gomapper"
	"github.com/reoring/gomapper/jsonschema"
)

// Struct describes one analyzed struct type.
type Struct struct {
	Name        string
	PkgName     string
	PkgPath     string
	Fields      []Field
	Constructor *Constructor
}

// Field describes one exported struct field.
type Field struct {
	GoName     string
	Key        string
	Kind       gomapper.Kind
	Map        bool // container with string keys
	Nullable   bool
	Flagged    bool // nullable through the mapper tag rather than the Go type
	Groups     []string
	HasDefault bool
	Default    string // raw YAML literal from the default tag
	TypeString string
	// Object names the struct type behind a KindObject field.
	Object string
}

// Constructor is a New<Type> function whose parameters map onto keys.
type Constructor struct {
	Func   string
	Params []string
}

// Field looks a field up by external key.
func (s *Struct) Field(key string) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Key == key {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// Schema renders a JSON Schema of the struct. Nested objects are referenced
// by title only because static analysis does not follow them.
func (s *Struct) Schema() *jsonschema.Schema {
	props := make([]jsonschema.Property, 0, len(s.Fields))
	for _, f := range s.Fields {
		p := jsonschema.Property{
			Name:       f.Key,
			Kind:       f.Kind.String(),
			Map:        f.Map,
			Nullable:   f.Nullable,
			HasDefault: f.HasDefault,
			Groups:     f.Groups,
			Origin:     s.origin(f.Key),
		}
		if f.HasDefault {
			var v any
			if err := yaml.Unmarshal([]byte(f.Default), &v); err == nil {
				p.Default = v
			} else {
				p.Default = f.Default
			}
		}
		if f.Kind == gomapper.KindObject {
			p.Object = &jsonschema.Schema{Title: f.Object, Type: "object"}
		}
		props = append(props, p)
	}
	return jsonschema.Object(s.Name, props)
}

func (s *Struct) origin(key string) string {
	o := gomapper.OriginProperty
	if s.Constructor != nil {
		for _, p := range s.Constructor.Params {
			if p == key {
				o |= gomapper.OriginConstructor
			}
		}
	}
	return o.String()
}
