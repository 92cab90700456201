package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Title    string `json:"title,omitempty"`
	Type     string `json:"type,omitempty"`
	Format   string `json:"format,omitempty"`
	Default  any    `json:"default,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Mapper extensions
	Groups []string `json:"x-groups,omitempty"`
	Origin string   `json:"x-origin,omitempty"`
}

// Property is the kind-level description of one field, independent of
// whether it was obtained by reflection or by static analysis.
type Property struct {
	Name       string
	Kind       string // gomapper kind name
	Map        bool   // container is a mapping rather than a sequence
	Nullable   bool
	HasDefault bool
	Default    any
	Groups     []string
	Origin     string
	Object     *Schema // schema of a nested object, or of container elements
}

// Object assembles an object schema from properties. Fields that are
// neither nullable nor defaulted are required.
func Object(title string, props []Property) *Schema {
	s := &Schema{Title: title, Type: "object", Properties: make(map[string]*Schema, len(props))}
	for _, p := range props {
		ps := propertySchema(p)
		s.Properties[p.Name] = ps
		if !p.Nullable && !p.HasDefault {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

func propertySchema(p Property) *Schema {
	var s *Schema
	switch p.Kind {
	case "string":
		s = &Schema{Type: "string"}
	case "bool":
		s = &Schema{Type: "boolean"}
	case "integer":
		s = &Schema{Type: "integer"}
	case "float":
		s = &Schema{Type: "number"}
	case "container":
		if p.Map {
			s = &Schema{Type: "object"}
			if p.Object != nil {
				s.AdditionalProperties = p.Object
			}
		} else {
			s = &Schema{Type: "array", Items: p.Object}
		}
	case "object":
		if p.Object != nil {
			cp := *p.Object
			s = &cp
		} else {
			s = &Schema{Type: "object"}
		}
	default:
		s = &Schema{}
	}
	s.Nullable = p.Nullable
	if p.HasDefault {
		s.Default = p.Default
	}
	s.Groups = p.Groups
	s.Origin = p.Origin
	return s
}
