package gomapper

import (
	"reflect"
	"slices"
)

// Mapping is the wire-facing representation consumed and produced by the
// mapper. Values are one of nil, bool, integers, floats, json.Number, string,
// []any or map[string]any.
type Mapping = map[string]any

// Kind classifies the declared type of a field.
type Kind int

const (
	KindInvalid   Kind = iota
	KindString         // string
	KindBool           // bool
	KindContainer      // slices, arrays and string-keyed maps
	KindInteger        // signed and unsigned integers
	KindFloat          // float32/float64; accepts integer values too
	KindAny            // interface{}; accepts every value
	KindObject         // nested struct resolved through TypeMetadata
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindString:    "string",
	KindBool:      "bool",
	KindContainer: "container",
	KindInteger:   "integer",
	KindFloat:     "float",
	KindAny:       "any",
	KindObject:    "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Builtin reports whether the kind is checked by Validate rather than by
// recursing into nested metadata.
func (k Kind) Builtin() bool {
	return k >= KindString && k <= KindAny
}

// ParseKind is the inverse of Kind.String. Unknown names yield KindInvalid.
func ParseKind(s string) Kind {
	for i, n := range kindNames {
		if n == s {
			return Kind(i)
		}
	}
	return KindInvalid
}

// Origin records where a field receives its value during deserialization.
type Origin uint8

const (
	OriginConstructor Origin = 1 << iota // Filled through the constructor.
	OriginProperty                       // Assigned on the built object.
)

func (o Origin) Has(flag Origin) bool { return o&flag != 0 }

func (o Origin) String() string {
	switch o {
	case OriginConstructor:
		return "constructor"
	case OriginProperty:
		return "property"
	case OriginConstructor | OriginProperty:
		return "constructor+property"
	default:
		return "none"
	}
}

// UnknownPolicy controls how keys that match no field are handled.
type UnknownPolicy int

const (
	UnknownIgnore UnknownPolicy = iota // Drop unknown keys silently.
	UnknownStrict                      // Reject unknown keys with an error.
)

// NumberMode dictates how wire codecs represent numbers.
type NumberMode int

const (
	NumberNative     NumberMode = iota // int64 for integral literals, float64 otherwise.
	NumberJSONNumber                   // Keep json.Number.
)

// FieldDescriptor describes one structural field of a type.
type FieldDescriptor struct {
	Name       string
	Kind       Kind
	Nullable   bool
	HasDefault bool
	Default    any
	Groups     []string
	Origin     Origin

	// Type is the declared Go type of the property (or of the constructor
	// parameter when the field is constructor-only).
	Type reflect.Type
	// Index is the struct field index; nil for constructor-only parameters.
	Index []int
	// Param is the constructor argument position, -1 when not a parameter.
	Param int
	// ParamType is the Go type of the constructor parameter.
	ParamType reflect.Type
}

// InGroups reports whether the field carries at least one of groups.
func (f *FieldDescriptor) InGroups(groups []string) bool {
	for _, g := range f.Groups {
		if slices.Contains(groups, g) {
			return true
		}
	}
	return false
}

// IsProperty reports whether the field is assignable on a built object.
func (f *FieldDescriptor) IsProperty() bool { return f.Origin.Has(OriginProperty) }

// IsParam reports whether the field is a constructor parameter.
func (f *FieldDescriptor) IsParam() bool { return f.Origin.Has(OriginConstructor) }

// objectType returns the struct type behind a KindObject field.
func (f *FieldDescriptor) objectType() reflect.Type {
	t := f.Type
	if f.IsParam() && f.ParamType != nil {
		t = f.ParamType
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// TypeMetadata is the ordered field description of a struct type.
type TypeMetadata struct {
	Type        reflect.Type
	Fields      []FieldDescriptor
	Constructor *Constructor
}

// Name returns the Go type name.
func (m *TypeMetadata) Name() string { return m.Type.String() }

// Field looks up a field by its external name.
func (m *TypeMetadata) Field(name string) (*FieldDescriptor, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// ConstructorFields returns the constructor parameters in declaration order.
func (m *TypeMetadata) ConstructorFields() []*FieldDescriptor {
	if m.Constructor == nil {
		return nil
	}
	out := make([]*FieldDescriptor, len(m.Constructor.params))
	for i := range m.Fields {
		f := &m.Fields[i]
		if f.IsParam() {
			out[f.Param] = f
		}
	}
	return out
}

// Properties returns the assignable fields in metadata order.
func (m *TypeMetadata) Properties() []*FieldDescriptor {
	out := make([]*FieldDescriptor, 0, len(m.Fields))
	for i := range m.Fields {
		if m.Fields[i].IsProperty() {
			out = append(out, &m.Fields[i])
		}
	}
	return out
}
