package gomapper

import (
	"context"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/reoring/gomapper/logger"
)

// Mapper converts between Mappings and typed objects. A Mapper is immutable
// after New and safe for concurrent use.
type Mapper struct {
	resolver   *Resolver
	log        logger.Logger
	codec      WireCodec
	unknown    UnknownPolicy
	cycleGuard bool
	maxDepth   int
	validator  *validator.Validate
	numberMode NumberMode
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the fallback logger. A logger stored in the call context
// takes precedence.
func WithLogger(l logger.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.log = l
		}
	}
}

// WithResolver sets the metadata resolver (DefaultResolver otherwise).
func WithResolver(r *Resolver) Option {
	return func(m *Mapper) {
		if r != nil {
			m.resolver = r
		}
	}
}

// WithCodec pins the wire codec used by Marshal and Unmarshal. Without it
// the global DefaultCodec is looked up on every call.
func WithCodec(c WireCodec) Option { return func(m *Mapper) { m.codec = c } }

// WithUnknownKeys selects how keys matching no property are handled.
func WithUnknownKeys(p UnknownPolicy) Option { return func(m *Mapper) { m.unknown = p } }

// WithCycleGuard makes Serialize fail with ErrCycle when a struct reachable
// through pointers is already being serialized higher up.
func WithCycleGuard(on bool) Option { return func(m *Mapper) { m.cycleGuard = on } }

// WithMaxDepth bounds object nesting in both directions; 0 means unbounded.
func WithMaxDepth(n int) Option { return func(m *Mapper) { m.maxDepth = n } }

// WithStructValidator runs v.Struct on every top-level deserialized object.
func WithStructValidator(v *validator.Validate) Option { return func(m *Mapper) { m.validator = v } }

// WithNumberMode selects how decoded wire numbers are represented.
func WithNumberMode(n NumberMode) Option { return func(m *Mapper) { m.numberMode = n } }

// New returns a Mapper with the given options applied.
func New(opts ...Option) *Mapper {
	m := &Mapper{resolver: defaultResolver, log: logger.Nop()}
	for _, o := range opts {
		o(m)
	}
	return m
}

func mapperFor(opts []Option) *Mapper {
	if len(opts) == 0 {
		return New()
	}
	return New(opts...)
}

func (m *Mapper) wireCodec() WireCodec {
	if m.codec != nil {
		return m.codec
	}
	return DefaultCodec()
}

// Deserialize builds an instance of target (a struct or pointer to struct)
// from data. Pointer targets yield a pointer.
func (m *Mapper) Deserialize(ctx context.Context, data Mapping, target reflect.Type) (any, error) {
	if target == nil {
		return nil, &DeserializeError{Path: "/", Code: CodeUnresolvable, Message: "nil target type"}
	}
	r := m.newRun(ctx)
	v, err := r.deserialize(data, structType(target), pathRef{})
	if err != nil {
		r.log.Debug("deserialize failed", "type", target.String(), "error", err)
		return nil, err
	}
	if err := r.validateStruct(v); err != nil {
		return nil, err
	}
	if target.Kind() == reflect.Pointer {
		return v.Addr().Interface(), nil
	}
	return v.Interface(), nil
}

// SerializeOrdered dumps obj keeping fields in metadata order. With groups,
// only fields tagged with at least one of them are emitted.
func (m *Mapper) SerializeOrdered(ctx context.Context, obj any, groups ...string) (*Ordered, error) {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, &ResolutionError{Type: rv.Type(), Reason: "nil object"}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		var t reflect.Type
		if rv.IsValid() {
			t = rv.Type()
		}
		return nil, &ResolutionError{Type: t, Reason: "not a struct value"}
	}
	if !rv.CanAddr() {
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		rv = cp
	}
	r := m.newRun(ctx)
	out, err := r.serialize(rv, groups, pathRef{})
	if err != nil {
		r.log.Debug("serialize failed", "type", rv.Type().String(), "error", err)
		return nil, err
	}
	return out, nil
}

// Serialize is SerializeOrdered flattened into a plain Mapping.
func (m *Mapper) Serialize(ctx context.Context, obj any, groups ...string) (Mapping, error) {
	o, err := m.SerializeOrdered(ctx, obj, groups...)
	if err != nil {
		return nil, err
	}
	return o.Mapping(), nil
}

// Unmarshal decodes wire bytes with the mapper's codec and deserializes the
// resulting object into target.
func (m *Mapper) Unmarshal(ctx context.Context, data []byte, target reflect.Type) (any, error) {
	raw, err := m.decode(data)
	if err != nil {
		return nil, err
	}
	mp, ok := raw.(map[string]any)
	if !ok {
		return nil, deserializeErr("/", CodeNotObject, nil)
	}
	return m.Deserialize(ctx, mp, target)
}

// Marshal serializes obj and encodes it with the mapper's codec.
func (m *Mapper) Marshal(ctx context.Context, obj any, groups ...string) ([]byte, error) {
	o, err := m.SerializeOrdered(ctx, obj, groups...)
	if err != nil {
		return nil, err
	}
	return m.wireCodec().Encode(o)
}

func (m *Mapper) decode(data []byte) (any, error) {
	c := m.wireCodec()
	raw, err := c.Decode(data)
	if err != nil {
		return nil, &DeserializeError{Path: "/", Code: CodeParseError, Message: c.Name() + ": " + err.Error(), Cause: err}
	}
	raw, err = NormalizeNumbers(raw, m.numberMode)
	if err != nil {
		return nil, &DeserializeError{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}
	}
	return raw, nil
}

// Deserialize builds a T from data. T may be a struct or a pointer to one.
func Deserialize[T any](ctx context.Context, data Mapping, opts ...Option) (T, error) {
	var zero T
	v, err := mapperFor(opts).Deserialize(ctx, data, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// DeserializeSlice deserializes every element of data, which must each be a
// Mapping. Errors carry the element index in their path.
func DeserializeSlice[T any](ctx context.Context, data []any, opts ...Option) ([]T, error) {
	return deserializeSlice[T](ctx, mapperFor(opts), data)
}

func deserializeSlice[T any](ctx context.Context, m *Mapper, data []any) ([]T, error) {
	target := reflect.TypeFor[T]()
	out := make([]T, 0, len(data))
	for i, e := range data {
		p := pathRef{}.Index(i).Pointer()
		mp, ok := e.(map[string]any)
		if !ok {
			return nil, deserializeErr(p, CodeNotObject, nil)
		}
		v, err := m.Deserialize(ctx, mp, target)
		if err != nil {
			return nil, rebase(p, err)
		}
		out = append(out, v.(T))
	}
	return out, nil
}

// Serialize dumps obj with the default mapper.
func Serialize(ctx context.Context, obj any, groups ...string) (Mapping, error) {
	return New().Serialize(ctx, obj, groups...)
}

// Unmarshal decodes data and deserializes it into a T.
func Unmarshal[T any](ctx context.Context, data []byte, opts ...Option) (T, error) {
	var zero T
	v, err := mapperFor(opts).Unmarshal(ctx, data, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// UnmarshalSlice decodes a wire sequence of objects into []T.
func UnmarshalSlice[T any](ctx context.Context, data []byte, opts ...Option) ([]T, error) {
	m := mapperFor(opts)
	raw, err := m.decode(data)
	if err != nil {
		return nil, err
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, deserializeErr("/", CodeInvalidType, map[string]string{"expected": "sequence"})
	}
	return deserializeSlice[T](ctx, m, seq)
}

// Marshal serializes obj with the default mapper and encodes it.
func Marshal(ctx context.Context, obj any, groups ...string) ([]byte, error) {
	return New().Marshal(ctx, obj, groups...)
}
