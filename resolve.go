package gomapper

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"

	"github.com/reoring/gomapper/logger"
)

// DefaultCacheSize bounds the number of reflection-derived metadata entries
// kept by a Resolver.
const DefaultCacheSize = 256

// Resolver yields TypeMetadata for struct types. Registered metadata is a
// static lookup table and wins over reflection; reflection-derived metadata
// is optionally memoised in a bounded LRU cache.
type Resolver struct {
	mu     sync.RWMutex
	static map[reflect.Type]*TypeMetadata
	cache  *lru.Cache[reflect.Type, *TypeMetadata]
	log    logger.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// ResolverCacheSize sets the LRU size; zero or negative disables caching.
func ResolverCacheSize(n int) ResolverOption {
	return func(r *Resolver) {
		if n <= 0 {
			r.cache = nil
			return
		}
		c, err := lru.New[reflect.Type, *TypeMetadata](n)
		if err != nil {
			r.cache = nil
			return
		}
		r.cache = c
	}
}

// ResolverLogger sets the logger used for cache and derivation events.
func ResolverLogger(l logger.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver returns a Resolver with an LRU of DefaultCacheSize unless
// configured otherwise.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{static: make(map[reflect.Type]*TypeMetadata), log: logger.Nop()}
	ResolverCacheSize(DefaultCacheSize)(r)
	for _, o := range opts {
		o(r)
	}
	return r
}

var defaultResolver = NewResolver()

// DefaultResolver returns the process-wide resolver used by the package-level
// helpers and by mappers built without WithResolver.
func DefaultResolver() *Resolver { return defaultResolver }

// Register adds explicit metadata to the default resolver.
func Register(m *TypeMetadata) error { return defaultResolver.Register(m) }

// MustRegister is like Register but panics on error. Intended for init().
func MustRegister(m *TypeMetadata) {
	if err := Register(m); err != nil {
		panic(err)
	}
}

// Resolve returns metadata for t using the default resolver.
func Resolve(t reflect.Type) (*TypeMetadata, error) { return defaultResolver.Resolve(t) }

// Register validates m and stores it in the static table, replacing any
// earlier registration for the same type.
func (r *Resolver) Register(m *TypeMetadata) error {
	if err := CheckMetadata(m); err != nil {
		return err
	}
	r.mu.Lock()
	r.static[m.Type] = m
	r.mu.Unlock()
	if r.cache != nil {
		r.cache.Remove(m.Type)
	}
	r.log.Debug("registered type metadata", "type", m.Type.String(), "fields", len(m.Fields))
	return nil
}

// Registered reports whether t has explicit metadata.
func (r *Resolver) Registered(t reflect.Type) bool {
	t = structType(t)
	r.mu.RLock()
	_, ok := r.static[t]
	r.mu.RUnlock()
	return ok
}

// Resolve returns the metadata for t (a struct or pointer to struct).
func (r *Resolver) Resolve(t reflect.Type) (*TypeMetadata, error) {
	st := structType(t)
	if st == nil || st.Kind() != reflect.Struct {
		return nil, &ResolutionError{Type: t, Reason: "not a struct type"}
	}
	r.mu.RLock()
	m, ok := r.static[st]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}
	if r.cache != nil {
		if m, ok := r.cache.Get(st); ok {
			return m, nil
		}
	}
	m, err := DeriveMetadata(st)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Add(st, m)
		r.log.Debug("cached derived metadata", "type", st.String())
	}
	return m, nil
}

func structType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// DeriveMetadata builds metadata for struct type t from its exported fields
// and struct tags. Every field is a property; reflection alone cannot
// discover constructors.
func DeriveMetadata(t reflect.Type) (*TypeMetadata, error) {
	t = structType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &ResolutionError{Type: t, Reason: "not a struct type"}
	}
	m := &TypeMetadata{Type: t}
	seen := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := ResolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, &ResolutionError{Type: t, Field: name, Reason: "duplicate field name"}
		}
		seen[name] = struct{}{}
		fd, err := describeStructField(t, sf, name)
		if err != nil {
			return nil, err
		}
		m.Fields = append(m.Fields, fd)
	}
	return m, nil
}

func describeStructField(owner reflect.Type, sf reflect.StructField, name string) (FieldDescriptor, error) {
	kind, nullable, err := ClassifyType(sf.Type)
	if err != nil {
		return FieldDescriptor{}, &ResolutionError{Type: owner, Field: name, Reason: reasonOf(err)}
	}
	fd := FieldDescriptor{
		Name:     name,
		Kind:     kind,
		Nullable: nullable || TagHasFlag(sf.Tag, "nullable"),
		Groups:   ParseGroups(sf.Tag.Get(TagGroups)),
		Origin:   OriginProperty,
		Type:     sf.Type,
		Index:    append([]int(nil), sf.Index...),
		Param:    -1,
	}
	if lit, ok := sf.Tag.Lookup(TagDefault); ok {
		dv, err := ParseDefault(sf.Type, lit)
		if err != nil {
			return FieldDescriptor{}, &ResolutionError{Type: owner, Field: name, Reason: "invalid default: " + err.Error()}
		}
		fd.HasDefault = true
		fd.Default = dv
	}
	return fd, nil
}

// ParseDefault decodes a YAML literal into a value of type t.
func ParseDefault(t reflect.Type, literal string) (any, error) {
	ptr := reflect.New(t)
	if err := yaml.Unmarshal([]byte(literal), ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

func reasonOf(err error) string {
	if re, ok := AsResolutionError(err); ok {
		return re.Reason
	}
	return err.Error()
}

// CheckMetadata verifies that explicit metadata is consistent with the Go
// types it describes, so that registration fails at init time instead of
// during a call.
func CheckMetadata(m *TypeMetadata) error {
	if m == nil || m.Type == nil || m.Type.Kind() != reflect.Struct {
		return &ResolutionError{Reason: "metadata must describe a struct type"}
	}
	t := m.Type
	names := make(map[string]struct{}, len(m.Fields))
	params := 0
	for i := range m.Fields {
		f := &m.Fields[i]
		if f.Name == "" {
			return &ResolutionError{Type: t, Reason: fmt.Sprintf("field #%d has no name", i)}
		}
		if _, dup := names[f.Name]; dup {
			return &ResolutionError{Type: t, Field: f.Name, Reason: "duplicate field name"}
		}
		names[f.Name] = struct{}{}
		if f.Origin&(OriginConstructor|OriginProperty) == 0 {
			return &ResolutionError{Type: t, Field: f.Name, Reason: "field has no origin"}
		}
		if f.IsProperty() {
			if err := checkProperty(t, f); err != nil {
				return err
			}
		}
		if f.IsParam() {
			if err := checkParam(m, f); err != nil {
				return err
			}
			params++
		}
		if f.HasDefault {
			if err := checkDefault(t, f); err != nil {
				return err
			}
		}
	}
	if m.Constructor == nil {
		if params > 0 {
			return &ResolutionError{Type: t, Reason: "constructor parameters declared without a constructor"}
		}
		return nil
	}
	if m.Constructor.Produces() != t {
		return &ResolutionError{Type: t, Reason: "constructor produces " + m.Constructor.Produces().String()}
	}
	if params != len(m.Constructor.params) {
		return &ResolutionError{Type: t, Reason: "every constructor parameter needs exactly one field"}
	}
	return nil
}

func checkProperty(t reflect.Type, f *FieldDescriptor) error {
	if len(f.Index) == 0 {
		return &ResolutionError{Type: t, Field: f.Name, Reason: "property without struct index"}
	}
	sf, err := fieldByIndex(t, f.Index)
	if err != nil {
		return &ResolutionError{Type: t, Field: f.Name, Reason: err.Error()}
	}
	if !sf.IsExported() {
		return &ResolutionError{Type: t, Field: f.Name, Reason: "property is not exported"}
	}
	if f.Type == nil {
		f.Type = sf.Type
	}
	if f.Type != sf.Type {
		return &ResolutionError{Type: t, Field: f.Name, Reason: "declared type " + f.Type.String() + " does not match " + sf.Type.String()}
	}
	return checkKind(t, f, sf.Type)
}

func checkParam(m *TypeMetadata, f *FieldDescriptor) error {
	t := m.Type
	if m.Constructor == nil {
		return &ResolutionError{Type: t, Field: f.Name, Reason: "constructor parameter without constructor"}
	}
	if f.Param < 0 || f.Param >= len(m.Constructor.params) || m.Constructor.params[f.Param] != f.Name {
		return &ResolutionError{Type: t, Field: f.Name, Reason: "constructor parameter position mismatch"}
	}
	pt := m.Constructor.ParamType(f.Param)
	if f.ParamType == nil {
		f.ParamType = pt
	}
	if f.ParamType != pt {
		return &ResolutionError{Type: t, Field: f.Name, Reason: "parameter type mismatch"}
	}
	if !f.IsProperty() && f.Type == nil {
		f.Type = pt
	}
	return checkKind(t, f, pt)
}

func checkKind(t reflect.Type, f *FieldDescriptor, gt reflect.Type) error {
	kind, nullable, err := ClassifyType(gt)
	if err != nil {
		return &ResolutionError{Type: t, Field: f.Name, Reason: reasonOf(err)}
	}
	if f.Kind == KindInvalid {
		f.Kind = kind
	}
	if f.Kind != kind {
		return &ResolutionError{Type: t, Field: f.Name, Reason: "declared kind " + f.Kind.String() + " but Go type is " + kind.String()}
	}
	if nullable {
		f.Nullable = true
	}
	return nil
}

func checkDefault(t reflect.Type, f *FieldDescriptor) error {
	target := f.Type
	if f.IsParam() && f.ParamType != nil {
		target = f.ParamType
	}
	if f.Default == nil {
		if !f.Nullable {
			return &ResolutionError{Type: t, Field: f.Name, Reason: "nil default on non-nullable field"}
		}
		return nil
	}
	check := &run{m: &Mapper{resolver: NewResolver(ResolverCacheSize(0)), log: logger.Nop()}, ctx: context.Background(), log: logger.Nop()}
	if _, err := check.convert(target, f.Default, pathRef{}); err != nil {
		return &ResolutionError{Type: t, Field: f.Name, Reason: "default of type " + reflect.TypeOf(f.Default).String() + " does not fit " + target.String()}
	}
	return nil
}

func fieldByIndex(t reflect.Type, index []int) (sf reflect.StructField, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid struct index %v", index)
		}
	}()
	return t.FieldByIndex(index), nil
}
