package gomapper

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// Constructor is a registered factory whose parameters are filled from the
// input Mapping before any property is assigned.
//
// The function must return T or *T (T a struct), optionally followed by an
// error. Parameters are matched to Mapping keys by the names given at
// registration, in declaration order.
type Constructor struct {
	fn      reflect.Value
	params  []string
	out     reflect.Type // struct type produced
	ptr     bool
	withErr bool
}

// NewConstructor validates fn against the parameter names and wraps it.
func NewConstructor(fn any, params ...string) (*Constructor, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, &ResolutionError{Reason: "constructor must be a non-nil function"}
	}
	ft := v.Type()
	if ft.IsVariadic() {
		return nil, &ResolutionError{Type: ft, Reason: "variadic constructors are not supported"}
	}
	if ft.NumIn() != len(params) {
		return nil, &ResolutionError{Type: ft, Reason: fmt.Sprintf("constructor takes %d parameters, %d names given", ft.NumIn(), len(params))}
	}
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if p == "" {
			return nil, &ResolutionError{Type: ft, Reason: "empty constructor parameter name"}
		}
		if _, dup := seen[p]; dup {
			return nil, &ResolutionError{Type: ft, Field: p, Reason: "duplicate constructor parameter"}
		}
		seen[p] = struct{}{}
	}
	c := &Constructor{fn: v, params: append([]string(nil), params...)}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, &ResolutionError{Type: ft, Reason: "second constructor result must be error"}
		}
		c.withErr = true
	default:
		return nil, &ResolutionError{Type: ft, Reason: "constructor must return T or (T, error)"}
	}
	out := ft.Out(0)
	if out.Kind() == reflect.Pointer {
		c.ptr = true
		out = out.Elem()
	}
	if out.Kind() != reflect.Struct {
		return nil, &ResolutionError{Type: ft, Reason: "constructor must produce a struct"}
	}
	c.out = out
	return c, nil
}

// Params returns the parameter names in declaration order.
func (c *Constructor) Params() []string { return append([]string(nil), c.params...) }

// ParamType returns the Go type of parameter i.
func (c *Constructor) ParamType(i int) reflect.Type { return c.fn.Type().In(i) }

// Produces returns the struct type built by the constructor.
func (c *Constructor) Produces() reflect.Type { return c.out }

// call invokes the constructor and returns an addressable struct value.
func (c *Constructor) call(args []reflect.Value) (reflect.Value, error) {
	res := c.fn.Call(args)
	if c.withErr && !res[1].IsNil() {
		cause, _ := res[1].Interface().(error)
		return reflect.Value{}, &DeserializeError{Path: "/", Code: CodeConstructor, Message: cause.Error(), Cause: cause}
	}
	out := res[0]
	if c.ptr {
		if out.IsNil() {
			return reflect.Value{}, deserializeErr("/", CodeConstructor, nil)
		}
		return out.Elem(), nil
	}
	rv := reflect.New(c.out).Elem()
	rv.Set(out)
	return rv, nil
}
