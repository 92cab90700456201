package gomapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
)

// WireCodec converts between wire bytes and the Mapping value alphabet.
// Decoders may return numbers as json.Number; the mapper normalises them
// according to its NumberMode.
type WireCodec interface {
	Name() string
	Decode(data []byte) (any, error)
	Encode(v any) ([]byte, error)
}

var (
	codecMu      sync.RWMutex
	currentCodec WireCodec = goJSONCodec{}
)

// SetDefaultCodec replaces the global wire codec; nil values are ignored.
func SetDefaultCodec(c WireCodec) {
	if c == nil {
		return
	}
	codecMu.Lock()
	currentCodec = c
	codecMu.Unlock()
}

// UseDefaultCodec restores the goccy/go-json codec.
func UseDefaultCodec() {
	codecMu.Lock()
	currentCodec = goJSONCodec{}
	codecMu.Unlock()
}

// DefaultCodec returns the current global wire codec.
func DefaultCodec() WireCodec {
	codecMu.RLock()
	c := currentCodec
	codecMu.RUnlock()
	return c
}

// GoJSON returns the goccy/go-json backed codec.
func GoJSON() WireCodec { return goJSONCodec{} }

type goJSONCodec struct{}

func (goJSONCodec) Name() string { return "go-json" }

func (goJSONCodec) Decode(data []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("gomapper: trailing data after JSON value")
	}
	return fromGoJSON(v), nil
}

func (goJSONCodec) Encode(v any) ([]byte, error) { return gojson.Marshal(v) }

// fromGoJSON rewrites go-json numbers as encoding/json numbers.
func fromGoJSON(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = fromGoJSON(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = fromGoJSON(e)
		}
		return x
	case gojson.Number:
		return json.Number(string(x))
	}
	return v
}

// NormalizeNumbers rewrites json.Number values in a decoded tree. With
// NumberNative integral literals become int64 (uint64 beyond its range) and
// the rest float64; NumberJSONNumber leaves the tree unchanged.
func NormalizeNumbers(v any, mode NumberMode) (any, error) {
	if mode == NumberJSONNumber {
		return v, nil
	}
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			n, err := NormalizeNumbers(e, mode)
			if err != nil {
				return nil, err
			}
			x[k] = n
		}
		return x, nil
	case []any:
		for i, e := range x {
			n, err := NormalizeNumbers(e, mode)
			if err != nil {
				return nil, err
			}
			x[i] = n
		}
		return x, nil
	case json.Number:
		return nativeNumber(x)
	}
	return v, nil
}

func nativeNumber(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		if u, ok := uint64Of(n); ok {
			return u, nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return f, nil
}
