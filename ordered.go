package gomapper

import (
	"bytes"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Ordered is a serialized object whose keys keep metadata order. Nested
// objects are *Ordered as well.
type Ordered struct {
	keys   []string
	values map[string]any
}

func newOrdered(n int) *Ordered {
	return &Ordered{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

func (o *Ordered) set(k string, v any) {
	if _, ok := o.values[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.values[k] = v
}

// Keys returns the keys in output order.
func (o *Ordered) Keys() []string { return append([]string(nil), o.keys...) }

// Get returns the value stored under k.
func (o *Ordered) Get(k string) (any, bool) {
	v, ok := o.values[k]
	return v, ok
}

func (o *Ordered) Len() int { return len(o.keys) }

// Mapping converts the tree into plain nested maps and slices.
func (o *Ordered) Mapping() Mapping {
	out := make(Mapping, len(o.keys))
	for _, k := range o.keys {
		out[k] = plain(o.values[k])
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case *Ordered:
		if x == nil {
			return nil
		}
		return x.Mapping()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON writes the object with keys in metadata order.
func (o *Ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := gojson.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := gojson.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits a mapping node with keys in metadata order.
func (o *Ordered) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range o.keys {
		var val yaml.Node
		if err := val.Encode(o.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}
