package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	v2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/reoring/gomapper"
)

// JSONv2 returns a codec backed by github.com/go-json-experiment/json.
// Numbers are decoded as json.Number holding the literal text.
func JSONv2() gomapper.WireCodec { return jsonV2Codec{} }

type jsonV2Codec struct{}

func (jsonV2Codec) Name() string { return "json/v2" }

func (jsonV2Codec) Decode(data []byte) (any, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := readValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		return nil, errors.New("codec: trailing data after JSON value")
	}
	return v, nil
}

func (jsonV2Codec) Encode(v any) ([]byte, error) {
	return v2.Marshal(v, v2.Deterministic(true))
}

func readValue(dec *jsontext.Decoder) (any, error) {
	switch dec.PeekKind() {
	case '{':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		obj := make(map[string]any)
		for dec.PeekKind() != '}' {
			tok, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			if tok.Kind() != '"' {
				return nil, fmt.Errorf("codec: expected object key, got %v", tok.Kind())
			}
			key := tok.String()
			val, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			obj[key] = val
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		arr := make([]any, 0)
		for dec.PeekKind() != ']' {
			val, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return arr, nil
	case '0':
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		return json.Number(string(raw)), nil
	}
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case 'n':
		return nil, nil
	case 't', 'f':
		return tok.Bool(), nil
	case '"':
		return tok.String(), nil
	}
	return nil, fmt.Errorf("codec: unexpected token %v", tok.Kind())
}
