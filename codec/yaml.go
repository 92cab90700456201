package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reoring/gomapper"
)

// YAML returns a codec backed by gopkg.in/yaml.v3. Decoded numbers become
// json.Number and timestamps RFC 3339 strings so that the mapper sees the
// same value alphabet as with JSON input.
func YAML() gomapper.WireCodec { return yamlCodec{} }

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Decode(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return yamlNormalizeValue(v)
}

func (yamlCodec) Encode(v any) ([]byte, error) { return yaml.Marshal(v) }

func yamlNormalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			n, err := yamlNormalizeValue(vv)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("codec: non-string mapping key %v", k)
			}
			n, err := yamlNormalizeValue(vv)
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			n, err := yamlNormalizeValue(vv)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case int:
		return json.Number(strconv.Itoa(t)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case float64:
		s := strconv.FormatFloat(t, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return json.Number(s), nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	}
	return v, nil
}
