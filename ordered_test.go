package gomapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reoring/gomapper"
)

type article struct {
	Zeta  string   `json:"zeta"`
	Alpha int      `json:"alpha"`
	Inner *Inner   `json:"inner"`
	Tags  []string `json:"tags"`
}

func TestOrdered(t *testing.T) {
	a := article{Zeta: "z", Alpha: 1, Inner: &Inner{ID: 2, Name: "nina"}, Tags: []string{"x"}}
	o, err := gomapper.New().SerializeOrdered(t.Context(), a)
	require.NoError(t, err)

	t.Run("Should expose keys in field order", func(t *testing.T) {
		assert.Equal(t, []string{"zeta", "alpha", "inner", "tags"}, o.Keys())
		assert.Equal(t, 4, o.Len())
		v, ok := o.Get("alpha")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("Should keep nested objects ordered", func(t *testing.T) {
		v, _ := o.Get("inner")
		nested, ok := v.(*gomapper.Ordered)

		require.True(t, ok)
		assert.Equal(t, []string{"id", "name"}, nested.Keys())
	})

	t.Run("Should marshal JSON in field order", func(t *testing.T) {
		b, err := o.MarshalJSON()

		require.NoError(t, err)
		assert.Equal(t, `{"zeta":"z","alpha":1,"inner":{"id":2,"name":"nina"},"tags":["x"]}`, string(b))
	})

	t.Run("Should marshal YAML in field order", func(t *testing.T) {
		b, err := yaml.Marshal(o)

		require.NoError(t, err)
		assert.Equal(t, "zeta: z\nalpha: 1\ninner:\n    id: 2\n    name: nina\ntags:\n    - x\n", string(b))
	})

	t.Run("Should flatten into plain maps", func(t *testing.T) {
		assert.Equal(t, gomapper.Mapping{
			"zeta":  "z",
			"alpha": 1,
			"inner": map[string]any{"id": 2, "name": "nina"},
			"tags":  []any{"x"},
		}, o.Mapping())
	})

	t.Run("Should not expose internal key storage", func(t *testing.T) {
		keys := o.Keys()
		keys[0] = "mutated"

		assert.Equal(t, "zeta", o.Keys()[0])
	})
}
