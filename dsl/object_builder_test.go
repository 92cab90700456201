package dsl_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gomapper"
	"github.com/reoring/gomapper/dsl"
)

type comment struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
	Note string `json:"note"`
}

func newComment(id int, name, text string) *comment {
	return &comment{ID: id, Name: name, Text: text}
}

type slug struct {
	Value string `json:"value"`
}

func newSlug(title string) slug {
	return slug{Value: strings.ToLower(strings.ReplaceAll(title, " ", "-"))}
}

func TestObjectOf(t *testing.T) {
	t.Run("Should mark constructor parameters and apply overrides", func(t *testing.T) {
		meta, err := dsl.ObjectOf[comment]().
			Constructor(newComment, "id", "name", "text").
			Field("name").Groups("content", "content").
			Field("text").Groups("content").
			Field("note").Default("none").
			Build()

		require.NoError(t, err)
		id, _ := meta.Field("id")
		assert.True(t, id.IsParam())
		assert.True(t, id.IsProperty())
		assert.Equal(t, 0, id.Param)
		name, _ := meta.Field("name")
		assert.Equal(t, []string{"content"}, name.Groups)
		note, _ := meta.Field("note")
		assert.False(t, note.IsParam())
		assert.Equal(t, "none", note.Default)
		assert.Len(t, meta.ConstructorFields(), 3)
	})

	t.Run("Should add constructor-only parameters", func(t *testing.T) {
		meta, err := dsl.ObjectOf[slug]().Constructor(newSlug, "title").Build()

		require.NoError(t, err)
		title, ok := meta.Field("title")
		require.True(t, ok)
		assert.False(t, title.IsProperty())
		assert.Equal(t, gomapper.KindString, title.Kind)
		assert.Equal(t, reflect.TypeFor[string](), title.Type)
		assert.Len(t, meta.Properties(), 1)
	})

	t.Run("Should accept pointer type arguments", func(t *testing.T) {
		meta, err := dsl.ObjectOf[*slug]().Build()

		require.NoError(t, err)
		assert.Equal(t, reflect.TypeFor[slug](), meta.Type)
	})

	t.Run("Should drop ignored fields", func(t *testing.T) {
		meta, err := dsl.ObjectOf[comment]().Field("note").Ignore().Build()

		require.NoError(t, err)
		_, ok := meta.Field("note")
		assert.False(t, ok)
	})

	t.Run("Should make fields nullable", func(t *testing.T) {
		meta, err := dsl.ObjectOf[comment]().Field("note").Nullable().Build()

		require.NoError(t, err)
		note, _ := meta.Field("note")
		assert.True(t, note.Nullable)
	})

	t.Run("Should reject unknown fields", func(t *testing.T) {
		_, err := dsl.ObjectOf[comment]().Field("missing").Groups("x").Build()

		assert.ErrorContains(t, err, "no such field")
	})

	t.Run("Should reject ignoring a constructor parameter", func(t *testing.T) {
		_, err := dsl.ObjectOf[comment]().
			Constructor(newComment, "id", "name", "text").
			Field("id").Ignore().
			Build()

		assert.ErrorContains(t, err, "cannot be ignored")
	})

	t.Run("Should reject kinds that contradict the Go type", func(t *testing.T) {
		_, err := dsl.ObjectOf[comment]().Field("id").Kind(gomapper.KindString).Build()

		assert.Error(t, err)
	})

	t.Run("Should reject defaults that do not fit", func(t *testing.T) {
		_, err := dsl.ObjectOf[comment]().Field("id").Default("one").Build()

		assert.ErrorContains(t, err, "does not fit")
	})

	t.Run("Should reject mismatched constructors", func(t *testing.T) {
		_, err := dsl.ObjectOf[comment]().Constructor(newSlug, "title").Build()

		assert.ErrorContains(t, err, "constructor produces")
	})

	t.Run("Should panic from MustBuild on error", func(t *testing.T) {
		assert.PanicsWithValue(t,
			"dsl: gomapper: cannot resolve dsl_test.comment.missing: no such field",
			func() { dsl.ObjectOf[comment]().Field("missing").MustBuild() })
	})
}

func TestRegister(t *testing.T) {
	t.Run("Should drive deserialization through the registered constructor", func(t *testing.T) {
		r := gomapper.NewResolver()
		require.NoError(t, dsl.ObjectOf[slug]().Constructor(newSlug, "title").Register(r))

		v, err := gomapper.Deserialize[slug](t.Context(), gomapper.Mapping{"title": "Hello World"}, gomapper.WithResolver(r))

		require.NoError(t, err)
		assert.Equal(t, "hello-world", v.Value)
	})

	t.Run("Should not leak into other resolvers", func(t *testing.T) {
		r := gomapper.NewResolver()
		require.NoError(t, dsl.ObjectOf[comment]().Field("note").Ignore().Register(r))

		assert.True(t, r.Registered(reflect.TypeFor[comment]()))
		assert.False(t, gomapper.NewResolver().Registered(reflect.TypeFor[comment]()))
	})

	t.Run("Should default to the package resolver", func(t *testing.T) {
		type local struct {
			A string `json:"a"`
		}
		dsl.ObjectOf[local]().Field("a").Groups("g").MustRegister()

		assert.True(t, gomapper.DefaultResolver().Registered(reflect.TypeFor[local]()))
		out, err := gomapper.Serialize(t.Context(), local{A: "x"}, "other")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
