package jsonschema_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gomapper"
	"github.com/reoring/gomapper/dsl"
	"github.com/reoring/gomapper/jsonschema"
)

type author struct {
	Name string `json:"name" groups:"public"`
}

type post struct {
	Title   string            `json:"title"`
	Score   float64           `json:"score" default:"1.5"`
	Author  *author           `json:"author"`
	Tags    []string          `json:"tags"`
	Authors map[string]author `json:"authors"`
	Extra   any               `json:"extra"`
	Parent  *post             `json:"parent"`
}

func newPost(title string) *post { return &post{Title: title} }

func TestFromMetadata(t *testing.T) {
	meta, err := gomapper.DeriveMetadata(reflect.TypeFor[post]())
	require.NoError(t, err)
	s, err := jsonschema.FromMetadata(meta, gomapper.NewResolver())
	require.NoError(t, err)

	t.Run("Should describe the object and its required fields", func(t *testing.T) {
		assert.Equal(t, "post", s.Title)
		assert.Equal(t, "object", s.Type)
		assert.Equal(t, []string{"title", "tags", "authors"}, s.Required)
	})

	t.Run("Should map scalar kinds", func(t *testing.T) {
		assert.Equal(t, "string", s.Properties["title"].Type)
		assert.Equal(t, "number", s.Properties["score"].Type)
		assert.Equal(t, 1.5, s.Properties["score"].Default)
		assert.Equal(t, "property", s.Properties["title"].Origin)
		assert.True(t, s.Properties["extra"].Nullable)
		assert.Empty(t, s.Properties["extra"].Type)
	})

	t.Run("Should inline nested objects with their groups", func(t *testing.T) {
		a := s.Properties["author"]

		assert.Equal(t, "object", a.Type)
		assert.True(t, a.Nullable)
		assert.Equal(t, []string{"public"}, a.Properties["name"].Groups)
	})

	t.Run("Should describe containers by element", func(t *testing.T) {
		assert.Equal(t, "array", s.Properties["tags"].Type)
		assert.Equal(t, "string", s.Properties["tags"].Items.Type)

		m := s.Properties["authors"]
		assert.Equal(t, "object", m.Type)
		elem, ok := m.AdditionalProperties.(*jsonschema.Schema)
		require.True(t, ok)
		assert.Equal(t, "author", elem.Title)
	})

	t.Run("Should stop at recursive references", func(t *testing.T) {
		p := s.Properties["parent"]

		assert.Equal(t, "post", p.Title)
		assert.Equal(t, "object", p.Type)
		assert.Nil(t, p.Properties)
	})

	t.Run("Should mark constructor parameters", func(t *testing.T) {
		meta, err := dsl.ObjectOf[post]().Constructor(newPost, "title").Build()
		require.NoError(t, err)

		s, err := jsonschema.FromMetadata(meta, nil)

		require.NoError(t, err)
		assert.Equal(t, "constructor+property", s.Properties["title"].Origin)
	})
}

func TestObject(t *testing.T) {
	t.Run("Should skip nullable and defaulted fields in required", func(t *testing.T) {
		s := jsonschema.Object("T", []jsonschema.Property{
			{Name: "a", Kind: "integer"},
			{Name: "b", Kind: "bool", Nullable: true},
			{Name: "c", Kind: "string", HasDefault: true, Default: "x"},
			{Name: "d", Kind: "container", Map: true},
		})

		assert.Equal(t, []string{"a", "d"}, s.Required)
		assert.Equal(t, "boolean", s.Properties["b"].Type)
		assert.Equal(t, "x", s.Properties["c"].Default)
		assert.Equal(t, "object", s.Properties["d"].Type)
		assert.Nil(t, s.Properties["d"].AdditionalProperties)
	})
}
