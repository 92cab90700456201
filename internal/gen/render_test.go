package gen

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gomapper"
	"github.com/reoring/gomapper/internal/analyze"
)

func commentStruct() *analyze.Struct {
	return &analyze.Struct{
		Name:    "Comment",
		PkgName: "guestbook",
		Fields: []analyze.Field{
			{Key: "id", Kind: gomapper.KindInteger},
			{Key: "name", Kind: gomapper.KindString, Groups: []string{"content"}},
			{Key: "note", Kind: gomapper.KindString, Nullable: true, Flagged: true},
		},
		Constructor: &analyze.Constructor{Func: "NewComment", Params: []string{"id", "name"}},
	}
}

func TestRenderFile(t *testing.T) {
	t.Run("Should emit a parseable registration file", func(t *testing.T) {
		out, err := RenderFile(File{Package: "guestbook", Types: []*analyze.Struct{commentStruct()}})
		require.NoError(t, err)

		_, err = parser.ParseFile(token.NewFileSet(), "gen.go", out, 0)
		require.NoError(t, err)
		src := string(out)
		assert.Contains(t, src, "// Code generated by gomapper gen. DO NOT EDIT.")
		assert.Contains(t, src, "package guestbook")
		assert.Contains(t, src, `Constructor(NewComment, "id", "name").`)
		assert.Contains(t, src, `Field("id").Kind(gomapper.KindInteger).`)
		assert.Contains(t, src, `Field("note").Kind(gomapper.KindString).Nullable().`)
		assert.Contains(t, src, "MustRegister()")
	})

	t.Run("Should render types without constructor or fields", func(t *testing.T) {
		out, err := RenderFile(File{Package: "p", Types: []*analyze.Struct{{Name: "Empty"}}})
		require.NoError(t, err)

		assert.Contains(t, string(out), "dsl.ObjectOf[Empty]().")
		assert.NotContains(t, string(out), "Constructor(")
	})

	t.Run("Should require a package name", func(t *testing.T) {
		_, err := RenderFile(File{})
		assert.Error(t, err)
	})

	t.Run("Should reject fields without a kind", func(t *testing.T) {
		s := &analyze.Struct{Name: "Bad", Fields: []analyze.Field{{Key: "x"}}}
		_, err := RenderFile(File{Package: "p", Types: []*analyze.Struct{s}})
		assert.Error(t, err)
	})
}
