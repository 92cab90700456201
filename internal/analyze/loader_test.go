package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gomapper"
)

func loadDTO(t *testing.T) *Analyzer {
	t.Helper()
	a := NewAnalyzer("testdata/dto")
	require.NoError(t, a.LoadPackages("."))
	return a
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	a := loadDTO(t)

	require.Len(t, a.Packages(), 1)
	assert.Equal(t, "dto", a.Packages()[0].Name)
}

func TestAnalyzer_Struct(t *testing.T) {
	a := loadDTO(t)

	t.Run("Should describe fields in declaration order with resolved keys", func(t *testing.T) {
		s, err := a.Struct("Comment", false)
		require.NoError(t, err)

		keys := make([]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			keys = append(keys, f.Key)
		}
		assert.Equal(t, []string{"id", "name", "text"}, keys)
		assert.Equal(t, gomapper.KindInteger, s.Fields[0].Kind)
		assert.Equal(t, []string{"content"}, s.Fields[1].Groups)
		assert.Nil(t, s.Constructor)
	})

	t.Run("Should classify every supported shape", func(t *testing.T) {
		s, err := a.Struct("Page", false)
		require.NoError(t, err)

		byKey := map[string]Field{}
		for _, f := range s.Fields {
			byKey[f.Key] = f
		}
		assert.NotContains(t, byKey, "Skipped")
		assert.NotContains(t, byKey, "internal")
		assert.Equal(t, gomapper.KindString, byKey["title"].Kind)
		assert.Equal(t, gomapper.KindContainer, byKey["tags"].Kind)
		assert.True(t, byKey["tags"].HasDefault)
		assert.Equal(t, "[go]", byKey["tags"].Default)
		assert.True(t, byKey["labels"].Map)
		assert.Equal(t, gomapper.KindFloat, byKey["score"].Kind)
		assert.True(t, byKey["score"].Nullable)
		assert.Equal(t, gomapper.KindAny, byKey["extra"].Kind)
		assert.True(t, byKey["note"].Nullable)
		assert.True(t, byKey["note"].Flagged)
		assert.Equal(t, gomapper.KindObject, byKey["author"].Kind)
		assert.Equal(t, "Comment", byKey["author"].Object)
	})

	t.Run("Should map constructor parameters onto field keys", func(t *testing.T) {
		s, err := a.Struct("Comment", true)
		require.NoError(t, err)

		require.NotNil(t, s.Constructor)
		assert.Equal(t, "NewComment", s.Constructor.Func)
		assert.Equal(t, []string{"id", "name", "text"}, s.Constructor.Params)
	})

	t.Run("Should accept constructors returning a value and an error", func(t *testing.T) {
		s, err := a.Struct("Account", true)
		require.NoError(t, err)

		require.NotNil(t, s.Constructor)
		assert.Equal(t, []string{"owner"}, s.Constructor.Params)
	})

	t.Run("Should fail for unknown types", func(t *testing.T) {
		_, err := a.Struct("Missing", false)
		assert.ErrorContains(t, err, "not found")
	})
}

func TestStruct_Schema(t *testing.T) {
	a := loadDTO(t)
	s, err := a.Struct("Comment", true)
	require.NoError(t, err)

	sch := s.Schema()

	assert.Equal(t, "Comment", sch.Title)
	assert.Equal(t, []string{"id", "name", "text"}, sch.Required)
	assert.Equal(t, "integer", sch.Properties["id"].Type)
	assert.Equal(t, "constructor+property", sch.Properties["id"].Origin)
	assert.Equal(t, []string{"content"}, sch.Properties["text"].Groups)
}
