package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dtoPkg = "../../internal/analyze/testdata/dto"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := RootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestInspectCmd(t *testing.T) {
	t.Run("Should print metadata as YAML by default", func(t *testing.T) {
		out, err := execute(t, "inspect", "--pkg", dtoPkg, "--type", "Comment", "--log-level", "disabled")

		require.NoError(t, err)
		assert.Contains(t, out, "type: Comment")
		assert.Contains(t, out, "name: text")
		assert.Contains(t, out, "- NewComment")
	})

	t.Run("Should print a JSON Schema", func(t *testing.T) {
		out, err := execute(t, "inspect", "--pkg", dtoPkg, "--type", "Page", "--format", "jsonschema")

		require.NoError(t, err)
		assert.Contains(t, out, `"title": "Page"`)
		assert.Contains(t, out, `"x-groups"`)
	})

	t.Run("Should dump the analyzed struct", func(t *testing.T) {
		out, err := execute(t, "inspect", "--pkg", dtoPkg, "--type", "Account", "--format", "dump")

		require.NoError(t, err)
		assert.Contains(t, out, "NewAccount")
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := execute(t, "inspect", "--pkg", dtoPkg, "--type", "Comment", "--format", "xml")

		assert.Error(t, err)
	})
}

func TestGenCmd(t *testing.T) {
	t.Run("Should write registration code to stdout", func(t *testing.T) {
		out, err := execute(t, "gen", "--pkg", dtoPkg, "--type", "Comment,Account")

		require.NoError(t, err)
		assert.Contains(t, out, "package dto")
		assert.Contains(t, out, `Constructor(NewComment, "id", "name", "text").`)
		assert.Contains(t, out, `Constructor(NewAccount, "owner").`)
	})

	t.Run("Should honour constructors=false and write to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "gen.go")

		_, err := execute(t, "gen", "--pkg", dtoPkg, "--type", "Comment", "--constructors=false", "-o", path)

		require.NoError(t, err)
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(b), "Constructor(")
		assert.Contains(t, string(b), `Field("id").Kind(gomapper.KindInteger).`)
	})

	t.Run("Should require the type flag", func(t *testing.T) {
		_, err := execute(t, "gen", "--pkg", dtoPkg)

		assert.Error(t, err)
	})
}
