package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gomapper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Should return defaults when nothing is configured", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load("", nil)

		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.JSON)
		assert.True(t, cfg.Gen.Constructors)
		assert.Empty(t, cfg.Gen.BuildTags)
		assert.Equal(t, "yaml", cfg.Inspect.Format)
	})

	t.Run("Should read the YAML config file", func(t *testing.T) {
		path := writeConfig(t, "log:\n  level: debug\ngen:\n  constructors: false\n  build_tags: [integration]\n")

		cfg, err := Load(path, nil)

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.False(t, cfg.Gen.Constructors)
		assert.Equal(t, []string{"integration"}, cfg.Gen.BuildTags)
		assert.Equal(t, "yaml", cfg.Inspect.Format)
	})

	t.Run("Should pick up the default file from the working directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("inspect:\n  format: json\n"), 0o600))
		t.Chdir(dir)

		cfg, err := Load("", nil)

		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Inspect.Format)
	})

	t.Run("Should let environment variables override the file", func(t *testing.T) {
		path := writeConfig(t, "log:\n  level: debug\n")
		t.Setenv("GOMAPPER_LOG_LEVEL", "warn")
		t.Setenv("GOMAPPER_LOG_JSON", "true")
		t.Setenv("GOMAPPER_GEN_BUILD_TAGS", "a,b")

		cfg, err := Load(path, nil)

		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.True(t, cfg.Log.JSON)
		assert.Equal(t, []string{"a", "b"}, cfg.Gen.BuildTags)
	})

	t.Run("Should let overrides win over environment", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("GOMAPPER_LOG_LEVEL", "warn")

		cfg, err := Load("", map[string]any{"log.level": "error", "gen.output": "out.go"})

		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Log.Level)
		assert.Equal(t, "out.go", cfg.Gen.Output)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		path := writeConfig(t, "inspect:\n  format: xml\n")

		_, err := Load(path, nil)

		assert.ErrorContains(t, err, "validation failed")
	})

	t.Run("Should fail on a missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)

		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestTransformEnvKey(t *testing.T) {
	t.Run("Should split the section from the field name", func(t *testing.T) {
		assert.Equal(t, "gen.build_tags", transformEnvKey("GEN_BUILD_TAGS"))
		assert.Equal(t, "log.level", transformEnvKey("LOG__LEVEL"))
		assert.Equal(t, "log", transformEnvKey("LOG"))
		assert.Equal(t, "", transformEnvKey("_"))
	})
}
