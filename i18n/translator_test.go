package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reoring/gomapper/i18n"
)

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestTranslator(t *testing.T) {
	t.Cleanup(func() { i18n.SetTranslator(nil) })

	t.Run("Should embed the expected kind in invalid_type messages", func(t *testing.T) {
		assert.Equal(t, "invalid type (integer)", i18n.T("invalid_type", map[string]string{"expected": "integer"}))
		assert.Equal(t, "invalid type", i18n.T("invalid_type", nil))
	})

	t.Run("Should switch to Japanese and fall back to English for unknown languages", func(t *testing.T) {
		i18n.SetLanguage("ja")
		assert.Equal(t, "必須フィールドが不足しています", i18n.T("required", nil))
		i18n.SetLanguage("fr")
		assert.Equal(t, "required field missing", i18n.T("required", nil))
	})

	t.Run("Should echo unknown codes", func(t *testing.T) {
		assert.Equal(t, "no_such_code", i18n.T("no_such_code", nil))
	})

	t.Run("Should use a custom translator until reset", func(t *testing.T) {
		i18n.SetTranslator(upper{})
		assert.Equal(t, "X:required", i18n.T("required", nil))
		i18n.SetTranslator(nil)
		assert.Equal(t, "required field missing", i18n.T("required", nil))
	})
}
