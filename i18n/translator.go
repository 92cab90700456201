package i18n

import "sync"

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return withExpected("型が不正です", data)
		case "required":
			return "必須フィールドが不足しています"
		case "not_object":
			return "オブジェクトが必要です"
		case "unsupported_kind":
			return "未対応の型です"
		case "incomplete":
			return "未初期化のフィールドがあります"
		case "unknown_key":
			return "未知のキーです"
		case "overflow":
			return "数値が範囲外です"
		case "unresolvable":
			return "型情報を解決できません"
		case "constructor":
			return "コンストラクタが失敗しました"
		case "validation":
			return "検証に失敗しました"
		case "max_depth":
			return "最大深度を超えました"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return withExpected("invalid type", data)
		case "required":
			return "required field missing"
		case "not_object":
			return "expected an object"
		case "unsupported_kind":
			return "unsupported kind"
		case "incomplete":
			return "field left uninitialized"
		case "unknown_key":
			return "unknown key"
		case "overflow":
			return "number out of range"
		case "unresolvable":
			return "type metadata unavailable"
		case "constructor":
			return "constructor failed"
		case "validation":
			return "validation failed"
		case "max_depth":
			return "max depth exceeded"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

func withExpected(msg string, data map[string]string) string {
	if exp := data["expected"]; exp != "" {
		return msg + " (" + exp + ")"
	}
	return msg
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
