package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "column" or "dtype").
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
			return "型が不正です"
		case "missing_column":
			return "必須カラムが不足しています"
		case "duplicate_column":
			return "カラム名が重複しています"
		case "unknown_dtype":
			return "未知のデータ型です"
		case "convert_failure":
			return "型変換に失敗しました"
		case "key_conflict":
			return "キーカラムが既に存在します"
		case "length_mismatch":
			return "カラムの長さが一致しません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "missing_column":
			return "required column missing"
		case "duplicate_column":
			return "duplicate column name"
		case "unknown_dtype":
			return "unknown dtype"
		case "convert_failure":
			return "dtype conversion failed"
		case "key_conflict":
			return "key column already exists"
		case "length_mismatch":
			return "column length mismatch"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
