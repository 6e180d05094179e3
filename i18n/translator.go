package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "name" or "ref").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "name_normalization":
			return "識別子を正規化できません"
		case "duplicate_type_conflict":
			return "同名の型が競合しています"
		case "unresolved_reference":
			return "型参照を解決できません"
		case "external_reference":
			return "外部参照の取得に失敗しました"
		case "ambiguous_union":
			return "判別子のない合成のためプレーンな union に退避しました"
		case "invalid_composition":
			return "合成できない型の組み合わせです"
		case "invalid_schema":
			return "スキーマが不正です"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "name_normalization":
			return "identifier cannot be normalized"
		case "duplicate_type_conflict":
			return "conflicting definitions share one fullname"
		case "unresolved_reference":
			return "type reference cannot be resolved"
		case "external_reference":
			return "external reference fetch failed"
		case "ambiguous_union":
			return "no discriminator found; degraded to a plain union"
		case "invalid_composition":
			return "types cannot be composed"
		case "invalid_schema":
			return "invalid schema"
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
