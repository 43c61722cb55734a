package game

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported UI and challenge language.
type Language string

const (
	LanguageEN Language = "en"
	LanguageCN Language = "cn"
	LanguageMY Language = "my"
)

var (
	supportedTags = []language.Tag{
		language.English,
		language.SimplifiedChinese,
		language.Malay,
	}
	supportedLanguages = []Language{LanguageEN, LanguageCN, LanguageMY}
	languageMatcher    = language.NewMatcher(supportedTags)
)

// Valid reports whether l is supported.
func (l Language) Valid() bool {
	switch l {
	case LanguageEN, LanguageCN, LanguageMY:
		return true
	}
	return false
}

// Tag returns the BCP 47 tag for l.
func (l Language) Tag() language.Tag {
	switch l {
	case LanguageCN:
		return language.SimplifiedChinese
	case LanguageMY:
		return language.Malay
	default:
		return language.English
	}
}

// DisplayName is the English name used in generated-content instructions.
func (l Language) DisplayName() string {
	switch l {
	case LanguageCN:
		return "Simplified Chinese"
	case LanguageMY:
		return "Malay"
	default:
		return "English"
	}
}

// ParseLanguage maps a language code or an Accept-Language style value to a supported
// language. The short codes "cn" and "my" are accepted as written. ok is false when
// nothing matched with at least low confidence.
func ParseLanguage(raw string) (Language, bool) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if l := Language(raw); l.Valid() {
		return l, true
	}
	if raw == "" {
		return LanguageEN, false
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return LanguageEN, false
	}
	_, idx, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return LanguageEN, false
	}
	return supportedLanguages[idx], true
}
