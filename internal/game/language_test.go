package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		raw  string
		want Language
		ok   bool
	}{
		{"en", LanguageEN, true},
		{"CN", LanguageCN, true},
		{" my ", LanguageMY, true},
		{"zh-CN", LanguageCN, true},
		{"zh-Hans", LanguageCN, true},
		{"ms-MY", LanguageMY, true},
		{"en-GB,en;q=0.9", LanguageEN, true},
		{"fr-FR", LanguageEN, false},
		{"", LanguageEN, false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.raw)
		}
	}
}

func TestLanguageDisplayName(t *testing.T) {
	assert.Equal(t, "English", LanguageEN.DisplayName())
	assert.Equal(t, "Simplified Chinese", LanguageCN.DisplayName())
	assert.Equal(t, "Malay", LanguageMY.DisplayName())
	assert.False(t, Language("de").Valid())
}
