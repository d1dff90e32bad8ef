package domain

// Language - язык меток в отчётах и экспортах
type Language string

const (
	LanguageEN Language = "en"
	LanguageTH Language = "th"
)

// ParseLanguage returns English for anything that is not a supported language.
func ParseLanguage(s string) Language {
	if Language(s) == LanguageTH {
		return LanguageTH
	}
	return LanguageEN
}
