package models

// LocalizedText carries the translations catalog text ships with. Locales are
// a fixed, known set; anything else resolves to the empty string.
type LocalizedText struct {
	En string `json:"en" bson:"en"`
	Es string `json:"es" bson:"es"`
}

const (
	LocaleEN = "en"
	LocaleES = "es"
)

// Resolve projects the text for one locale. Unknown or missing locales yield
// an empty string rather than guessing a fallback language.
func (t LocalizedText) Resolve(locale string) string {
	switch locale {
	case LocaleEN:
		return t.En
	case LocaleES:
		return t.Es
	default:
		return ""
	}
}

// IsZero reports whether no translation is set.
func (t LocalizedText) IsZero() bool {
	return t.En == "" && t.Es == ""
}
