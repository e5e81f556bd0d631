// Package locale switches between the two supported interface languages.
package locale

import (
	"golang.org/x/text/language"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

type Dir string

const (
	LTR Dir = "ltr"
	RTL Dir = "rtl"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// Supported reports whether code is one of the interface languages.
func Supported(code string) bool {
	return code == domain.LangEnglish || code == domain.LangArabic
}

// Toggle flips between English and Arabic. Anything else becomes Arabic,
// the same as toggling from the English default.
func Toggle(code string) string {
	if code == domain.LangArabic {
		return domain.LangEnglish
	}
	return domain.LangArabic
}

func Direction(code string) Dir {
	if code == domain.LangArabic {
		return RTL
	}
	return LTR
}

// Negotiate picks the interface language for an Accept-Language header,
// English when nothing matches.
func Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return domain.LangEnglish
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx != 1 {
		return domain.LangEnglish
	}
	return domain.LangArabic
}
