package language

import (
	"os"
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"ywbridge/internal/faults"
)

// Sentinel codes for documents without a usable language.
const (
	NoLanguage = "zxx"
	NoCountry  = "none"
)

// Locale is a language/country pair as stored in projects and documents.
type Locale struct {
	Language string
	Country  string
}

// None is the "no linguistic content" locale.
var None = Locale{Language: NoLanguage, Country: NoCountry}

// Tag renders the locale as "xx-YY", or just the language for the sentinel.
func (l Locale) Tag() string {
	if l.Country == "" || l.Country == NoCountry {
		return l.Language
	}
	return l.Language + "-" + l.Country
}

// IsNone reports whether l is the sentinel.
func (l Locale) IsNone() bool {
	return l.Language == NoLanguage
}

// CheckLocale validates a language/country pair. An invalid pair yields None
// together with a *faults.InvalidLanguageCodeError the caller records as a
// warning.
func CheckLocale(lang, country string) (Locale, error) {
	lang, country = strings.TrimSpace(lang), strings.TrimSpace(country)
	if lang == NoLanguage && country == NoCountry {
		return None, nil
	}
	if validLanguage(lang) && validCountry(country) {
		return Locale{Language: lang, Country: country}, nil
	}
	return None, &faults.InvalidLanguageCodeError{Language: lang, Country: country, Replacement: None.Tag()}
}

func validLanguage(code string) bool {
	if len(code) != 2 || strings.ToLower(code) != code {
		return false
	}
	_, err := xlang.ParseBase(code)
	return err == nil
}

func validCountry(code string) bool {
	if len(code) != 2 || strings.ToUpper(code) != code {
		return false
	}
	region, err := xlang.ParseRegion(code)
	return err == nil && region.IsCountry()
}

// Resolve returns the project locale. Missing codes fall back to the host
// locale and then to fallback; present codes are validated with CheckLocale.
func Resolve(lang, country string, fallback Locale) (Locale, error) {
	if strings.TrimSpace(lang) == "" {
		if sys, ok := SystemLocale(); ok {
			return sys, nil
		}
		return CheckLocale(fallback.Language, fallback.Country)
	}
	return CheckLocale(lang, country)
}

// SystemLocale reads the host locale from LC_ALL, LC_MESSAGES and LANG, in
// that order. Values such as "de_DE.UTF-8" yield {de DE}.
func SystemLocale() (Locale, bool) {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		value, _, _ = strings.Cut(value, ".")
		value, _, _ = strings.Cut(value, "@")
		lang, country, ok := strings.Cut(value, "_")
		if !ok {
			continue
		}
		if loc, err := CheckLocale(lang, country); err == nil {
			return loc, true
		}
	}
	return Locale{}, false
}

// ParseTag splits "xx-YY" (or "xx_YY") into a locale without validating it.
func ParseTag(tag string) Locale {
	tag = strings.TrimSpace(tag)
	lang, country, _ := strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
	return Locale{Language: lang, Country: country}
}

// DisplayName returns an English name for a language tag such as "de-DE".
// Returns "Unknown" for empty input and the tag itself when it cannot be
// parsed.
func DisplayName(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "Unknown"
	}
	if tag == NoLanguage {
		return "No language"
	}
	parsed, err := xlang.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Tags().Name(parsed); name != "" {
		return name
	}
	return tag
}
