// Package i18n holds the console's message catalog and language matching.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported languages, default first
var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.Indonesian,
}

var matcher = language.NewMatcher(supported)

var messages = buildCatalog()

// Languages returns the supported language codes
func Languages() []string {
	out := make([]string, 0, len(supported))
	for _, tag := range supported {
		out = append(out, tag.String())
	}
	return out
}

// Match picks the supported language closest to the given preferences,
// e.g. the settings value followed by $LANG. Unknown input yields English.
func Match(preferences ...string) language.Tag {
	var tags []language.Tag
	for _, pref := range preferences {
		pref = normalizePOSIX(pref)
		if pref == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(pref)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

// normalizePOSIX turns en_US.UTF-8 into en-US
func normalizePOSIX(v string) string {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}

// Localizer formats console text in one language
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the supported language closest to tag
func New(tag language.Tag) *Localizer {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		idx = 0
	}
	t := supported[idx]
	return &Localizer{
		tag:     t,
		printer: message.NewPrinter(t, message.Catalog(messages)),
	}
}

// Tag returns the language in use
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// T translates key, formatting args with the language's number conventions
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Label translates an enum value such as a stock status or transaction type
func (l *Localizer) Label(value string) string {
	if key, ok := labels[value]; ok {
		return l.T(key)
	}
	return value
}

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, e := range entries {
		_ = b.SetString(language.English, e.key, e.key)
		if e.es != "" {
			_ = b.SetString(language.Spanish, e.key, e.es)
		}
		if e.id != "" {
			_ = b.SetString(language.Indonesian, e.key, e.id)
		}
	}
	return b
}
