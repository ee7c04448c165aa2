// Package translate formats user visible messages for the host locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported message languages. The first is the default.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.German,
}

var matcher = language.NewMatcher(supported)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("chip8: locale: %v", err)
	}

	SetLocale(locales...)
}

// SetLocale selects the message language from a list of preferred
// BCP 47 locales. Unparsable locales are skipped.
func SetLocale(locales ...string) {
	var tags []language.Tag
	for _, name := range locales {
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}

	_, index, _ := matcher.Match(tags...)
	printer = message.NewPrinter(supported[index])
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
