// Package translate localizes the messages reported by the LS-8 machine.
package translate

import (
	"log"
	"strings"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fallback is the locale used when the environment names none.
const Fallback = "en-US"

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("ls8: locale: %v", err)
	}

	printer = message.NewPrinter(Match(locales))
}

// normalize turns a POSIX style locale name ("de_DE.UTF-8@euro") into a
// BCP 47 tag. ok is false for "C", "POSIX" and unparsable names.
func normalize(name string) (tag string, ok bool) {
	name, _, _ = strings.Cut(name, ".")
	name, _, _ = strings.Cut(name, "@")
	tag = strings.ReplaceAll(name, "_", "-")

	switch tag {
	case "", "C", "POSIX":
		return "", false
	}

	if _, err := language.Parse(tag); err != nil {
		return "", false
	}

	return tag, true
}

// Match picks the language for the reported locales. With no usable
// locale, Fallback is used.
func Match(locales []string) language.Tag {
	var tags []string
	for _, name := range locales {
		if tag, ok := normalize(name); ok {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		tags = []string{Fallback}
	}

	return message.MatchLanguage(tags...)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
