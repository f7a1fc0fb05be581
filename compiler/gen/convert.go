package gen

import (
	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Converter transforms a source-language identifier into its TypeScript
// rendering. Converters must be pure: the same input always yields the
// same output, so generation stays deterministic.
type Converter func(string) string

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Camelize converts an identifier to lowerCamelCase: "UserInfo" becomes
// "userInfo" and "order_id" becomes "orderId".
func Camelize(s string) string {
	if s == "" {
		return s
	}
	return inflect.CamelizeDownFirst(inflect.Underscore(s))
}

// Pascalize converts an identifier to UpperCamelCase: "user_info" becomes
// "UserInfo".
func Pascalize(s string) string {
	if s == "" {
		return s
	}
	return inflect.Camelize(inflect.Underscore(s))
}

// Kebab converts an identifier to kebab-case: "UserInfo" becomes
// "user-info". Common for file names in TypeScript projects.
func Kebab(s string) string {
	if s == "" {
		return s
	}
	return inflect.Dasherize(inflect.Underscore(s))
}

// Snake converts an identifier to snake_case.
func Snake(s string) string {
	return inflect.Underscore(s)
}

// Title upper-cases the leading letter of each word, leaving the rest of
// the identifier intact.
func Title(s string) string {
	return titleCaser.String(s)
}

// Identity returns the identifier unchanged.
func Identity(s string) string {
	return s
}

// Converters maps converter names to implementations. The CLI selects
// file and member naming styles from this table.
var Converters = map[string]Converter{
	"camel":    Camelize,
	"pascal":   Pascalize,
	"kebab":    Kebab,
	"snake":    Snake,
	"title":    Title,
	"identity": Identity,
}

// LookupConverter returns the named converter, or a ConfigError listing
// the valid names.
func LookupConverter(name string) (Converter, error) {
	if c, ok := Converters[name]; ok {
		return c, nil
	}
	return nil, NewConfigError("", "Converter", name, "unknown converter; use camel, pascal, kebab, snake, title or identity")
}
