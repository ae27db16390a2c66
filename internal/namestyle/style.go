// Package namestyle converts filename stems into platform- and web-safe
// naming styles.
package namestyle

import "fmt"

// Style selects the naming convention applied to a filename stem.
// It is a stateless tag; every transformation function takes one.
type Style string

const (
	// StyleWeb produces lowercase hyphen-delimited names. Underscores are
	// preserved as-is, since they are in the RFC 1738 "safe" character set.
	StyleWeb Style = "web"

	// StyleSnake produces lowercase underscore-delimited names. Hyphens
	// are converted to underscores.
	StyleSnake Style = "snake"

	// StyleKebab produces lowercase hyphen-delimited names. Unlike web,
	// underscores are converted to hyphens.
	StyleKebab Style = "kebab"

	// StyleCamel produces camelCase names with no delimiter.
	//
	// Camel output is not idempotent: a second Normalize pass has no
	// separators left to split on, so it lower-cases the interior
	// capitals ("myFileV2" -> "myfilev2"). The three delimiter styles
	// are idempotent.
	StyleCamel Style = "camel"
)

// DefaultStyle is the style used when none is specified.
const DefaultStyle = StyleWeb

// Styles returns all valid styles in declaration order.
func Styles() []Style {
	return []Style{StyleWeb, StyleSnake, StyleKebab, StyleCamel}
}

// ParseStyle converts a user-supplied string into a Style.
// It returns an error naming the valid set for anything else.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleWeb, StyleSnake, StyleKebab, StyleCamel:
		return Style(s), nil
	}
	return "", fmt.Errorf("unknown style %q (valid styles: web, snake, kebab, camel)", s)
}

// Delimiter returns the delimiter character the style joins with,
// or the empty string for camel.
func (s Style) Delimiter() string {
	switch s {
	case StyleSnake:
		return "_"
	case StyleWeb, StyleKebab:
		return "-"
	}
	return ""
}

func (s Style) String() string {
	return string(s)
}
