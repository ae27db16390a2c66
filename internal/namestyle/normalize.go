package namestyle

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// styleRule describes a delimiter-based style: the delimiter itself, the
// characters converted to it, and any extra characters retained beyond
// alphanumerics and the delimiter.
type styleRule struct {
	delim   byte
	convert string
	extra   string
}

// Camel is not in this table; it has no delimiter and takes a separate path.
var styleRules = map[Style]styleRule{
	StyleWeb:   {delim: '-', convert: " .", extra: "_"},
	StyleSnake: {delim: '_', convert: " .-"},
	StyleKebab: {delim: '-', convert: " ._"},
}

// whitespaceToSpace maps every Unicode whitespace rune (including U+00A0
// and U+202F) to an ASCII space.
var whitespaceToSpace = runes.Map(func(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
})

// Normalize transforms a filename stem into the given style.
//
// All Unicode whitespace is canonicalized to ASCII space and trimmed
// first; an input that is empty after that step yields the empty string.
// Delimiter styles then lower-case, convert the style's separator
// characters to its delimiter, drop everything that is not an ASCII
// alphanumeric or a retained character, collapse delimiter runs, and trim
// leading/trailing delimiters. Camel splits on separator runs instead and
// joins the cleaned segments in camelCase.
//
// Output contains only [a-z0-9] plus the style's delimiter set. Inputs
// with no alphanumeric content normalize to the empty string; that is not
// an error at this level.
func Normalize(stem string, style Style) string {
	normalized, _, _ := transform.String(whitespaceToSpace, stem)
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return ""
	}

	if style == StyleCamel {
		return applyCamel(normalized)
	}

	rule, ok := styleRules[style]
	if !ok {
		rule = styleRules[DefaultStyle]
	}
	return applyDelimiter(normalized, rule)
}

// applyDelimiter implements the shared path for web, snake and kebab:
// lower-case, convert, filter, collapse, trim.
func applyDelimiter(name string, rule styleRule) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lowered))

	lastDelim := false
	for _, r := range lowered {
		if strings.ContainsRune(rule.convert, r) {
			r = rune(rule.delim)
		}
		switch {
		case r == rune(rule.delim):
			if !lastDelim {
				b.WriteRune(r)
			}
			lastDelim = true
		case isASCIIAlnum(r) || strings.ContainsRune(rule.extra, r):
			b.WriteRune(r)
			lastDelim = false
		default:
			// Filtered out. A dropped rune does not break a delimiter run:
			// "a-!-b" still collapses to "a-b".
		}
	}

	return strings.Trim(b.String(), string(rule.delim))
}

// camelSeparators are the characters camel splits segments on.
const camelSeparators = " .-_"

// applyCamel splits on separator runs, strips each segment to its
// alphanumerics, drops empty segments, and joins the survivors with the
// first segment fully lowered and the rest title-cased.
func applyCamel(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return strings.ContainsRune(camelSeparators, r)
	})

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		cleaned := keepAlnum(part)
		if cleaned != "" {
			segments = append(segments, cleaned)
		}
	}
	if len(segments) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(segments[0]))
	for _, seg := range segments[1:] {
		b.WriteString(titleSegment(seg))
	}
	return b.String()
}

// keepAlnum strips a segment down to its ASCII alphanumerics.
func keepAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// titleSegment upper-cases the first character and lower-cases the rest.
// Segments are ASCII-only by the time this runs.
func titleSegment(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
