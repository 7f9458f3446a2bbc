package loretex

import (
	"strings"
	"unicode"
)

// Slugify lowercases text and replaces every non-alphanumeric rune with
// separator, collapsing runs and trimming the ends. Used for heading labels,
// wiki-link targets, and internal reference fragments.
func Slugify(text, separator string) string {
	if separator == "" {
		separator = "-"
	}

	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteString(separator)
		}
	}

	slug := b.String()
	double := separator + separator
	for strings.Contains(slug, double) {
		slug = strings.ReplaceAll(slug, double, separator)
	}
	return strings.Trim(slug, separator)
}
