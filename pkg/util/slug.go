package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators   = regexp.MustCompile(`[-\s]+`)
)

// asciiFold decomposes accented characters and drops whatever is left outside ASCII.
func asciiFold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		return ""
	}
	return out
}

// Slugify converts a display name into a URL-safe identifier.
// "Dragon Ball" becomes "dragon-ball", "Crème Brûlée!" becomes "creme-brulee".
// The result may be empty when the name has no ASCII-representable characters.
func Slugify(name string) string {
	s := strings.ToLower(asciiFold(name))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}
