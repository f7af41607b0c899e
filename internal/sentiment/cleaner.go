package sentiment

import (
	"regexp"
	"strings"
	"unicode"
)

// urlPattern matches "http" and everything up to the next whitespace rune.
var urlPattern = regexp.MustCompile(`http[^\s\v\x1c-\x1f\x{85}\p{Z}]+`)

// isSpace extends unicode.IsSpace with the ASCII information separators
// U+001C..U+001F, which also separate words in the scored text.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// CleanText normalizes a raw text value: lowercase, drop URLs, keep only ASCII
// letters, digits and whitespace, then collapse whitespace runs to one space.
// An empty result is valid.
func CleanText(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', isSpace(r):
			return r
		default:
			return -1
		}
	}, text)
	return strings.Join(strings.FieldsFunc(text, isSpace), " ")
}
