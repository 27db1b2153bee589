package rssfeeds

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// UntitledTitle replaces empty feed item titles.
const UntitledTitle = "Untitled"

var titlePolicy = bluemonday.StrictPolicy()

// collapseWhitespace folds every whitespace run into a single space and trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// runeLen counts characters, not bytes.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncate cuts s to max characters and appends suffix when it was longer.
func truncate(s string, max int, suffix string) string {
	if runeLen(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + suffix
}

// NormalizeTitle strips markup from a feed title, collapses whitespace and
// falls back to UntitledTitle.
func NormalizeTitle(title string) string {
	clean := html.UnescapeString(titlePolicy.Sanitize(title))
	clean = collapseWhitespace(clean)
	if clean == "" {
		return UntitledTitle
	}
	return clean
}
