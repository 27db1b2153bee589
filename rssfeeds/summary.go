package rssfeeds

import (
	"strings"
	"unicode"

	"newsdash/config"
)

// Summarize derives a short summary from extracted article text.
//
// Content shorter than config.SummaryMinInput characters is returned as is.
// Otherwise the first sentences (up to config.SummaryMaxSentences) are used when
// at least two were found and they fit in config.SummaryMaxLength characters;
// failing that, the first config.SummaryFallbackWords words plus an ellipsis.
func Summarize(content string) string {
	if runeLen(content) < config.SummaryMinInput {
		return content
	}

	sentences := splitSentences(content)
	if len(sentences) >= 2 {
		n := min(len(sentences), config.SummaryMaxSentences)
		joined := strings.Join(sentences[:n], " ")
		if runeLen(joined) <= config.SummaryMaxLength {
			return joined
		}
	}

	words := strings.Fields(content)
	if len(words) > config.SummaryFallbackWords {
		words = words[:config.SummaryFallbackWords]
	}
	return strings.Join(words, " ") + config.Ellipsis
}

// EstimateReadTime returns whole minutes of reading at config.WordsPerMinute, rounded up.
func EstimateReadTime(content string) int {
	words := len(strings.Fields(content))
	return (words + config.WordsPerMinute - 1) / config.WordsPerMinute
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitSentences cuts text after each run of terminators that is followed by
// whitespace or the end of the text. Trailing text without a terminator is
// not a sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		end := i
		for end+1 < len(runes) && isTerminator(runes[end+1]) {
			end++
		}
		i = end
		if end+1 < len(runes) && !unicode.IsSpace(runes[end+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : end+1])); s != "" && !allTerminators(s) {
			sentences = append(sentences, s)
		}
		start = end + 1
	}
	return sentences
}

func allTerminators(s string) bool {
	for _, r := range s {
		if !isTerminator(r) {
			return false
		}
	}
	return true
}
