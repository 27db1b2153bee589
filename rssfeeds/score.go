package rssfeeds

import (
	"strings"

	"newsdash/types"
)

// MaxScore caps ScoreArticle.
const MaxScore = 10

// Keyword is a weighted relevance term.
type Keyword struct {
	Term   string
	Weight int
}

// Keywords is the relevance dictionary. Terms are lower case.
var Keywords = []Keyword{
	{"wordpress", 3},
	{"design", 2},
	{"css", 2},
	{"javascript", 2},
	{"product", 1},
	{"management", 1},
	{"accessibility", 2},
	{"performance", 2},
	{"open source", 2},
}

// ScoreArticle rates an article 0..MaxScore by weighted keyword occurrences
// in its title and content. It is advisory only; ingestion never calls it.
func ScoreArticle(article *types.Article) int {
	if article == nil {
		return 0
	}
	text := strings.ToLower(article.Title + " " + article.Content)

	score := 0
	for _, kw := range Keywords {
		score += strings.Count(text, kw.Term) * kw.Weight
		if score >= MaxScore {
			return MaxScore
		}
	}
	return score
}
