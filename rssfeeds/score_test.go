package rssfeeds

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"newsdash/types"
)

func TestScoreArticle(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		content string
		want    int
	}{
		{"nil-free empty", "", "", 0},
		{"no keywords", "Gardening tips", "Tomatoes need sun.", 0},
		{"top keyword twice and secondary once", "WordPress release", "New wordpress themes improve CSS handling.", 2*3 + 1*2},
		{"case insensitive", "DESIGN", "Design design", 3 * 2},
		{"multi word term", "Open Source friday", "more open source", 2 * 2},
		{"clamped", "WordPress WordPress", "wordpress wordpress css", MaxScore},
		{"title and content are joined", "product", "management", 1 + 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreArticle(&types.Article{Title: tc.title, Content: tc.content})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScoreArticleNil(t *testing.T) {
	assert.Equal(t, 0, ScoreArticle(nil))
}
