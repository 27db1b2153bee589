package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Article is a stored article: a feed item plus its extracted page content.
// URL is the natural key; re-ingesting the same URL updates the row in place.
type Article struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Content  string    `json:"content"`
	Summary  string    `json:"summary"`
	Source   string    `json:"source"`
	Author   string    `json:"author,omitempty"`
	PubDate  time.Time `json:"pub_date"`
	ReadTime int       `json:"read_time"`
	IsRead   bool      `json:"is_read"`
	IsSaved  bool      `json:"is_saved"`
	Score    float64   `json:"score"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// FeedItem is one entry of a parsed feed. It only lives for a single fetch pass.
type FeedItem struct {
	Title     string
	Link      string
	Published *time.Time
	Author    string
	Summary   string
}

// ArticleFilter narrows article listings.
type ArticleFilter struct {
	Unread   bool
	Saved    bool
	Category string
	Limit    int
}

// DefaultArticleLimit is used when a filter carries no limit.
const DefaultArticleLimit = 50

// Stats is the dashboard counter triple.
type Stats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Saved  int `json:"saved"`
}

// GenerateID creates a short, stable ID from a URL. Used for archive object keys.
func GenerateID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}
