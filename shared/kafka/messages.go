package kafka

import (
	"context"
	"time"
)

// FetchRequest asks the dashboard to run a fetch over all active sources.
type FetchRequest struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

// EventArticleStored is the type of ArticleEvent messages.
const EventArticleStored = "article.stored"

// ArticleEvent is published for every stored article.
type ArticleEvent struct {
	Type     string    `json:"type"`
	ID       int64     `json:"id"`
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Source   string    `json:"source"`
	Summary  string    `json:"summary"`
	PubDate  time.Time `json:"pub_date"`
	ReadTime int       `json:"read_time"`
	StoredAt time.Time `json:"stored_at"`
}

// NewFetchRequestHandler decodes fetch requests and hands them to run.
// Malformed messages are marked so they are not redelivered.
func NewFetchRequestHandler(run func(ctx context.Context, req *FetchRequest) error) *TypedMessageHandler[FetchRequest] {
	return &TypedMessageHandler[FetchRequest]{
		Process:    run,
		AlwaysMark: true,
	}
}
