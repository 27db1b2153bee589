package tui

import (
	"time"

	sharedtypes "newsdash/shared/types"
	"newsdash/types"
)

// Messages for the tea program (polling-based)

// StatusUpdateMsg carries one poll of the server: scheduler state, counters and the article page.
type StatusUpdateMsg struct {
	Status   sharedtypes.StatusResponse
	Stats    types.Stats
	Articles []types.Article
	Err      error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}

// FetchDoneMsg is sent when a manual fetch run returns.
type FetchDoneMsg struct {
	Count int
	Err   error
}

// ArticleUpdatedMsg is sent after a read or save action on one article.
type ArticleUpdatedMsg struct {
	ID      int64
	Action  string
	IsSaved bool
	Err     error
}
