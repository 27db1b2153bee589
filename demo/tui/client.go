package tui

import (
	"context"

	sharedtypes "newsdash/shared/types"
	"newsdash/types"
)

// API is the slice of the dashboard HTTP client the TUI drives.
type API interface {
	ListArticles(ctx context.Context, f types.ArticleFilter) ([]types.Article, error)
	MarkRead(ctx context.Context, id int64) error
	ToggleSaved(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context) (types.Stats, error)
	TriggerFetch(ctx context.Context) (int, error)
	FetchStatus(ctx context.Context) (sharedtypes.StatusResponse, error)
}
