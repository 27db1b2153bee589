package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	sharedtypes "newsdash/shared/types"
	"newsdash/types"
)

// ListArticles fetches articles matching the filter.
func (c *Client) ListArticles(ctx context.Context, f types.ArticleFilter) ([]types.Article, error) {
	q := url.Values{}
	if f.Unread {
		q.Set("unread", "true")
	}
	if f.Saved {
		q.Set("saved", "true")
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	path := "/api/articles"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var articles []types.Article
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// MarkRead flags an article as read.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	return c.doJSONRequest(ctx, http.MethodPost, fmt.Sprintf("/api/articles/%d/read", id), nil, nil)
}

// ToggleSaved flips the saved flag and returns the new value.
func (c *Client) ToggleSaved(ctx context.Context, id int64) (bool, error) {
	var result struct {
		IsSaved bool `json:"is_saved"`
	}
	if err := c.doJSONRequest(ctx, http.MethodPost, fmt.Sprintf("/api/articles/%d/save", id), nil, &result); err != nil {
		return false, err
	}
	return result.IsSaved, nil
}

// Stats returns the dashboard counters.
func (c *Client) Stats(ctx context.Context) (types.Stats, error) {
	var st types.Stats
	err := c.doJSONRequest(ctx, http.MethodGet, "/api/stats", nil, &st)
	return st, err
}

// TriggerFetch starts a fetch-all run and waits for it. A run already in
// flight yields an error wrapping ErrConflict.
func (c *Client) TriggerFetch(ctx context.Context) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/fetch", nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// FetchStatus returns the scheduler state.
func (c *Client) FetchStatus(ctx context.Context) (sharedtypes.StatusResponse, error) {
	var st sharedtypes.StatusResponse
	err := c.doJSONRequest(ctx, http.MethodGet, "/api/fetch/status", nil, &st)
	return st, err
}

// ListSources returns the active feed sources.
func (c *Client) ListSources(ctx context.Context) ([]types.Source, error) {
	var sources []types.Source
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/sources", nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}
