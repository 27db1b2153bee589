package rssfeeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"newsdash/config"
	"newsdash/types"
)

// NewFeedClient returns the HTTP client used for feed documents: bounded by
// config.FetchTimeout and at most config.MaxRedirects redirects.
func NewFeedClient() *http.Client {
	return &http.Client{
		Timeout: config.FetchTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		},
	}
}

// FeedFetcher retrieves and parses RSS/Atom documents.
type FeedFetcher struct {
	parser   *gofeed.Parser
	maxItems int
}

// NewFeedFetcher builds a fetcher that keeps the first maxItems items of a feed.
// A nil client gets NewFeedClient.
func NewFeedFetcher(client *http.Client, maxItems int) *FeedFetcher {
	if client == nil {
		client = NewFeedClient()
	}
	if maxItems <= 0 {
		maxItems = config.DefaultMaxItems
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = config.UserAgent
	return &FeedFetcher{parser: parser, maxItems: maxItems}
}

// FetchItems retrieves and parses an RSS/Atom feed, returning at most maxItems
// items in feed order.
func (f *FeedFetcher) FetchItems(ctx context.Context, feedURL string) ([]types.FeedItem, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	count := min(len(feed.Items), f.maxItems)
	items := make([]types.FeedItem, 0, count)

	for _, item := range feed.Items[:count] {
		if item == nil {
			continue
		}
		items = append(items, toFeedItem(item))
	}
	return items, nil
}

func toFeedItem(item *gofeed.Item) types.FeedItem {
	link := strings.TrimSpace(item.Link)
	if link == "" && len(item.Links) > 0 {
		link = strings.TrimSpace(item.Links[0])
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	return types.FeedItem{
		Title:     item.Title,
		Link:      link,
		Published: published,
		Author:    itemAuthor(item),
		Summary:   summary,
	}
}

// itemAuthor prefers the creator/author fields the feed provides.
func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		return strings.TrimSpace(item.Author.Name)
	}
	for _, a := range item.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			return strings.TrimSpace(a.Name)
		}
	}
	if item.DublinCoreExt != nil {
		for _, c := range item.DublinCoreExt.Creator {
			if strings.TrimSpace(c) != "" {
				return strings.TrimSpace(c)
			}
		}
	}
	return ""
}
