package rssfeeds

import (
	"context"
	"log/slog"
	"time"

	"newsdash/config"
	"newsdash/metrics"
	"newsdash/types"
)

// Store is the persistence the ingestion pipeline writes through.
type Store interface {
	ListActiveSources(ctx context.Context) ([]types.Source, error)
	// UpsertArticle inserts or updates the article keyed by its URL and
	// returns the row id.
	UpsertArticle(ctx context.Context, article *types.Article) (int64, error)
	MarkSourceFetched(ctx context.Context, sourceID int64) error
}

// ArticleHook observes articles after they are stored. Hook errors are
// logged and never affect ingestion.
type ArticleHook interface {
	ArticleStored(ctx context.Context, article *types.Article) error
}

// Ingester runs the fetch -> extract -> summarize -> store pipeline.
type Ingester struct {
	store     Store
	feeds     *FeedFetcher
	extractor *Extractor
	hooks     []ArticleHook
	delay     time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// IngesterOption configures an Ingester.
type IngesterOption func(*Ingester)

// WithSourceDelay sets the pause after each source in FetchAll.
func WithSourceDelay(d time.Duration) IngesterOption {
	return func(i *Ingester) { i.delay = d }
}

// WithHooks registers article hooks.
func WithHooks(hooks ...ArticleHook) IngesterOption {
	return func(i *Ingester) { i.hooks = append(i.hooks, hooks...) }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) IngesterOption {
	return func(i *Ingester) { i.logger = l }
}

// NewIngester wires the pipeline. Nil fetcher or extractor get defaults.
func NewIngester(store Store, feeds *FeedFetcher, extractor *Extractor, opts ...IngesterOption) *Ingester {
	if feeds == nil {
		feeds = NewFeedFetcher(nil, config.DefaultMaxItems)
	}
	if extractor == nil {
		extractor = NewExtractor(nil)
	}
	i := &Ingester{
		store:     store,
		feeds:     feeds,
		extractor: extractor,
		delay:     config.DefaultSourceDelay,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// FetchSource ingests one source and returns the articles that were stored.
// A feed that cannot be fetched yields no articles and leaves the source's
// last_fetched untouched.
func (i *Ingester) FetchSource(ctx context.Context, src types.Source) []types.Article {
	i.logger.Info("Fetching", "source", src.Name, "url", src.URL)

	items, err := i.feeds.FetchItems(ctx, src.URL)
	if err != nil {
		i.logger.Error("Error fetching feed", "source", src.Name, "error", err)
		metrics.RecordSource(false)
		return []types.Article{}
	}
	metrics.RecordSource(true)

	articles := make([]types.Article, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		article, ok := i.processItem(ctx, src, item)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	if err := i.store.MarkSourceFetched(ctx, src.ID); err != nil {
		i.logger.Error("Error updating last_fetched", "source", src.Name, "error", err)
	}

	i.logger.Info("articles processed", "source", src.Name, "stored", len(articles), "items", len(items))
	return articles
}

// processItem turns one feed item into a stored article.
func (i *Ingester) processItem(ctx context.Context, src types.Source, item types.FeedItem) (types.Article, bool) {
	page, err := i.extractor.ExtractPage(ctx, item.Link)
	if err != nil {
		i.logger.Warn("Error extracting content", "url", item.Link, "error", err)
		metrics.RecordSkip(metrics.ReasonExtractFailed)
		return types.Article{}, false
	}
	if runeLen(page.Text) <= config.MinArticleLength {
		metrics.RecordSkip(metrics.ReasonTooShort)
		return types.Article{}, false
	}

	author := item.Author
	if author == "" {
		author = page.Byline
	}
	pubDate := i.now()
	if item.Published != nil {
		pubDate = *item.Published
	}

	article := types.Article{
		Title:    NormalizeTitle(item.Title),
		URL:      item.Link,
		Content:  page.Text,
		Summary:  Summarize(page.Text),
		Source:   src.Name,
		Author:   author,
		PubDate:  pubDate,
		ReadTime: EstimateReadTime(page.Text),
	}

	id, err := i.store.UpsertArticle(ctx, &article)
	if err != nil {
		i.logger.Error("Error saving article", "url", item.Link, "error", err)
		metrics.RecordSkip(metrics.ReasonStoreFailed)
		return types.Article{}, false
	}
	article.ID = id
	metrics.RecordStored(src.Name)

	for _, hook := range i.hooks {
		if err := hook.ArticleStored(ctx, &article); err != nil {
			i.logger.Warn("Article hook failed", "url", article.URL, "error", err)
		}
	}
	return article, true
}

// FetchAll ingests every active source in order, pausing after each one.
// Only a failure to list sources is returned; per-source failures are logged.
func (i *Ingester) FetchAll(ctx context.Context) ([]types.Article, error) {
	start := time.Now()

	sources, err := i.store.ListActiveSources(ctx)
	if err != nil {
		i.logger.Error("Error listing sources", "error", err)
		return []types.Article{}, err
	}

	all := []types.Article{}
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		all = append(all, i.FetchSource(ctx, src)...)
		if err := sleep(ctx, i.delay); err != nil {
			break
		}
	}

	i.logger.Info("fetch complete",
		"articles", len(all),
		"sources", len(sources),
		"duration", time.Since(start).Round(time.Millisecond))
	return all, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
