package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdash/config"
	"newsdash/shared/rss"
	"newsdash/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "news.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func article(url, source string, pub time.Time) *types.Article {
	return &types.Article{
		Title:    "Title for " + url,
		URL:      url,
		Content:  "content",
		Summary:  "summary",
		Source:   source,
		PubDate:  pub,
		ReadTime: 1,
	}
}

func TestOpenSeedsDefaultSources(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sources, err := s.ListActiveSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, len(rss.DefaultSources))
	assert.Equal(t, "WordPress.org News", sources[0].Name)
	assert.Nil(t, sources[0].LastFetched)
	assert.True(t, sources[0].Active)
}

func TestOpenIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.db")
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: path}

	first, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer second.Close()

	sources, err := second.ListSources(context.Background())
	require.NoError(t, err)
	assert.Len(t, sources, len(rss.DefaultSources))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mongo"})
	assert.Error(t, err)
}

func TestUpsertArticleIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pub := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := s.UpsertArticle(ctx, article("https://example.com/a", "WP Tavern", pub))
	require.NoError(t, err)
	require.NoError(t, s.MarkRead(ctx, id))
	saved, err := s.ToggleSaved(ctx, id)
	require.NoError(t, err)
	require.True(t, saved)

	updated := article("https://example.com/a", "WP Tavern", pub)
	updated.Title = "New title"
	again, err := s.UpsertArticle(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	got, err := s.GetArticle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "summary", got.Summary)
	assert.True(t, got.IsRead)
	assert.True(t, got.IsSaved)
	assert.True(t, pub.Equal(got.PubDate))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Stats{Total: 1, Unread: 0, Saved: 1}, stats)
}

func TestListArticlesFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// WP Tavern is WordPress, CSS-Tricks is Design in the seed list.
	ids := make([]int64, 0, 4)
	for i, src := range []string{"WP Tavern", "CSS-Tricks", "WP Tavern", "CSS-Tricks"} {
		id, err := s.UpsertArticle(ctx, article("https://example.com/"+string(rune('a'+i)), src, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, s.MarkRead(ctx, ids[0]))
	_, err := s.ToggleSaved(ctx, ids[1])
	require.NoError(t, err)

	all, err := s.ListArticles(ctx, types.ArticleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, ids[3], all[0].ID, "newest first")

	unread, err := s.ListArticles(ctx, types.ArticleFilter{Unread: true})
	require.NoError(t, err)
	assert.Len(t, unread, 3)

	saved, err := s.ListArticles(ctx, types.ArticleFilter{Saved: true})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, ids[1], saved[0].ID)

	wordpress, err := s.ListArticles(ctx, types.ArticleFilter{Category: "WordPress"})
	require.NoError(t, err)
	assert.Len(t, wordpress, 2)
	for _, a := range wordpress {
		assert.Equal(t, "WP Tavern", a.Source)
	}

	limited, err := s.ListArticles(ctx, types.ArticleFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestToggleSavedFlips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertArticle(ctx, article("https://example.com/x", "GitHub Blog", time.Now()))
	require.NoError(t, err)

	saved, err := s.ToggleSaved(ctx, id)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = s.ToggleSaved(ctx, id)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestMissingRowsReturnNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.MarkRead(ctx, 999), ErrNotFound)
	_, err := s.ToggleSaved(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetArticle(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetSource(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.SetSourceActive(ctx, 999, false), ErrNotFound)
}

func TestAddSourceAndDeactivate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	src, err := s.AddSource(ctx, types.Source{Name: " Go Blog ", URL: "https://go.dev/blog/feed.atom"})
	require.NoError(t, err)
	assert.NotZero(t, src.ID)
	assert.Equal(t, "Go Blog", src.Name)
	assert.Equal(t, types.DefaultCategory, src.Category)

	_, err = s.AddSource(ctx, types.Source{Name: "Dup", URL: "https://go.dev/blog/feed.atom"})
	assert.ErrorIs(t, err, ErrSourceExists)

	_, err = s.AddSource(ctx, types.Source{Name: "No URL"})
	assert.Error(t, err)

	require.NoError(t, s.SetSourceActive(ctx, src.ID, false))
	active, err := s.ListActiveSources(ctx)
	require.NoError(t, err)
	for _, a := range active {
		assert.NotEqual(t, src.ID, a.ID)
	}
}

func TestMarkSourceFetched(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	sources, err := s.ListActiveSources(ctx)
	require.NoError(t, err)
	require.NoError(t, s.MarkSourceFetched(ctx, sources[0].ID))

	got, err := s.GetSource(ctx, sources[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastFetched)
	assert.True(t, fixed.Equal(*got.LastFetched))
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ? LIMIT ?"
	assert.Equal(t, q, sqliteDialect.rebind(q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2 LIMIT $3", postgresDialect.rebind(q))
}

func TestNullTimeScan(t *testing.T) {
	want := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	for _, in := range []any{
		"2024-02-03 04:05:06",
		"2024-02-03 04:05:06.000",
		[]byte("2024-02-03T04:05:06Z"),
		want,
		want.Unix(),
	} {
		var n nullTime
		require.NoError(t, n.Scan(in), "%v", in)
		assert.True(t, n.Valid)
		assert.True(t, want.Equal(n.Time), "%v", in)
	}

	var n nullTime
	require.NoError(t, n.Scan(nil))
	assert.False(t, n.Valid)
	assert.Nil(t, n.ptr())
	assert.Error(t, n.Scan("yesterday"))
}
