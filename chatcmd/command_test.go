package chatcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdash/orchestrator"
	"newsdash/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Command
	}{
		{
			name:    "rss feed with name",
			message: `Add RSS feed: https://css-tricks.com/feed named "CSS-Tricks"`,
			want:    Command{URL: "https://css-tricks.com/feed", Name: "CSS-Tricks", Category: "Design"},
		},
		{
			name:    "rss feed without name uses host",
			message: "please add this rss feed https://www.wptavern.com/feed",
			want:    Command{URL: "https://www.wptavern.com/feed", Name: "wptavern.com", Category: "WordPress"},
		},
		{
			name:    "called keyword",
			message: "add rss feed: https://go.dev/blog/feed.atom called Go Blog",
			want:    Command{URL: "https://go.dev/blog/feed.atom", Name: "Go Blog", Category: "Development"},
		},
		{
			name:    "add feed url name",
			message: "add feed https://example.org/rss Example News",
			want:    Command{URL: "https://example.org/rss", Name: "Example News", Category: types.DefaultCategory},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSiteNameWithoutURL(t *testing.T) {
	_, err := Parse("subscribe to Smashing Magazine's feed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingURL))
	assert.Contains(t, err.Error(), `"Smashing Magazine"`)
}

func TestParseNoCommand(t *testing.T) {
	_, err := Parse("what's new today?")
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestGuessCategory(t *testing.T) {
	assert.Equal(t, "WordPress", GuessCategory("WP Tavern", "https://wptavern.com/feed"))
	assert.Equal(t, "Design", GuessCategory("CSS-Tricks", "https://css-tricks.com/feed/"))
	assert.Equal(t, "Development", GuessCategory("GitHub Blog", "https://github.blog/feed/"))
	assert.Equal(t, "Other", GuessCategory("Cooking", "https://food.example/rss"))
}

type fakeStore struct {
	added []types.Source
	err   error
}

func (f *fakeStore) AddSource(ctx context.Context, src types.Source) (types.Source, error) {
	if f.err != nil {
		return types.Source{}, f.err
	}
	src.ID = int64(len(f.added) + 1)
	src.Active = true
	f.added = append(f.added, src)
	return src, nil
}

type fakeFetcher struct {
	fetched []types.Source
	err     error
}

func (f *fakeFetcher) FetchSourceNow(ctx context.Context, src types.Source) (orchestrator.RunResult, error) {
	if f.err != nil {
		return orchestrator.RunResult{}, f.err
	}
	f.fetched = append(f.fetched, src)
	return orchestrator.RunResult{Articles: []types.Article{{URL: src.URL + "/a"}, {URL: src.URL + "/b"}}}, nil
}

func TestHandleAddsAndFetches(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{}
	h := &Handler{Store: store, Fetcher: fetcher}

	res, err := h.Handle(context.Background(), "add rss feed: https://github.blog/feed/ named GitHub")
	require.NoError(t, err)

	require.Len(t, store.added, 1)
	assert.Equal(t, "Development", store.added[0].Category)
	require.Len(t, fetcher.fetched, 1)
	assert.Equal(t, int64(1), fetcher.fetched[0].ID)
	assert.Equal(t, 2, res.Articles)
	assert.Equal(t, `Feed "GitHub" added successfully`, res.Message)
}

func TestHandleStoreError(t *testing.T) {
	fetcher := &fakeFetcher{}
	h := &Handler{Store: &fakeStore{err: errors.New("source already exists")}, Fetcher: fetcher}

	_, err := h.Handle(context.Background(), "add feed https://example.org/rss Example")
	require.Error(t, err)
	assert.Empty(t, fetcher.fetched)
}

func TestHandleQueuesWhileRunInProgress(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{err: orchestrator.ErrRunInProgress}
	h := &Handler{Store: store, Fetcher: fetcher}

	res, err := h.Handle(context.Background(), "add rss feed: https://github.blog/feed/ named GitHub")
	require.NoError(t, err)

	require.Len(t, store.added, 1)
	assert.True(t, res.Queued)
	assert.Zero(t, res.Articles)
	assert.Equal(t, `Feed "GitHub" added; it will be fetched on the next run`, res.Message)
}
