package rssfeeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRedirectChain serves /hop/N, which takes N+1 redirects to reach target.
func newRedirectChain(t *testing.T, target string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n int
		fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/hop/"), "%d", &n)
		next := target
		if n > 0 {
			next = fmt.Sprintf("/hop/%d", n-1)
		}
		http.Redirect(w, r, next, http.StatusFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchItemsFollowsFiveRedirects(t *testing.T) {
	site := newSite(t, 3, nil)
	chain := newRedirectChain(t, site.URL+"/feed.xml")

	items, err := NewFeedFetcher(nil, 10).FetchItems(context.Background(), chain.URL+"/hop/4")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestFetchItemsStopsAfterFiveRedirects(t *testing.T) {
	site := newSite(t, 3, nil)
	chain := newRedirectChain(t, site.URL+"/feed.xml")

	_, err := NewFeedFetcher(nil, 10).FetchItems(context.Background(), chain.URL+"/hop/5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 5 redirects")
}

func TestFetchItemsCapsItems(t *testing.T) {
	site := newSite(t, 12, nil)

	items, err := NewFeedFetcher(nil, 10).FetchItems(context.Background(), site.URL+"/feed.xml")
	require.NoError(t, err)
	require.Len(t, items, 10)
	assert.Equal(t, site.URL+"/post/0", items[0].Link)
	assert.Equal(t, "Writer", items[0].Author)
}
