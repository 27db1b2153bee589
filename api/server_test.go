package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdash/config"
	"newsdash/orchestrator"
	sharedtypes "newsdash/shared/types"
	"newsdash/storage"
	"newsdash/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRunner struct {
	err      error
	articles []types.Article
	calls    int
	fetched  []types.Source
}

func (r *fakeRunner) Trigger(ctx context.Context, trigger orchestrator.Trigger) (orchestrator.RunResult, error) {
	r.calls++
	if r.err != nil {
		return orchestrator.RunResult{}, r.err
	}
	return orchestrator.RunResult{RunID: "run-1", Trigger: trigger, Articles: r.articles}, nil
}

func (r *fakeRunner) Status() sharedtypes.StatusResponse {
	return sharedtypes.StatusResponse{State: sharedtypes.StateIdle, Runs: []sharedtypes.RunSummary{}}
}

func (r *fakeRunner) FetchSourceNow(ctx context.Context, src types.Source) (orchestrator.RunResult, error) {
	r.fetched = append(r.fetched, src)
	return orchestrator.RunResult{Trigger: orchestrator.TriggerSource, Articles: []types.Article{{URL: src.URL + "/1"}}}, nil
}

// blockingFetcher holds FetchAll open until release is closed.
type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
	sources atomic.Int32
}

func (f *blockingFetcher) FetchAll(ctx context.Context) ([]types.Article, error) {
	f.started <- struct{}{}
	<-f.release
	return []types.Article{}, nil
}

func (f *blockingFetcher) FetchSource(ctx context.Context, src types.Source) []types.Article {
	f.sources.Add(1)
	return []types.Article{{URL: src.URL + "/1"}}
}

type testEnv struct {
	router *gin.Engine
	store  *storage.Store
	runner *fakeRunner
}

func newTestEnv(t *testing.T, mutate ...func(*Deps)) *testEnv {
	t.Helper()
	store, err := storage.Open(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "news.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	env := &testEnv{store: store, runner: &fakeRunner{}}
	deps := Deps{
		Store:  store,
		Runner: env.runner,
		Logger: quietLogger(),
	}
	for _, m := range mutate {
		m(&deps)
	}
	env.router = NewRouter(deps)
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedArticle(t *testing.T, url, source, title string, pub time.Time) int64 {
	t.Helper()
	id, err := e.store.UpsertArticle(context.Background(), &types.Article{
		Title: title, URL: url, Content: "content", Source: source, PubDate: pub,
	})
	require.NoError(t, err)
	return id
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestArticlesReadSaveAndStats(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := env.seedArticle(t, "https://example.com/1", "WP Tavern", "One", base)
	env.seedArticle(t, "https://example.com/2", "CSS-Tricks", "Two", base.Add(time.Hour))

	w := env.do(http.MethodPost, "/api/articles/"+itoa(first)+"/read", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodPost, "/api/articles/"+itoa(first)+"/save", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"is_saved":true}`, w.Body.String())

	var unread []types.Article
	w = env.do(http.MethodGet, "/api/articles?unread=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unread))
	require.Len(t, unread, 1)
	assert.Equal(t, "Two", unread[0].Title)

	var design []types.Article
	w = env.do(http.MethodGet, "/api/articles?category=Design", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &design))
	require.Len(t, design, 1)
	assert.Equal(t, "CSS-Tricks", design[0].Source)

	var stats types.Stats
	w = env.do(http.MethodGet, "/api/stats", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, types.Stats{Total: 2, Unread: 1, Saved: 1}, stats)
}

func TestArticlesRankByScore(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env.seedArticle(t, "https://example.com/plain", "GitHub Blog", "Release notes", base.Add(time.Hour))
	env.seedArticle(t, "https://example.com/wp", "WP Tavern", "WordPress design tips", base)

	var ranked []types.Article
	w := env.do(http.MethodGet, "/api/articles?rank=score", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "WordPress design tips", ranked[0].Title)
	assert.Equal(t, 5.0, ranked[0].Score)
	assert.Equal(t, 0.0, ranked[1].Score)
}

func TestArticleErrors(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/articles/abc/read", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/articles/999/read", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/articles/999/save", "").Code)
}

func TestAddSourceFetchesOnce(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/sources", `{"name":"Go Blog","url":"https://go.dev/blog/feed.atom"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success  bool  `json:"success"`
		SourceID int64 `json:"sourceId"`
		Articles int   `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.SourceID)
	assert.Equal(t, 1, resp.Articles)
	require.Len(t, env.runner.fetched, 1)
	assert.Equal(t, types.DefaultCategory, env.runner.fetched[0].Category)

	var sources []types.Source
	w = env.do(http.MethodGet, "/api/sources", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sources))
	assert.Len(t, sources, 7)

	assert.Equal(t, http.StatusConflict,
		env.do(http.MethodPost, "/api/sources", `{"name":"Again","url":"https://go.dev/blog/feed.atom"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		env.do(http.MethodPost, "/api/sources", `{"name":"No URL"}`).Code)
}

func TestAddSourceDuringRunIsQueued(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{}, 1), release: make(chan struct{})}
	sched := orchestrator.New(fetcher,
		orchestrator.WithSchedule(""),
		orchestrator.WithStartupDelay(-1),
		orchestrator.WithLogger(quietLogger()),
	)
	defer sched.Stop()
	env := newTestEnv(t, func(d *Deps) { d.Runner = sched })

	done := make(chan struct{})
	go func() {
		sched.Trigger(context.Background(), orchestrator.TriggerSchedule)
		close(done)
	}()
	<-fetcher.started

	w := env.do(http.MethodPost, "/api/sources", `{"name":"Go Blog","url":"https://go.dev/blog/feed.atom"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"queued":true`)
	assert.Zero(t, fetcher.sources.Load())

	close(fetcher.release)
	<-done

	w = env.do(http.MethodPost, "/api/sources", `{"name":"Rust Blog","url":"https://blog.rust-lang.org/feed.xml"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"articles":1`)
	assert.EqualValues(t, 1, fetcher.sources.Load())
}

func TestFetchEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.runner.articles = []types.Article{{URL: "a"}, {URL: "b"}, {URL: "c"}}

	w := env.do(http.MethodPost, "/api/fetch", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fetched 3 new articles")

	env.runner.err = orchestrator.ErrRunInProgress
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/fetch", "").Code)

	w = env.do(http.MethodGet, "/api/fetch/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"idle"`)
}

func TestBasicAuth(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Auth = config.AuthConfig{User: "reader", Password: "secret"}
	})

	w := env.do(http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), `realm="News Dashboard"`)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.SetBasicAuth("reader", "secret")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaticFilesAndMetrics(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>News</h1>"), 0o644))
	env := newTestEnv(t, func(d *Deps) { d.PublicDir = dir })

	w := env.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>News</h1>")

	w = env.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
