package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdash/demo/client"
	sharedtypes "newsdash/shared/types"
	"newsdash/types"
)

type fakeAPI struct {
	articles []types.Article
	lastRead int64
	filters  []types.ArticleFilter
}

func (f *fakeAPI) ListArticles(ctx context.Context, filter types.ArticleFilter) ([]types.Article, error) {
	f.filters = append(f.filters, filter)
	return f.articles, nil
}

func (f *fakeAPI) MarkRead(ctx context.Context, id int64) error {
	f.lastRead = id
	return nil
}

func (f *fakeAPI) ToggleSaved(ctx context.Context, id int64) (bool, error) { return true, nil }

func (f *fakeAPI) Stats(ctx context.Context) (types.Stats, error) {
	return types.Stats{Total: len(f.articles)}, nil
}

func (f *fakeAPI) TriggerFetch(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeAPI) FetchStatus(ctx context.Context) (sharedtypes.StatusResponse, error) {
	return sharedtypes.StatusResponse{State: sharedtypes.StateIdle}, nil
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, api *fakeAPI) Model {
	t.Helper()
	m := NewModel(api)
	msg := pollStatus(api, m.filter())()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestStatusUpdatePopulatesModel(t *testing.T) {
	api := &fakeAPI{articles: []types.Article{{ID: 1, Title: "One"}, {ID: 2, Title: "Two"}}}
	m := loaded(t, api)

	assert.True(t, m.Connected)
	assert.Len(t, m.Articles, 2)
	assert.Equal(t, 2, m.Stats.Total)
	assert.Contains(t, m.View(), "One")
}

func TestCursorAndMarkRead(t *testing.T) {
	api := &fakeAPI{articles: []types.Article{{ID: 1}, {ID: 2}}}
	m := loaded(t, api)

	next, _ := m.Update(key("j"))
	m = next.(Model)
	next, _ = m.Update(key("j"))
	m = next.(Model)
	assert.Equal(t, 1, m.Cursor)

	_, cmd := m.Update(key("r"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, int64(2), api.lastRead)

	next, _ = m.Update(msg)
	m = next.(Model)
	assert.True(t, m.Articles[1].IsRead)
}

func TestUnreadToggleChangesFilter(t *testing.T) {
	api := &fakeAPI{}
	m := loaded(t, api)

	next, cmd := m.Update(key("u"))
	m = next.(Model)
	require.NotNil(t, cmd)
	cmd()
	assert.True(t, m.UnreadOnly)
	assert.True(t, api.filters[len(api.filters)-1].Unread)
}

func TestFetchConflictIsLogged(t *testing.T) {
	m := loaded(t, &fakeAPI{})
	next, cmd := m.Update(key("f"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.Fetching)

	next, _ = m.Update(FetchDoneMsg{Err: fmt.Errorf("%w: busy", client.ErrConflict)})
	m = next.(Model)
	assert.False(t, m.Fetching)
	assert.Equal(t, "A fetch is already running", m.Logs[len(m.Logs)-1].Message)
}

func TestPollErrorDisconnects(t *testing.T) {
	m := loaded(t, &fakeAPI{})
	next, _ := m.Update(StatusUpdateMsg{Err: errors.New("connection refused")})
	m = next.(Model)
	assert.False(t, m.Connected)
	assert.Contains(t, m.View(), "connection refused")
}

func TestLogsAreBounded(t *testing.T) {
	m := NewModel(&fakeAPI{})
	for i := 0; i < maxLogs+3; i++ {
		m = m.AddLog("entry %d", i)
	}
	require.Len(t, m.Logs, maxLogs)
	assert.Equal(t, fmt.Sprintf("entry %d", maxLogs+2), m.Logs[maxLogs-1].Message)
}
