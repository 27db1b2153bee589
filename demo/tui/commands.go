package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"newsdash/types"
)

const (
	pollInterval   = 2 * time.Second
	requestTimeout = 5 * time.Second
)

// pollStatus creates a command that refreshes status, stats and articles
func pollStatus(api API, filter types.ArticleFilter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		status, err := api.FetchStatus(ctx)
		if err != nil {
			return StatusUpdateMsg{Err: err}
		}
		stats, err := api.Stats(ctx)
		if err != nil {
			return StatusUpdateMsg{Err: err}
		}
		articles, err := api.ListArticles(ctx, filter)
		return StatusUpdateMsg{Status: status, Stats: stats, Articles: articles, Err: err}
	}
}

// triggerFetch starts a fetch-all run; it returns when the run is done
func triggerFetch(api API) tea.Cmd {
	return func() tea.Msg {
		count, err := api.TriggerFetch(context.Background())
		return FetchDoneMsg{Count: count, Err: err}
	}
}

func markRead(api API, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return ArticleUpdatedMsg{ID: id, Action: "read", Err: api.MarkRead(ctx, id)}
	}
}

func toggleSaved(api API, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		saved, err := api.ToggleSaved(ctx, id)
		return ArticleUpdatedMsg{ID: id, Action: "save", IsSaved: saved, Err: err}
	}
}

// tickCmd creates a command that ticks for polling
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
