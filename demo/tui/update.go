package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"newsdash/demo/client"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(pollStatus(m.API, m.filter()), tickCmd())
	case StatusUpdateMsg:
		return m.handleStatusUpdate(msg)
	case FetchDoneMsg:
		return m.handleFetchDone(msg)
	case ArticleUpdatedMsg:
		return m.handleArticleUpdated(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Articles)-1 {
			m.Cursor++
		}
	case "r":
		if a, ok := m.selected(); ok && !a.IsRead {
			return m, markRead(m.API, a.ID)
		}
	case "s":
		if a, ok := m.selected(); ok {
			return m, toggleSaved(m.API, a.ID)
		}
	case "u":
		m.UnreadOnly = !m.UnreadOnly
		m.Cursor = 0
		return m, pollStatus(m.API, m.filter())
	case "f":
		if !m.Fetching {
			m.Fetching = true
			m = m.AddLog("Fetch requested")
			return m, triggerFetch(m.API)
		}
	}
	return m, nil
}

func (m Model) handleStatusUpdate(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		m.Err = msg.Err
		return m, nil
	}
	m.Connected = true
	m.Err = nil
	m.Status = msg.Status
	m.Stats = msg.Stats
	m.Articles = msg.Articles
	if m.Cursor >= len(m.Articles) {
		m.Cursor = max(len(m.Articles)-1, 0)
	}
	return m, nil
}

func (m Model) handleFetchDone(msg FetchDoneMsg) (tea.Model, tea.Cmd) {
	m.Fetching = false
	switch {
	case errors.Is(msg.Err, client.ErrConflict):
		m = m.AddLog("A fetch is already running")
	case msg.Err != nil:
		m = m.AddLog("Fetch failed: %v", msg.Err)
	default:
		m = m.AddLog("Fetched %d new articles", msg.Count)
	}
	return m, pollStatus(m.API, m.filter())
}

func (m Model) handleArticleUpdated(msg ArticleUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m = m.AddLog("Failed to %s article %d: %v", msg.Action, msg.ID, msg.Err)
		return m, nil
	}
	for i := range m.Articles {
		if m.Articles[i].ID != msg.ID {
			continue
		}
		switch msg.Action {
		case "read":
			m.Articles[i].IsRead = true
		case "save":
			m.Articles[i].IsSaved = msg.IsSaved
		}
	}
	return m, pollStatus(m.API, m.filter())
}
