package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	sharedtypes "newsdash/shared/types"
	"newsdash/types"
)

const maxLogs = 6

// LogEntry represents a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time
	Message   string
}

// Model represents the TUI client state (thin client)
type Model struct {
	API API

	// Synced from the server
	Status   sharedtypes.StatusResponse
	Stats    types.Stats
	Articles []types.Article

	// Local UI state
	Cursor     int
	UnreadOnly bool
	Fetching   bool
	Logs       []LogEntry
	Err        error
	Connected  bool

	now func() time.Time
}

// NewModel creates a new TUI model
func NewModel(api API) Model {
	return Model{
		API:  api,
		Logs: make([]LogEntry, 0),
		now:  time.Now,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	// Start polling immediately
	return tea.Batch(
		pollStatus(m.API, m.filter()),
		tickCmd(),
	)
}

func (m Model) filter() types.ArticleFilter {
	return types.ArticleFilter{Unread: m.UnreadOnly}
}

// AddLog appends an activity line, keeping the most recent few
func (m Model) AddLog(format string, args ...any) Model {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	logs := append(m.Logs, LogEntry{Timestamp: now(), Message: fmt.Sprintf(format, args...)})
	if len(logs) > maxLogs {
		logs = logs[len(logs)-maxLogs:]
	}
	m.Logs = logs
	return m
}

// selected returns the article under the cursor
func (m Model) selected() (types.Article, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Articles) {
		return types.Article{}, false
	}
	return m.Articles[m.Cursor], true
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	if !m.Connected {
		msg := TextDisconnected
		if m.Err != nil {
			msg += ": " + m.Err.Error()
		}
		return ErrorStyle.Render(msg)
	}
	if m.Fetching || m.Status.State == sharedtypes.StateFetching {
		return StatusStyle.Render("⏳ Fetching feeds...")
	}
	text := HighlightStyle.Render("✅ Idle")
	if m.Status.NextRun != nil {
		text += "  " + InfoStyle.Render("next run "+m.Status.NextRun.Local().Format("15:04"))
	}
	return text
}
