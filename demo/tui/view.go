package tui

import (
	"fmt"
	"strings"
)

const maxVisibleArticles = 15

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(TextTitle))
	b.WriteString("\n\n")

	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	if m.Connected {
		stats := fmt.Sprintf("📊 Total: %d | Unread: %d | Saved: %d", m.Stats.Total, m.Stats.Unread, m.Stats.Saved)
		if m.UnreadOnly {
			stats += " | showing unread"
		}
		b.WriteString(InfoStyle.Render(stats))
		b.WriteString("\n\n")
		b.WriteString(m.articleList())
		b.WriteString("\n")
	}

	if a, ok := m.selected(); ok && a.Summary != "" {
		b.WriteString(BoxStyle.Render(fmt.Sprintf("%s\n%s · %d min read\n\n%s", a.Title, a.Source, a.ReadTime, a.Summary)))
		b.WriteString("\n\n")
	}

	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, entry := range m.Logs {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("   %s %s", entry.Timestamp.Format("15:04:05"), entry.Message)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render(TextFooter))
	return b.String()
}

func (m Model) articleList() string {
	if len(m.Articles) == 0 {
		return InfoStyle.Render(TextNoArticles) + "\n"
	}

	start := 0
	if m.Cursor >= maxVisibleArticles {
		start = m.Cursor - maxVisibleArticles + 1
	}
	end := min(start+maxVisibleArticles, len(m.Articles))

	var b strings.Builder
	for i := start; i < end; i++ {
		a := m.Articles[i]
		marker := "  "
		if !a.IsRead {
			marker = "• "
		}
		if a.IsSaved {
			marker = "★ "
		}
		line := fmt.Sprintf("%s%s  %s", marker, a.Title, InfoStyle.Render(a.Source))
		if i == m.Cursor {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
