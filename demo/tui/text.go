package tui

// UI Text Constants
const (
	TextTitle        = "📰 News Dashboard"
	TextDisconnected = "❌ Not connected to the dashboard server"
	TextNoArticles   = "No articles yet. Press 'f' to fetch."

	// Footer
	TextFooter = "↑/↓ select | r read | s save | u unread only | f fetch | q quit"
)
