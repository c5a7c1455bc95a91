package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geminichat/internal/history"
)

// renderSidebar lists sessions most recent first with their relative dates
func (m Model) renderSidebar() string {
	width := sidebarWidth - 4
	height := m.height - 2
	if height < 3 {
		height = 3
	}

	lines := []string{titleStyle.Render("Chats"), hintStyle.Render("^N new chat"), ""}

	if len(m.state.Sessions) == 0 {
		lines = append(lines, hintStyle.Render("No conversations yet"))
	}

	// Each session takes two lines
	maxItems := (height - len(lines)) / 2
	if maxItems < 1 {
		maxItems = 1
	}
	start := 0
	if m.cursor >= maxItems {
		start = m.cursor - maxItems + 1
	}
	end := start + maxItems
	if end > len(m.state.Sessions) {
		end = len(m.state.Sessions)
	}

	now := m.opts.Now()
	for i := start; i < end; i++ {
		sess := m.state.Sessions[i]

		prefix := "  "
		if m.focus == focusSidebar && i == m.cursor {
			prefix = cursorStyle.Render("▸ ")
		}

		style := sessionStyle
		if sess.ID == m.state.CurrentSessionID {
			style = sessionCurrentStyle
		}

		lines = append(lines,
			prefix+style.Render(truncate(sess.Title, width-2)),
			"  "+sessionDateStyle.Render(history.FormatRelative(sess.UpdatedAt, now)),
		)
	}

	panel := sidebarStyle
	if m.focus == focusSidebar {
		panel = sidebarFocusedStyle
	}
	return panel.Width(width).Height(height).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// truncate shortens s to max runes, marking the cut with "..."
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if max <= 3 || len(runes) <= max {
		if max > 0 && len(runes) > max {
			return string(runes[:max])
		}
		return s
	}
	return string(runes[:max-3]) + "..."
}
