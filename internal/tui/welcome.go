package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Suggestion is a canned prompt offered on an empty thread
type Suggestion struct {
	Title  string
	Prompt string
}

// Suggestions are selected with keys 1-4 while the thread is empty
var Suggestions = []Suggestion{
	{Title: "Creative writing", Prompt: "Help me write a story about..."},
	{Title: "Research & analysis", Prompt: "Explain the concept of..."},
	{Title: "Code assistance", Prompt: "Help me debug this code..."},
	{Title: "Problem solving", Prompt: "I need help with..."},
}

// suggestionForKey maps "1".."4" to a suggestion
func suggestionForKey(key string) (Suggestion, bool) {
	if len(key) != 1 || key[0] < '1' || int(key[0]-'1') >= len(Suggestions) {
		return Suggestion{}, false
	}
	return Suggestions[key[0]-'1'], true
}

func (m Model) renderWelcome(width, height int) string {
	lines := []string{
		welcomeTitleStyle.Width(width).Render("✦ Hello, I'm Gemini"),
		welcomeStyle.Width(width).Render("How can I help you today?"),
		"",
	}

	cardWidth := width - 4
	if cardWidth > 60 {
		cardWidth = 60
	}
	for i, s := range Suggestions {
		card := suggestionStyle.Width(cardWidth).Render(
			statusKeyStyle.Render(fmt.Sprintf("%d ", i+1)) + s.Title + "\n" + hintStyle.Render(s.Prompt),
		)
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	top := (height - lipgloss.Height(content)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + content
}
