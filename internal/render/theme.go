package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the color scheme of the chat TUI
type Theme struct {
	Name string

	Border    lipgloss.Color
	Primary   lipgloss.Color // titles, focused borders, selection
	User      lipgloss.Color // user message label
	Assistant lipgloss.Color // assistant message label
	Error     lipgloss.Color // error replies and status
	Text      lipgloss.Color
	TextDim   lipgloss.Color
}

var themes = map[string]Theme{
	"tokyonight": {
		Name:      "tokyonight",
		Border:    lipgloss.Color("#414868"),
		Primary:   lipgloss.Color("#7aa2f7"),
		User:      lipgloss.Color("#9ece6a"),
		Assistant: lipgloss.Color("#bb9af7"),
		Error:     lipgloss.Color("#f7768e"),
		Text:      lipgloss.Color("#c0caf5"),
		TextDim:   lipgloss.Color("#565f89"),
	},
	"catppuccin": {
		Name:      "catppuccin",
		Border:    lipgloss.Color("#45475a"),
		Primary:   lipgloss.Color("#89b4fa"),
		User:      lipgloss.Color("#a6e3a1"),
		Assistant: lipgloss.Color("#cba6f7"),
		Error:     lipgloss.Color("#f38ba8"),
		Text:      lipgloss.Color("#cdd6f4"),
		TextDim:   lipgloss.Color("#6c7086"),
	},
	"dracula": {
		Name:      "dracula",
		Border:    lipgloss.Color("#6272a4"),
		Primary:   lipgloss.Color("#8be9fd"),
		User:      lipgloss.Color("#50fa7b"),
		Assistant: lipgloss.Color("#ff79c6"),
		Error:     lipgloss.Color("#ff5555"),
		Text:      lipgloss.Color("#f8f8f2"),
		TextDim:   lipgloss.Color("#6272a4"),
	},
}

// DefaultThemeName is used when the configured theme is unknown
const DefaultThemeName = "tokyonight"

// ThemeByName returns the named theme, or the default and false
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[name]
	if !ok {
		return themes[DefaultThemeName], false
	}
	return t, true
}

// ThemeNames lists the available themes in sorted order
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
