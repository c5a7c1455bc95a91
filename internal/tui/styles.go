// Package tui provides the interactive chat interface for geminichat.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geminichat/internal/render"
)

// Color variables (set from the active theme)
var (
	colorBorder    lipgloss.Color
	colorPrimary   lipgloss.Color
	colorUser      lipgloss.Color
	colorAssistant lipgloss.Color
	colorError     lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
)

// Style variables (rebuilt when the theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	sidebarStyle        lipgloss.Style
	sidebarFocusedStyle lipgloss.Style
	sessionStyle        lipgloss.Style
	sessionCurrentStyle lipgloss.Style
	sessionDateStyle    lipgloss.Style
	cursorStyle         lipgloss.Style

	messagesAreaStyle   lipgloss.Style
	userLabelStyle      lipgloss.Style
	userBubbleStyle     lipgloss.Style
	assistantLabelStyle lipgloss.Style
	assistantBubble     lipgloss.Style
	errorBubbleStyle    lipgloss.Style
	affordanceStyle     lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	noticeStyle     lipgloss.Style

	welcomeTitleStyle lipgloss.Style
	welcomeStyle      lipgloss.Style
	suggestionStyle   lipgloss.Style
)

func init() {
	ApplyTheme(render.DefaultThemeName)
}

// ApplyTheme switches all styles to the named theme. Unknown names fall
// back to the default and return false.
func ApplyTheme(name string) bool {
	theme, ok := render.ThemeByName(name)

	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorUser = theme.User
	colorAssistant = theme.Assistant
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
	return ok
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)
	titleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	hintStyle = lipgloss.NewStyle().Foreground(colorTextDim).Italic(true)

	sidebarStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	sidebarFocusedStyle = sidebarStyle.BorderForeground(colorPrimary)
	sessionStyle = lipgloss.NewStyle().Foreground(colorText)
	sessionCurrentStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	sessionDateStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	cursorStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	userLabelStyle = lipgloss.NewStyle().Foreground(colorUser).Bold(true)
	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorUser).
		Padding(0, 1)
	assistantLabelStyle = lipgloss.NewStyle().Foreground(colorAssistant).Bold(true)
	assistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorAssistant).
		Padding(0, 1)
	errorBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorError).
		Foreground(colorError).
		Padding(0, 1)
	affordanceStyle = lipgloss.NewStyle().Foreground(colorTextDim)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(0, 1)
	inputLabelStyle = lipgloss.NewStyle().Foreground(colorUser).Bold(true)
	loadingStyle = lipgloss.NewStyle().Foreground(colorAssistant)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	statusKeyStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	statusDescStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	noticeStyle = lipgloss.NewStyle().Foreground(colorAssistant)

	welcomeTitleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Align(lipgloss.Center)
	welcomeStyle = lipgloss.NewStyle().Foreground(colorTextDim).Align(lipgloss.Center)
	suggestionStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
}
