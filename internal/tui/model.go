package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geminichat/internal/chat"
	"github.com/diogo/geminichat/internal/models"
	"github.com/diogo/geminichat/internal/render"
)

// ChatStore is the part of *chat.Store the TUI drives
type ChatStore interface {
	State() chat.State
	CreateSession() string
	SelectSession(id string) bool
	DeleteSession(id string) bool
	SendMessage(ctx context.Context, text string) bool
	EditMessage(ctx context.Context, id, content string) bool
	RegenerateResponse(ctx context.Context, id string) bool
}

// Message types for the TUI
type (
	// stateMsg carries a store snapshot pushed by the change listener
	stateMsg struct {
		state chat.State
	}
	// opDoneMsg is returned once a generating operation has finished
	opDoneMsg struct{}
)

type focus int

const (
	focusInput focus = iota
	focusSidebar
)

const (
	sidebarWidth    = 32
	minWidthSidebar = 72
)

// Options configures the chat TUI
type Options struct {
	ModelName string
	Theme     string
	Markdown  render.Options
	// Copy writes text to the clipboard; defaults to atotto/clipboard.
	Copy func(string) error
	// Now is used for the relative dates in the sidebar.
	Now func() time.Time
}

// Model is the chat TUI state
type Model struct {
	store ChatStore
	ctx   context.Context
	opts  Options

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	state   chat.State
	busy    bool   // a generating command has been dispatched
	focus   focus  // which pane receives keys
	cursor  int    // sidebar row
	editing string // id of the message being edited
	notice  string
	ready   bool

	// Dimensions
	width  int
	height int
}

// NewModel creates the chat model on top of store
func NewModel(store ChatStore, opts Options) Model {
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Markdown == (render.Options{}) {
		opts.Markdown = render.DefaultOptions()
	}
	if opts.Theme != "" {
		ApplyTheme(opts.Theme)
	}

	ta := textarea.New()
	ta.Placeholder = "Message Gemini..."
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := Model{
		store:    store,
		ctx:      context.Background(),
		opts:     opts,
		textarea: ta,
		spinner:  s,
		state:    store.State(),
	}
	m.cursor = m.currentIndex()
	return m
}

// Init starts the cursor blink
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) loading() bool {
	return m.busy || m.state.IsLoading()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()

	case stateMsg:
		m.state = msg.state
		m.refresh()
		if m.loading() {
			cmds = append(cmds, m.spinner.Tick)
		}

	case opDoneMsg:
		m.busy = false
		m.sync()

	case spinner.TickMsg:
		if m.loading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next
		if m.focus == focusInput && !m.loading() {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes shortcuts. handled is false when the key should
// reach the textarea.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	m.notice = ""

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true

	case "esc":
		switch {
		case m.editing != "":
			m.cancelEdit()
		case m.focus == focusSidebar:
			m.setFocus(focusInput)
		default:
			return m, tea.Quit, true
		}
		return m, nil, true

	case "tab":
		if m.focus == focusInput {
			m.setFocus(focusSidebar)
		} else {
			m.setFocus(focusInput)
		}
		return m, nil, true

	case "ctrl+n":
		m.store.CreateSession()
		m.cancelEdit()
		m.sync()
		m.setFocus(focusInput)
		return m, nil, true

	case "ctrl+d":
		if cur := m.state.Current(); cur != nil {
			m.store.DeleteSession(cur.ID)
			m.cancelEdit()
			m.sync()
		}
		return m, nil, true

	case "ctrl+e":
		m.startEdit()
		return m, nil, true

	case "ctrl+r":
		return m.regenerate()

	case "ctrl+y":
		m.copyLastReply()
		return m, nil, true
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	switch msg.String() {
	case "enter":
		return m.submit()
	}

	if s, ok := suggestionForKey(msg.String()); ok && m.threadEmpty() && m.textarea.Value() == "" && !m.loading() {
		cmd := m.generate(func(ctx context.Context) {
			m.store.SendMessage(ctx, s.Prompt)
		})
		return m, cmd, true
	}

	return m, nil, false
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Sessions)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.state.Sessions) {
			m.store.SelectSession(m.state.Sessions[m.cursor].ID)
			m.cancelEdit()
			m.sync()
			m.setFocus(focusInput)
		}
	case "n":
		m.store.CreateSession()
		m.sync()
		m.setFocus(focusInput)
	case "d", "delete", "x":
		if m.cursor < len(m.state.Sessions) {
			m.store.DeleteSession(m.state.Sessions[m.cursor].ID)
			m.cancelEdit()
			m.sync()
		}
	}
	return m, nil, true
}

// submit sends the input, or applies it to the message being edited
func (m Model) submit() (Model, tea.Cmd, bool) {
	if m.loading() {
		return m, nil, true
	}

	raw := m.textarea.Value()
	input := strings.TrimSpace(raw)
	if input == "" {
		return m, nil, true
	}

	switch input {
	case "/exit", "/quit":
		return m, tea.Quit, true
	case "/new":
		m.textarea.Reset()
		m.store.CreateSession()
		m.sync()
		return m, nil, true
	}

	m.textarea.Reset()

	if id := m.editing; id != "" {
		m.editing = ""
		original, _ := chat.LastUserMessage(m.state.Current())
		if original.ID != id || input == original.Content {
			return m, nil, true
		}
		cmd := m.generate(func(ctx context.Context) {
			m.store.EditMessage(ctx, id, input)
		})
		return m, cmd, true
	}

	cmd := m.generate(func(ctx context.Context) {
		m.store.SendMessage(ctx, raw)
	})
	return m, cmd, true
}

// generate runs op off the event loop; the store pushes state changes
// through the listener and opDoneMsg triggers a final sync.
func (m *Model) generate(op func(ctx context.Context)) tea.Cmd {
	m.busy = true
	ctx := m.ctx
	run := func() tea.Msg {
		op(ctx)
		return opDoneMsg{}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m Model) regenerate() (Model, tea.Cmd, bool) {
	if m.loading() {
		return m, nil, true
	}
	cur := m.state.Current()
	last, ok := chat.LastAssistantMessage(cur)
	if !ok || !chat.CanRegenerate(cur, last.ID) {
		m.notice = "Nothing to regenerate"
		return m, nil, true
	}
	m.cancelEdit()
	id := last.ID
	cmd := m.generate(func(ctx context.Context) {
		m.store.RegenerateResponse(ctx, id)
	})
	return m, cmd, true
}

func (m *Model) startEdit() {
	if m.loading() {
		return
	}
	msg, ok := chat.LastUserMessage(m.state.Current())
	if !ok {
		m.notice = "Nothing to edit"
		return
	}
	m.editing = msg.ID
	m.textarea.SetValue(msg.Content)
	m.setFocus(focusInput)
}

func (m *Model) cancelEdit() {
	if m.editing == "" {
		return
	}
	m.editing = ""
	m.textarea.Reset()
}

func (m *Model) copyLastReply() {
	msg, ok := chat.LastAssistantMessage(m.state.Current())
	if !ok {
		m.notice = "Nothing to copy"
		return
	}
	if err := m.opts.Copy(msg.Content); err != nil {
		m.notice = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.notice = "Reply copied to clipboard"
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.textarea.Focus()
		return
	}
	m.textarea.Blur()
	m.cursor = m.currentIndex()
}

// sync pulls a fresh snapshot after a synchronous store call
func (m *Model) sync() {
	m.state = m.store.State()
	m.refresh()
}

func (m *Model) refresh() {
	if m.cursor >= len(m.state.Sessions) {
		m.cursor = len(m.state.Sessions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.ready {
		m.updateViewport()
	}
}

func (m Model) currentIndex() int {
	for i, s := range m.state.Sessions {
		if s.ID == m.state.CurrentSessionID {
			return i
		}
	}
	return 0
}

func (m Model) threadEmpty() bool {
	cur := m.state.Current()
	return cur == nil || len(cur.Messages) == 0
}

func (m Model) showSidebar() bool {
	return m.width >= minWidthSidebar
}

func (m Model) mainWidth() int {
	if m.showSidebar() {
		return m.width - sidebarWidth
	}
	return m.width
}

func (m *Model) resize() {
	headerHeight := 3
	inputHeight := 5
	statusHeight := 1
	borders := 2

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - borders
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := m.mainWidth() - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 2)
}

// updateViewport renders the current thread into the viewport
func (m *Model) updateViewport() {
	cur := m.state.Current()
	if cur == nil {
		m.viewport.SetContent("")
		return
	}

	width := m.viewport.Width - 2
	lastUser, _ := chat.LastUserMessage(cur)
	lastAssistant, _ := chat.LastAssistantMessage(cur)

	var b strings.Builder
	for i, msg := range cur.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, width, msg.ID == lastUser.ID, chat.CanRegenerate(cur, msg.ID) && msg.ID == lastAssistant.ID))
		b.WriteString("\n")
	}

	if req := m.state.InFlight; req != nil && req.SessionID == cur.ID {
		b.WriteString("\n")
		b.WriteString(assistantLabelStyle.Render("✦ Gemini"))
		b.WriteString("\n")
		b.WriteString(loadingStyle.Render(m.spinner.View() + " thinking"))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m Model) renderMessage(msg models.Message, width int, editable, regenerable bool) string {
	if msg.IsUser() {
		label := userLabelStyle.Render("● You")
		if editable {
			label += affordanceStyle.Render("  ctrl+e edit")
		}
		if msg.ID == m.editing {
			label += noticeStyle.Render("  (editing)")
		}
		return label + "\n" + userBubbleStyle.Width(width).Render(msg.Content)
	}

	label := assistantLabelStyle.Render("✦ Gemini")
	if msg.IsErrorReply() {
		return label + "\n" + errorBubbleStyle.Width(width).Render("⚠ "+msg.Content)
	}
	if regenerable {
		label += affordanceStyle.Render("  ctrl+r regenerate  ctrl+y copy")
	}

	rendered := render.MarkdownOrPlain(msg.Content, m.opts.Markdown.WithWidth(width-4))
	rendered = strings.TrimRight(rendered, "\n")
	return label + "\n" + assistantBubble.Width(width).Render(rendered)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	body := m.renderMain()
	if !m.showSidebar() {
		return body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
}

func (m Model) renderMain() string {
	contentWidth := m.mainWidth() - 4
	var sections []string

	title := "New conversation"
	if cur := m.state.Current(); cur != nil {
		title = cur.Title
	}
	headerParts := []string{titleStyle.Render("✦ " + truncate(title, contentWidth-30))}
	if m.opts.ModelName != "" {
		headerParts = append(headerParts, hintStyle.Render("  •  "), subtitleStyle.Render(m.opts.ModelName))
	}
	sections = append(sections, headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)))

	var thread string
	if m.threadEmpty() && !m.loading() {
		thread = m.renderWelcome(m.viewport.Width-2, m.viewport.Height)
	} else {
		thread = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.Width(contentWidth).Height(m.viewport.Height).Render(thread))

	var input string
	switch {
	case m.loading():
		input = loadingStyle.Render(m.spinner.View() + " Gemini is thinking...")
	case m.editing != "":
		input = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("Edit message")+hintStyle.Render("  enter save • esc cancel"),
			m.textarea.View())
	default:
		input = lipgloss.JoinVertical(lipgloss.Left, inputLabelStyle.Render("You"), m.textarea.View())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatusBar(width int) string {
	if m.notice != "" {
		return statusBarStyle.Width(width).Render(noticeStyle.Render(m.notice))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Tab", "Sessions"},
		{"^N", "New"},
		{"^D", "Delete"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// Run starts the chat TUI and keeps it in sync with store
func Run(store *chat.Store, opts Options) error {
	p := tea.NewProgram(NewModel(store, opts), tea.WithAltScreen())

	unsubscribe := store.Subscribe(func(s chat.State) {
		p.Send(stateMsg{state: s})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
