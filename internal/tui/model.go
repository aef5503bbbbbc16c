package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/diogo/askai/internal/conversation"
	"github.com/diogo/askai/internal/models"
	"github.com/diogo/askai/internal/render"
)

// Labels shown next to the input while a send is possible, running or blocked
const (
	sendLabel     = "Send"
	sendingLabel  = "Sending..."
	disabledLabel = "Type a message or wait..."
	thinkingLabel = "AI is thinking..."
)

// exchangeMsg carries the outcome of the request started by Enter
type exchangeMsg struct {
	reply string
	err   error
}

// Options configures the chat view
type Options struct {
	// Endpoint is shown in the header
	Endpoint string
	// Render configures markdown rendering of replies
	Render render.Options
	// Theme names the TUI color theme
	Theme string
	// Clipboard copies text to the system clipboard. Defaults to atotto/clipboard.
	Clipboard func(string) error
}

// Model is the bubbletea model of the chat view. It owns no conversation
// state of its own: everything it draws is read from the store.
type Model struct {
	ctx        context.Context
	dispatcher *conversation.Dispatcher
	store      *conversation.Store
	endpoint   string
	renderOpts render.Options
	copyText   func(string) error

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// follow is raised by the store observer whenever a message is appended
	follow *atomic.Bool
	cache  *transcriptCache
	// failed holds the history indexes of notices for failed exchanges
	failed map[int]bool

	// ticking is set while a spinner tick chain is running
	ticking bool
	ready   bool
	notice string

	width  int
	height int
}

// transcriptCache keeps rendered messages so spinner ticks don't re-run glamour
type transcriptCache struct {
	width    int
	rendered []string
}

// NewChatModel creates the chat view over the dispatcher's store
func NewChatModel(ctx context.Context, d *conversation.Dispatcher, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Theme != "" {
		ApplyTheme(render.TUIThemeOrDefault(opts.Theme))
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ta := textarea.New()
	ta.Placeholder = "Ask anything..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "shift+enter"))
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = thinkingStyle

	follow := &atomic.Bool{}
	store := d.Store()
	store.Observe(func(c conversation.Change) {
		if c.Kind == conversation.MessageAppended {
			follow.Store(true)
		}
	})

	ta.SetValue(store.Draft())

	return Model{
		ctx:        ctx,
		dispatcher: d,
		store:      store,
		endpoint:   opts.Endpoint,
		renderOpts: opts.Render,
		copyText:   opts.Clipboard,
		textarea:   ta,
		spinner:    s,
		follow:     follow,
		cache:      &transcriptCache{},
		failed:     make(map[int]bool),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if !m.store.Pending() {
				return m, tea.Quit
			}
			return m, nil

		case "enter":
			return m.send()

		case "ctrl+y":
			m.copyLastReply()
			return m, nil

		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		m.notice = ""
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.store.SetDraft(m.textarea.Value())

	case exchangeMsg:
		m.dispatcher.Complete(msg.reply, msg.err)
		if msg.err != nil {
			m.failed[m.store.Len()-1] = true
		}

	case spinner.TickMsg:
		if !m.store.Pending() {
			m.ticking = false
			break
		}
		m.spinner, cmd = m.spinner.Update(msg)
		// a rejected tick has no follow-up, so the chain ends here
		m.ticking = cmd != nil
		cmds = append(cmds, cmd)
		m.refresh()

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.follow.Swap(false) {
		m.refresh()
		m.viewport.GotoBottom()
	}

	return m, tea.Batch(cmds...)
}

// send starts a cycle for the current draft. Blank drafts and sends while
// a reply is pending do nothing.
func (m Model) send() (tea.Model, tea.Cmd) {
	prompt, ok := m.dispatcher.Begin()
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.notice = ""
	if m.follow.Swap(false) {
		m.refresh()
		m.viewport.GotoBottom()
	}

	cmds := []tea.Cmd{m.exchange(prompt)}
	if !m.ticking {
		m.ticking = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// exchange runs the outbound request off the event loop
func (m Model) exchange(prompt string) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		reply, err := d.Exchange(ctx, prompt)
		return exchangeMsg{reply: reply, err: err}
	}
}

func (m *Model) copyLastReply() {
	reply, ok := lastReply(m.store.History(), m.failed)
	if !ok {
		m.notice = "Nothing to copy yet"
		return
	}
	if err := m.copyText(reply); err != nil {
		log.Warn().Err(err).Msg("clipboard copy failed")
		m.notice = "Copy failed: " + err.Error()
		return
	}
	m.notice = "Copied last reply to clipboard"
}

// lastReply returns the newest assistant message that is not the notice of a
// failed exchange
func lastReply(history []models.Message, failed map[int]bool) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role == models.RoleAssistant && !failed[i] {
			return msg.Content, true
		}
	}
	return "", false
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4 // title, subtitle and border
	inputHeight := 6  // label, textarea, send hint and border
	statusHeight := 1
	padding := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = viewport.KeyMap{
			PageUp:   key.NewBinding(key.WithKeys("pgup")),
			PageDown: key.NewBinding(key.WithKeys("pgdown")),
		}
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)

	m.refresh()
	m.viewport.GotoBottom()
}

// refresh redraws the transcript into the viewport
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript(m.viewport.Width - 2))
}

func (m *Model) renderTranscript(width int) string {
	history := m.store.History()

	if m.cache.width != width || len(m.cache.rendered) > len(history) {
		m.cache.width = width
		m.cache.rendered = m.cache.rendered[:0]
	}
	for i := len(m.cache.rendered); i < len(history); i++ {
		m.cache.rendered = append(m.cache.rendered, m.renderMessage(history[i], width, m.failed[i]))
	}

	var b strings.Builder
	for i, block := range m.cache.rendered {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block)
		b.WriteString("\n")
	}

	if m.store.Pending() {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + thinkingStyle.Render(thinkingLabel))
	}

	return b.String()
}

func (m *Model) renderMessage(msg models.Message, width int, failed bool) string {
	bubbleWidth := width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	if msg.Role == models.RoleUser {
		label := userLabelStyle.Render("🧑 " + msg.Role.Label())
		return label + "\n" + userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
	}

	label := assistantLabelStyle.Render("🤖 " + msg.Role.Label())
	if failed {
		return label + "\n" + errorBubbleStyle.Width(bubbleWidth).Render(msg.Content)
	}

	content, err := render.Message(msg, m.renderOpts.WithWidth(bubbleWidth-4))
	if err != nil {
		log.Debug().Err(err).Msg("markdown render failed, showing raw reply")
	}
	return label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(content)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return thinkingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	var sections []string

	subtitle := "Your Smart Assistant"
	if m.endpoint != "" {
		subtitle += "  •  " + m.endpoint
	}
	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("AI Chatbot"),
		subtitleStyle.Render(subtitle),
	))
	sections = append(sections, header)

	var transcript string
	if m.store.Len() == 0 && !m.store.Pending() {
		transcript = m.renderWelcome()
	} else {
		transcript = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(transcript))

	input := lipgloss.JoinVertical(
		lipgloss.Left,
		inputLabelStyle.Render("You"),
		m.textarea.View(),
		m.renderSendHint(),
	)
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeTitleStyle.Width(width).Render("🤖 AI Chatbot"),
		"",
		welcomeStyle.Width(width).Render("Start a conversation by typing a message below"),
	)

	top := (m.viewport.Height - lipgloss.Height(content)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + content
}

// renderSendHint mirrors the send control: its label tracks pending and the
// draft, and it is dimmed whenever Enter would do nothing
func (m Model) renderSendHint() string {
	state := m.store.Snapshot()
	switch {
	case state.Pending:
		return sendIdleStyle.Render("⏎ " + sendingLabel)
	case !state.CanSend():
		return sendIdleStyle.Render("⏎ " + sendLabel + "  " + disabledLabel)
	default:
		return sendReadyStyle.Render("⏎ " + sendLabel)
	}
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Ctrl+Y", "Copy reply"},
		{"PgUp/PgDn", "Scroll"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, statusDescStyle.Render("  │  "))
	if m.notice != "" {
		bar = noticeStyle.Render(m.notice) + statusDescStyle.Render("  │  ") + bar
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// Run starts the chat view and blocks until the user quits or ctx is done
func Run(ctx context.Context, d *conversation.Dispatcher, opts Options) error {
	m := NewChatModel(ctx, d, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("chat view: %w", err)
	}
	return nil
}
