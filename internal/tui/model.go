package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atlasai/zelig/internal/conversation"
	"github.com/atlasai/zelig/internal/render"
)

// Footer shown under every view.
const footerText = "Propulsé par Atlas AI & Gemini • Contexte Marocain"

// welcomeThreshold hides the banner once the conversation has started.
const welcomeThreshold = 3

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// replyMsg carries the outcome of a guide call back to the update loop.
	replyMsg struct {
		outcome conversation.Outcome
	}
	feedbackClearMsg struct{}
)

// clipboardWriteAll is swapped in tests.
var clipboardWriteAll = clipboard.WriteAll

// Options configures the chat program.
type Options struct {
	// Backend is shown in the header, e.g. "zelig" or "gemini/gemini-2.5-flash".
	Backend string

	// Renderer renders assistant replies; nil shows them as plain text.
	Renderer *render.Renderer

	// Context is passed to every guide call. Defaults to context.Background.
	Context context.Context
}

// Model represents the TUI state. The conversation controller is owned by
// the update loop; guide calls run in commands and report back a replyMsg.
type Model struct {
	ctx      context.Context
	conv     *conversation.Controller
	renderer *render.Renderer
	backend  string

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	active          view
	sidebarOpen     bool
	ready           bool
	animationFrame  int
	feedback        string
	feedbackIsError bool
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
}

// NewModel creates a chat model around an existing controller.
func NewModel(conv *conversation.Controller, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ta := textarea.New()
	ta.Placeholder = "Posez votre question à Zelig..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetValue(conv.Draft())
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextMute)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:             ctx,
		conv:            conv,
		renderer:        opts.Renderer,
		backend:         opts.Backend,
		textarea:        ta,
		spinner:         s,
		active:          viewChat,
		sidebarOpen:     true,
		feedbackTimeout: 2 * time.Second,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// transcriptKeyMap limits viewport scrolling to keys the textarea ignores.
func transcriptKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}
}

// mainWidth is the width left for the active view.
func (m Model) mainWidth() int {
	w := m.width
	if m.sidebarOpen {
		w -= sidebarWidth + 2
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) resize() {
	headerHeight := 3 // Header panel with border
	inputHeight := 5  // Label, two textarea lines, border
	statusHeight := 2 // Key hints and footer
	padding := 2      // Messages panel border

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.mainWidth() - 2

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = transcriptKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.updateViewport()
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

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+b":
			m.sidebarOpen = !m.sidebarOpen
			if m.ready {
				m.resize()
			}
			return m, nil

		case "tab":
			m.active = m.active.next()
			return m, nil

		case "shift+tab":
			m.active = m.active.prev()
			return m, nil

		case "ctrl+y":
			return m.copyLastReply()

		case "enter":
			if m.active != viewChat {
				return m, nil
			}
			return m.submit()
		}

	case replyMsg:
		m.conv.Resolve(msg.outcome)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case feedbackClearMsg:
		m.feedback = ""
		m.feedbackIsError = false

	case spinner.TickMsg:
		if m.conv.Pending() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.conv.Pending() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks. The
	// draft stays editable while a reply is pending; Submit rejects enter.
	if m.active == viewChat {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			m.conv.UpdateDraft(m.textarea.Value())
		}
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit sends the draft unless it is an exit word or the controller
// refuses it (blank text or a reply already pending).
func (m Model) submit() (tea.Model, tea.Cmd) {
	switch strings.TrimSpace(m.conv.Draft()) {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	}

	req, ok := m.conv.SubmitDraft()
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.dispatch(req),
		m.spinner.Tick,
		animationTick(),
	)
}

// dispatch runs the guide call off the update loop. The command only talks
// to the guide; the controller is updated when replyMsg comes back.
func (m Model) dispatch(req conversation.Request) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return replyMsg{outcome: req.Run(ctx)}
	}
}

// copyLastReply copies the latest assistant message to the clipboard
func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	reply, ok := m.conv.LastReply()
	if !ok {
		return m, nil
	}

	if err := clipboardWriteAll(reply); err != nil {
		m.feedback = fmt.Sprintf("Copie impossible : %v", err)
		m.feedbackIsError = true
	} else {
		m.feedback = "Dernière réponse copiée"
		m.feedbackIsError = false
	}
	return m, clearFeedback(m.feedbackTimeout)
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initialisation...")
	}

	width := m.mainWidth()
	contentWidth := width - 2
	var sections []string

	// Header
	headerParts := []string{
		titleStyle.Render(navItems[m.active].icon + " " + m.active.String()),
	}
	if m.backend != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.backend),
		)
	}
	if m.conv.Pending() {
		headerParts = append(headerParts, "  ", m.spinner.View())
	}
	header := headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, headerParts...),
	)
	sections = append(sections, header)

	// Body
	switch m.active {
	case viewChat:
		messagesPanel := messagesAreaStyle.
			Width(contentWidth).
			Height(m.viewport.Height).
			Render(m.viewport.View())
		sections = append(sections, messagesPanel)

		label := inputLabelStyle.Render("Moi")
		if m.conv.Pending() {
			label = lipgloss.JoinHorizontal(lipgloss.Center, label, "  ", m.renderLoadingAnimation())
		}
		inputContent := lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
		sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))
	case viewPlanner:
		sections = append(sections, renderPlanner(contentWidth))
	case viewSafety:
		sections = append(sections, renderSafety(contentWidth))
	case viewNotes:
		sections = append(sections, renderNotes(contentWidth))
	}

	// Status bar and footer
	sections = append(sections, m.renderStatusBar(contentWidth))
	if m.feedback != "" {
		style := feedbackStyle
		if m.feedbackIsError {
			style = feedbackErrorStyle
		}
		sections = append(sections, style.Width(contentWidth).Align(lipgloss.Center).Render(m.feedback))
	}
	sections = append(sections, footerStyle.Width(contentWidth).Align(lipgloss.Center).Render(footerText))

	main := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if !m.sidebarOpen {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, renderSidebar(m.active, m.height), main)
}

// renderWelcome renders the banner shown at the start of a conversation
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	if width < 10 {
		width = 10
	}

	icon := welcomeIconStyle.Width(width).Align(lipgloss.Center).Render("⌂")
	title := welcomeTitleStyle.Width(width).Align(lipgloss.Center).Render("Explorez la Ville Rouge")
	subtitle := welcomeStyle.Width(width).Render(
		"Demandez les meilleurs Riads, vérifiez la sécurité des rues, ou trouvez un atelier de Zellige authentique.",
	)

	return lipgloss.JoinVertical(lipgloss.Center, icon, title, subtitle)
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
	}
	for i := numDots; i < 3; i++ {
		dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Zelig réfléchit ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots.String())
}

// renderStatusBar renders the shortcuts line
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Envoyer"},
		{"Tab", "Vue"},
		{"Ctrl+B", "Menu"},
		{"Ctrl+Y", "Copier"},
		{"Esc", "Quitter"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	if m.conv.Len() < welcomeThreshold {
		content.WriteString(m.renderWelcome())
		content.WriteString("\n\n")
	}

	for i, msg := range m.conv.Transcript() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == conversation.RoleUser {
			label := userLabelStyle.Render("● Moi")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Zelig")
			rendered := msg.Content
			if m.renderer != nil {
				rendered = m.renderer.RenderOrPlain(msg.Content, bubbleWidth-4)
			}
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(conv *conversation.Controller, opts Options) error {
	p := tea.NewProgram(NewModel(conv, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
