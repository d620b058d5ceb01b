// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cindy-tui/internal/convo"
	"github.com/jeranaias/cindy-tui/internal/ui/components"
	"github.com/jeranaias/cindy-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the top-level Bubble Tea model for the chat screen.
type Model struct {
	coordinator *convo.Coordinator
	theme       *styles.Theme
	version     string

	// Components
	header   components.Header
	typing   components.TypingIndicator
	messages *components.MessageRenderer
	input    textinput.Model
	viewport viewport.Model

	// Rendered transcript blocks, in display order.
	blocks []string

	// Chips for the latest answer; cleared on the next submission.
	suggestions components.SuggestionList

	ready  bool
	width  int
	height int
	busy   bool
}

// NewModel builds the chat screen around an existing coordinator. The
// coordinator's transcript may already hold entries (welcome seed, restored
// session); they are rendered immediately.
func NewModel(coordinator *convo.Coordinator, theme *styles.Theme, version string) Model {
	input := textinput.New()
	input.Placeholder = "Posez votre question..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 1000
	input.Focus()

	m := Model{
		coordinator: coordinator,
		theme:       theme,
		version:     version,
		header:      components.NewHeader(theme, version),
		typing:      components.NewTypingIndicator(theme),
		messages:    components.NewMessageRenderer(theme, theme.BubbleWidth()),
		input:       input,
	}

	for _, entry := range coordinator.Transcript().Entries() {
		m.blocks = append(m.blocks, m.messages.Render(entry))
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.messages = components.NewMessageRenderer(m.theme, m.theme.BubbleWidth())

		chrome := 6 // header + input + status bar
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chrome)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chrome
		}
		m.rebuildViewport()

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case EntryAppendedMsg:
		m.blocks = append(m.blocks, m.messages.Render(msg.Entry))
		m.rebuildViewport()
		m.viewport.GotoBottom()

	case TypingStartedMsg:
		cmds = append(cmds, m.typing.Start())

	case TypingStoppedMsg:
		m.typing.Stop()

	case SuggestionsMsg:
		m.suggestions = components.NewSuggestionList(m.theme, convo.SuggestionsTitle, msg.Items)
		m.blocks = append(m.blocks, m.suggestions.View())
		m.rebuildViewport()
		m.viewport.GotoBottom()

	case ViewResetMsg:
		m.blocks = nil
		m.suggestions = components.SuggestionList{}
		m.rebuildViewport()

	case SubmitFinishedMsg:
		m.busy = false

	case ClearFinishedMsg:
		m.busy = false

	case ThemeToggledMsg:
		m.applyTheme(msg.Dark)

	case ConfigReloadedMsg:
		if msg.Dark != m.theme.IsDark {
			m.applyTheme(msg.Dark)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.typing, cmd = m.typing.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes shortcuts; unhandled keys fall through to the input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit, true

	case "enter":
		question := strings.TrimSpace(m.input.Value())
		if question == "" || m.busy {
			return nil, true
		}
		m.busy = true
		m.input.Reset()
		m.suggestions = components.SuggestionList{}
		return SubmitCmd(m.coordinator, question), true

	case "ctrl+l":
		if m.busy {
			return nil, true
		}
		m.busy = true
		m.input.Reset()
		return ClearCmd(m.coordinator), true

	case "ctrl+t":
		return ToggleThemeCmd(!m.theme.IsDark), true

	case "1", "2", "3", "4", "5":
		// Digits select a chip only when the input line is empty;
		// otherwise the user is typing a question containing digits.
		if m.input.Value() != "" || m.busy {
			return nil, false
		}
		n := int(msg.String()[0] - '0')
		question := m.suggestions.Item(n)
		if question == "" {
			return nil, false
		}
		m.busy = true
		m.suggestions = components.SuggestionList{}
		return SubmitCmd(m.coordinator, question), true
	}
	return nil, false
}

// applyTheme rebuilds every themed component with the new palette.
func (m *Model) applyTheme(dark bool) {
	m.theme = styles.NewTheme(dark)
	m.theme.SetSize(m.width, m.height)
	m.header.SetTheme(m.theme)
	m.typing.SetTheme(m.theme)
	m.messages = components.NewMessageRenderer(m.theme, m.theme.BubbleWidth())
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.PlaceholderStyle = m.theme.InputPlaceholder

	// Re-render the transcript under the new palette.
	m.blocks = nil
	for _, entry := range m.coordinator.Transcript().Entries() {
		m.blocks = append(m.blocks, m.messages.Render(entry))
	}
	if m.suggestions.Len() > 0 {
		m.suggestions.SetTheme(m.theme)
		m.blocks = append(m.blocks, m.suggestions.View())
	}
	m.rebuildViewport()
	m.viewport.GotoBottom()
}

// SetOffline flags the header when the service was unreachable at startup.
func (m *Model) SetOffline(offline bool) {
	m.header.SetOffline(offline)
}

func (m *Model) rebuildViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.blocks, "\n\n"))
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Chargement..."
	}

	var b strings.Builder
	b.WriteString(m.header.View())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if typing := m.typing.View(); typing != "" {
		b.WriteString(typing)
	}
	b.WriteString("\n")
	b.WriteString(m.theme.InputContainer.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(components.StatusBar(m.theme))
	return b.String()
}
