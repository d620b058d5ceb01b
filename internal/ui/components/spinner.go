// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the cindy TUI.
package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cindy-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingIndicator is the transient "Cindy est en train d'écrire" line shown
// while a question is in flight.
type TypingIndicator struct {
	spinner   spinner.Model
	theme     *styles.Theme
	startTime time.Time
	active    bool
}

// NewTypingIndicator creates an inactive typing indicator.
func NewTypingIndicator(theme *styles.Theme) TypingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "..."},
		FPS:    time.Second / 3,
	}
	return TypingIndicator{spinner: s, theme: theme}
}

// Start activates the indicator and returns the tick command.
func (t *TypingIndicator) Start() tea.Cmd {
	t.active = true
	t.startTime = time.Now()
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// IsActive returns whether the indicator is running.
func (t *TypingIndicator) IsActive() bool {
	return t.active
}

// Elapsed returns the duration since the indicator started.
func (t *TypingIndicator) Elapsed() time.Duration {
	if t.startTime.IsZero() {
		return 0
	}
	return time.Since(t.startTime)
}

// SetTheme swaps the theme after a toggle.
func (t *TypingIndicator) SetTheme(theme *styles.Theme) {
	t.theme = theme
}

// Update handles spinner ticks.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, empty when inactive.
func (t TypingIndicator) View() string {
	if !t.active {
		return ""
	}
	return t.theme.Typing.Render("Cindy est en train d'écrire") +
		t.theme.TypingDots.Render(t.spinner.View())
}
