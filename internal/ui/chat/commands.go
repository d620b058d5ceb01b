// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cindy-tui/internal/config"
	"github.com/jeranaias/cindy-tui/internal/convo"
)

// =============================================================================
// COMMANDS
// =============================================================================

// SubmitCmd runs one question cycle on a worker goroutine. The coordinator
// reports progress through the renderer; the returned message only closes
// the cycle out.
func SubmitCmd(c *convo.Coordinator, question string) tea.Cmd {
	return func() tea.Msg {
		ran := c.Submit(context.Background(), question)
		return SubmitFinishedMsg{Ran: ran}
	}
}

// ClearCmd runs a transcript clear on a worker goroutine.
func ClearCmd(c *convo.Coordinator) tea.Cmd {
	return func() tea.Msg {
		ran := c.Clear(context.Background())
		return ClearFinishedMsg{Ran: ran}
	}
}

// ToggleThemeCmd persists the flipped palette preference.
func ToggleThemeCmd(dark bool) tea.Cmd {
	return func() tea.Msg {
		// Persistence failure is not worth interrupting the session for;
		// the in-memory toggle still applies.
		config.SetDarkMode(dark)
		return ThemeToggledMsg{Dark: dark}
	}
}

// WatchConfigCmd waits for the next hot-reloaded configuration.
func WatchConfigCmd(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-w.C
		if !ok {
			return nil
		}
		return ConfigReloadedMsg{Dark: cfg.DarkMode}
	}
}
