// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/cindy-tui/internal/ui/styles"
)

// =============================================================================
// HEADER BANNER
// =============================================================================

// Header renders the application banner with the service state.
type Header struct {
	theme   *styles.Theme
	version string
	offline bool
}

// NewHeader creates the banner.
func NewHeader(theme *styles.Theme, version string) Header {
	return Header{theme: theme, version: version}
}

// SetOffline flags the answering service as unreachable.
func (h *Header) SetOffline(offline bool) {
	h.offline = offline
}

// SetTheme swaps the theme after a toggle.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// View renders the banner line.
func (h Header) View() string {
	var b strings.Builder
	b.WriteString(h.theme.HeaderTitle.Render("Cindy"))
	b.WriteString(" ")
	b.WriteString(h.theme.HeaderSubtitle.Render("assistant IA " + h.version))
	if h.offline {
		b.WriteString("  ")
		b.WriteString(h.theme.Offline.Render("hors ligne"))
	}
	return h.theme.Header.Render(b.String())
}

// StatusBar renders the shortcut help line at the bottom of the screen.
func StatusBar(theme *styles.Theme) string {
	shortcuts := []struct{ key, desc string }{
		{"entrée", "envoyer"},
		{"1-5", "suggestion"},
		{"ctrl+l", "effacer"},
		{"ctrl+t", "thème"},
		{"ctrl+c", "quitter"},
	}

	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, theme.ShortcutKey.Render(s.key)+" "+theme.ShortcutDesc.Render(s.desc))
	}
	return theme.StatusBar.Render(strings.Join(parts, "  "))
}
