// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/cindy-tui/internal/ui/styles"
)

// =============================================================================
// SUGGESTION CHIPS
// =============================================================================

// maxChipWidth caps the display width of a single chip label.
const maxChipWidth = 48

// SuggestionList renders the follow-up chips under a bot answer. Each chip
// carries its full question text; selection by number re-submits it.
type SuggestionList struct {
	theme *styles.Theme
	title string
	items []string
}

// NewSuggestionList creates a chip list.
func NewSuggestionList(theme *styles.Theme, title string, items []string) SuggestionList {
	return SuggestionList{theme: theme, title: title, items: items}
}

// Items returns the full (untruncated) question texts in display order.
func (s SuggestionList) Items() []string {
	return s.items
}

// Item returns the question text for a 1-based chip number, or "" when out
// of range.
func (s SuggestionList) Item(n int) string {
	if n < 1 || n > len(s.items) {
		return ""
	}
	return s.items[n-1]
}

// Len returns the chip count.
func (s SuggestionList) Len() int {
	return len(s.items)
}

// SetTheme swaps the theme after a toggle.
func (s *SuggestionList) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// View renders the title line followed by numbered chips, one per line.
func (s SuggestionList) View() string {
	if len(s.items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.theme.ChipTitle.Render(s.title))
	for i, item := range s.items {
		b.WriteString("\n")
		b.WriteString(s.theme.ChipNumber.Render("[" + strconv.Itoa(i+1) + "]"))
		b.WriteString(" ")
		b.WriteString(s.theme.Chip.Render(truncateChip(item)))
	}
	return b.String()
}

// truncateChip shortens a label to the chip width, counting display cells so
// wide runes don't overflow the chip.
func truncateChip(label string) string {
	if runewidth.StringWidth(label) <= maxChipWidth {
		return label
	}
	return runewidth.Truncate(label, maxChipWidth-1, "…")
}
