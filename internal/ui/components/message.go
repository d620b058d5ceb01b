// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/cindy-tui/internal/model"
	"github.com/jeranaias/cindy-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer turns transcript entries into styled bubbles.
type MessageRenderer struct {
	theme    *styles.Theme
	markdown *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer. A glamour initialization failure
// degrades to plain text instead of failing the UI.
func NewMessageRenderer(theme *styles.Theme, width int) *MessageRenderer {
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		md = nil
	}
	return &MessageRenderer{theme: theme, markdown: md}
}

// SetTheme swaps the theme after a toggle.
func (r *MessageRenderer) SetTheme(theme *styles.Theme) {
	r.theme = theme
}

// Render produces the full bubble (label line + body) for a message.
func (r *MessageRenderer) Render(msg *model.Message) string {
	var label, body string
	width := r.theme.BubbleWidth()

	switch msg.Origin {
	case model.OriginUser:
		label = r.theme.UserLabel.Render(msg.Origin.DisplayName())
		body = r.theme.UserBubble.MaxWidth(width).Render(r.body(msg))
	default:
		label = r.theme.BotLabel.Render(msg.Origin.DisplayName())
		body = r.theme.BotBubble.MaxWidth(width).Render(r.body(msg))
	}

	return label + "\n" + body
}

// body formats the message text: markup is converted and rendered, plain
// multi-line text becomes paragraph blocks.
func (r *MessageRenderer) body(msg *model.Message) string {
	if msg.HasMarkup() {
		return r.renderMarkup(msg.Text)
	}

	paragraphs := msg.Paragraphs()
	if len(paragraphs) <= 1 {
		return strings.TrimSpace(msg.Text)
	}
	return strings.Join(paragraphs, "\n\n")
}

// renderMarkup converts lightweight HTML to markdown and renders it through
// glamour. Without a renderer the tags are simply stripped.
func (r *MessageRenderer) renderMarkup(text string) string {
	md := markupToMarkdown(text)
	if r.markdown == nil {
		return md
	}
	out, err := r.markdown.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// MARKUP CONVERSION
// =============================================================================

var (
	brRegex      = regexp.MustCompile(`(?i)<br\s*/?>`)
	pOpenRegex   = regexp.MustCompile(`(?i)<p[^>]*>`)
	pCloseRegex  = regexp.MustCompile(`(?i)</p>`)
	boldRegex    = regexp.MustCompile(`(?i)</?(b|strong)>`)
	italRegex    = regexp.MustCompile(`(?i)</?(i|em)>`)
	liOpenRegex  = regexp.MustCompile(`(?i)<li[^>]*>`)
	liCloseRegex = regexp.MustCompile(`(?i)</li>`)
	stripRegex   = regexp.MustCompile(`<[^>]*>`)
)

// markupToMarkdown rewrites the small HTML subset the answering service
// emits into markdown. Unknown tags are dropped.
func markupToMarkdown(text string) string {
	out := brRegex.ReplaceAllString(text, "\n")
	out = pOpenRegex.ReplaceAllString(out, "")
	out = pCloseRegex.ReplaceAllString(out, "\n\n")
	out = boldRegex.ReplaceAllString(out, "**")
	out = italRegex.ReplaceAllString(out, "*")
	out = liOpenRegex.ReplaceAllString(out, "- ")
	out = liCloseRegex.ReplaceAllString(out, "\n")
	out = stripRegex.ReplaceAllString(out, "")
	out = html.UnescapeString(out)

	// Collapse runs of blank lines left by dropped tags.
	lines := strings.Split(out, "\n")
	var kept []string
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			if !blank && len(kept) > 0 {
				kept = append(kept, "")
			}
			blank = true
			continue
		}
		kept = append(kept, trimmed)
		blank = false
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
