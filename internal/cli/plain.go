// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plain line-oriented mode used when no TTY
// supports the full-screen UI, or when -plain is requested.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/cindy-tui/internal/convo"
	"github.com/jeranaias/cindy-tui/internal/model"
)

// =============================================================================
// PLAIN RENDERER
// =============================================================================

// PlainRenderer writes transcript events straight to a writer. The typing
// indicator is a single erasable line.
type PlainRenderer struct {
	out    io.Writer
	typing bool

	// Latest chips, selectable by number on the next prompt.
	lastSuggestions []string
}

// NewPlainRenderer creates a renderer writing to out.
func NewPlainRenderer(out io.Writer) *PlainRenderer {
	return &PlainRenderer{out: out}
}

func (r *PlainRenderer) AppendMessage(entry *model.Message) {
	fmt.Fprintf(r.out, "%s : %s\n", entry.Origin.DisplayName(), entry.Text)
}

func (r *PlainRenderer) ShowTyping() {
	r.typing = true
	fmt.Fprint(r.out, "Cindy est en train d'écrire...")
}

func (r *PlainRenderer) HideTyping() {
	if !r.typing {
		return
	}
	r.typing = false
	// Erase the indicator line in place.
	fmt.Fprint(r.out, "\r\x1b[2K")
}

func (r *PlainRenderer) AppendSuggestions(items []string) {
	r.lastSuggestions = items
	fmt.Fprintln(r.out, convo.SuggestionsTitle)
	for i, item := range items {
		fmt.Fprintf(r.out, "  [%d] %s\n", i+1, item)
	}
}

func (r *PlainRenderer) ResetView() {
	r.lastSuggestions = nil
	fmt.Fprintln(r.out, "--- conversation effacée ---")
}

// Suggestion returns the chip text for a 1-based number, or "".
func (r *PlainRenderer) Suggestion(n int) string {
	if n < 1 || n > len(r.lastSuggestions) {
		return ""
	}
	return r.lastSuggestions[n-1]
}

// =============================================================================
// REPL
// =============================================================================

// Run drives the plain-mode read/eval loop until EOF, Ctrl+C or /quit.
// A bare number selects the corresponding chip from the latest suggestion
// block, mirroring the full-screen UI.
func Run(coordinator *convo.Coordinator, renderer *PlainRenderer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	// Show the seeded transcript (welcome or restored session).
	for _, entry := range coordinator.Transcript().Entries() {
		renderer.AppendMessage(entry)
	}
	fmt.Fprintln(renderer.out, "(/clear pour effacer, /quit pour quitter)")

	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case "/quit", "/exit":
			return nil
		case "/clear":
			coordinator.Clear(context.Background())
			continue
		}

		if n, err := strconv.Atoi(input); err == nil {
			if chip := renderer.Suggestion(n); chip != "" {
				renderer.lastSuggestions = nil
				coordinator.Submit(context.Background(), chip)
				continue
			}
		}

		renderer.lastSuggestions = nil
		coordinator.Submit(context.Background(), input)
	}
}
