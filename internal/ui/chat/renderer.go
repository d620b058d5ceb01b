// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cindy-tui/internal/model"
)

// =============================================================================
// PROGRAM RENDERER
// =============================================================================

// Sender is the slice of *tea.Program the renderer needs.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramRenderer bridges the coordinator to the Bubble Tea program: every
// transcript event becomes a message delivered through Send, keeping all
// view mutation on the Update goroutine.
type ProgramRenderer struct {
	mu      sync.Mutex
	program Sender
}

// NewProgramRenderer creates a renderer with no program attached yet.
// Events sent before SetProgram are dropped; the initial view is rendered
// directly from the transcript, so nothing is lost at startup.
func NewProgramRenderer() *ProgramRenderer {
	return &ProgramRenderer{}
}

// SetProgram attaches the running program.
func (r *ProgramRenderer) SetProgram(p Sender) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

func (r *ProgramRenderer) send(msg interface{}) {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (r *ProgramRenderer) AppendMessage(entry *model.Message) {
	r.send(EntryAppendedMsg{Entry: entry})
}

func (r *ProgramRenderer) ShowTyping() {
	r.send(TypingStartedMsg{})
}

func (r *ProgramRenderer) HideTyping() {
	r.send(TypingStoppedMsg{})
}

func (r *ProgramRenderer) AppendSuggestions(items []string) {
	r.send(SuggestionsMsg{Items: items})
}

func (r *ProgramRenderer) ResetView() {
	r.send(ViewResetMsg{})
}
