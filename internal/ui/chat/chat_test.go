// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cindy-tui/internal/api"
	"github.com/jeranaias/cindy-tui/internal/convo"
	"github.com/jeranaias/cindy-tui/internal/model"
	"github.com/jeranaias/cindy-tui/internal/ui/styles"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type stubAsker struct{}

func (stubAsker) Ask(ctx context.Context, req api.QuestionRequest) (*api.AnswerResponse, error) {
	return &api.AnswerResponse{Reponse: "réponse"}, nil
}
func (stubAsker) ClearHistory(ctx context.Context) (bool, error) { return true, nil }

func (stubAsker) FetchWelcome(ctx context.Context) (string, error) { return "", nil }

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	renderer := NewProgramRenderer()
	coordinator := convo.New(stubAsker{}, renderer, nil)
	return NewModel(coordinator, styles.NewTheme(true), "test")
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

// =============================================================================
// PROGRAM RENDERER
// =============================================================================

func TestProgramRendererDeliversEventsInOrder(t *testing.T) {
	renderer := NewProgramRenderer()
	sender := &recordingSender{}
	renderer.SetProgram(sender)

	entry := &model.Message{Origin: model.OriginUser, Text: "question"}
	renderer.AppendMessage(entry)
	renderer.ShowTyping()
	renderer.HideTyping()
	renderer.AppendSuggestions([]string{"A"})
	renderer.ResetView()

	if len(sender.msgs) != 5 {
		t.Fatalf("messages = %d, want 5", len(sender.msgs))
	}
	if _, ok := sender.msgs[0].(EntryAppendedMsg); !ok {
		t.Errorf("msg 0 = %T", sender.msgs[0])
	}
	if _, ok := sender.msgs[1].(TypingStartedMsg); !ok {
		t.Errorf("msg 1 = %T", sender.msgs[1])
	}
	if _, ok := sender.msgs[2].(TypingStoppedMsg); !ok {
		t.Errorf("msg 2 = %T", sender.msgs[2])
	}
	if s, ok := sender.msgs[3].(SuggestionsMsg); !ok || len(s.Items) != 1 {
		t.Errorf("msg 3 = %#v", sender.msgs[3])
	}
	if _, ok := sender.msgs[4].(ViewResetMsg); !ok {
		t.Errorf("msg 4 = %T", sender.msgs[4])
	}
}

func TestProgramRendererDropsEventsWithoutProgram(t *testing.T) {
	renderer := NewProgramRenderer()
	// Must not panic before SetProgram.
	renderer.AppendMessage(&model.Message{Origin: model.OriginBot, Text: "x"})
	renderer.ShowTyping()
	renderer.ResetView()
}

// =============================================================================
// MODEL UPDATE
// =============================================================================

func TestModelRendersWelcomeSeed(t *testing.T) {
	m := sized(t, newTestModel(t))
	if !strings.Contains(m.viewport.View(), "Cindy") {
		t.Error("welcome seed not rendered")
	}
}

func TestEntryAppendedAddsBlock(t *testing.T) {
	m := sized(t, newTestModel(t))
	before := len(m.blocks)

	entry := &model.Message{Origin: model.OriginUser, Text: "Bonjour"}
	updated, _ := m.Update(EntryAppendedMsg{Entry: entry})
	m = updated.(Model)

	if len(m.blocks) != before+1 {
		t.Errorf("blocks = %d, want %d", len(m.blocks), before+1)
	}
}

func TestViewResetClearsBlocks(t *testing.T) {
	m := sized(t, newTestModel(t))
	updated, _ := m.Update(ViewResetMsg{})
	m = updated.(Model)

	if len(m.blocks) != 0 {
		t.Errorf("blocks = %d, want 0 after reset", len(m.blocks))
	}
}

func TestTypingLifecycleMessages(t *testing.T) {
	m := sized(t, newTestModel(t))

	updated, cmd := m.Update(TypingStartedMsg{})
	m = updated.(Model)
	if cmd == nil {
		t.Error("typing start should schedule the spinner tick")
	}
	if !m.typing.IsActive() {
		t.Error("typing indicator should be active")
	}

	updated, _ = m.Update(TypingStoppedMsg{})
	m = updated.(Model)
	if m.typing.IsActive() {
		t.Error("typing indicator should be stopped")
	}
}

func TestEnterSubmitsAndClearsInput(t *testing.T) {
	m := sized(t, newTestModel(t))
	m.input.SetValue("Quelle heure est-il ?")

	cmd, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if !handled {
		t.Fatal("enter should be handled")
	}
	if cmd == nil {
		t.Fatal("enter should produce a submit command")
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared on submit")
	}
	if !m.busy {
		t.Error("model should be busy while submitting")
	}
}

func TestEnterWithEmptyInputIsNoOp(t *testing.T) {
	m := sized(t, newTestModel(t))

	cmd, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if !handled {
		t.Fatal("enter should be handled")
	}
	if cmd != nil {
		t.Error("empty input should not produce a command")
	}
	if m.busy {
		t.Error("model should not be busy")
	}
}

func TestDigitSelectsChipOnlyWhenInputEmpty(t *testing.T) {
	m := sized(t, newTestModel(t))
	updated, _ := m.Update(SuggestionsMsg{Items: []string{"Quelle heure est-il ?", "Raconte-moi une blague"}})
	m = updated.(Model)

	// Empty input: digit 2 selects the second chip.
	cmd, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if !handled || cmd == nil {
		t.Fatal("digit should select a chip when input is empty")
	}

	// Non-empty input: digit falls through to typing.
	m2 := sized(t, newTestModel(t))
	updated, _ = m2.Update(SuggestionsMsg{Items: []string{"A"}})
	m2 = updated.(Model)
	m2.input.SetValue("il y a 1")
	_, handled = m2.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	if handled {
		t.Error("digit should not select a chip while typing")
	}
}

func TestDigitWithoutChipsFallsThrough(t *testing.T) {
	m := sized(t, newTestModel(t))
	_, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if handled {
		t.Error("digit with no chips should fall through to the input")
	}
}

func TestSubmitFinishedReleasesBusy(t *testing.T) {
	m := sized(t, newTestModel(t))
	m.busy = true

	updated, _ := m.Update(SubmitFinishedMsg{Ran: true})
	m = updated.(Model)
	if m.busy {
		t.Error("busy should be released")
	}
}
