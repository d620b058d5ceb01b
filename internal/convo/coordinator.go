// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package convo drives the conversation lifecycle: it owns the single-flight
// request guard, the optimistic transcript updates, and the fallback logic
// that keeps the chat usable when the answering service degrades.
package convo

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/cindy-tui/internal/api"
	"github.com/jeranaias/cindy-tui/internal/intent"
	"github.com/jeranaias/cindy-tui/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// WelcomeMessage seeds a fresh transcript and re-seeds it after a clear
	// when the service cannot supply its own welcome text.
	WelcomeMessage = "Bonjour! Je suis Cindy, votre assistant IA. Comment puis-je vous aider aujourd'hui?"

	// SuggestionsTitle heads every block of follow-up chips.
	SuggestionsTitle = "Vous pourriez aussi demander :"

	// MaxSuggestions caps the chips shown after an answer.
	MaxSuggestions = 5

	// RevealDelay is how long suggestion chips wait after the answer
	// renders before they appear.
	RevealDelay = 500 * time.Millisecond
)

// =============================================================================
// INTERFACES
// =============================================================================

// Asker is the slice of the service client the coordinator needs.
type Asker interface {
	Ask(ctx context.Context, req api.QuestionRequest) (*api.AnswerResponse, error)
	ClearHistory(ctx context.Context) (bool, error)
	FetchWelcome(ctx context.Context) (string, error)
}

// Renderer receives transcript events in order. Implementations deliver them
// to a display (TUI program, plain terminal); they must tolerate being
// called from the coordinator's goroutine.
type Renderer interface {
	AppendMessage(msg *model.Message)
	ShowTyping()
	HideTyping()
	AppendSuggestions(items []string)
	ResetView()
}

// AnswerCache remembers well-formed answers and serves them back during
// outages. Optional; nil disables both sides.
type AnswerCache interface {
	Record(question, answer string)
	Lookup(question string) (string, error)
}

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator serializes question submissions against a single transcript.
// At most one question is in flight at a time; submissions and clears that
// arrive while one is running are dropped, not queued.
type Coordinator struct {
	asker      Asker
	renderer   Renderer
	cache      AnswerCache
	transcript *model.Transcript

	mu       sync.Mutex
	awaiting bool

	// revealDelay is overridable so tests don't sleep.
	revealDelay time.Duration
}

// New creates a coordinator around an empty transcript seeded with the
// welcome message. The seed is appended to the transcript but NOT delivered
// to the renderer; callers render the initial state themselves.
func New(asker Asker, renderer Renderer, cache AnswerCache) *Coordinator {
	c := &Coordinator{
		asker:       asker,
		renderer:    renderer,
		cache:       cache,
		transcript:  model.NewTranscript(),
		revealDelay: RevealDelay,
	}
	c.transcript.Append(model.OriginBot, WelcomeMessage)
	return c
}

// NewWithTranscript creates a coordinator around a restored transcript. An
// empty transcript is seeded with the welcome message as in New.
func NewWithTranscript(asker Asker, renderer Renderer, cache AnswerCache, tr *model.Transcript) *Coordinator {
	c := &Coordinator{
		asker:       asker,
		renderer:    renderer,
		cache:       cache,
		transcript:  tr,
		revealDelay: RevealDelay,
	}
	if c.transcript.Len() == 0 {
		c.transcript.Append(model.OriginBot, WelcomeMessage)
	}
	return c
}

// Transcript exposes the conversation history for persistence and display.
func (c *Coordinator) Transcript() *model.Transcript {
	return c.transcript
}

// Awaiting reports whether a question is currently in flight.
func (c *Coordinator) Awaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaiting
}

// tryAcquire flips the single-flight guard. False when busy.
func (c *Coordinator) tryAcquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.awaiting {
		return false
	}
	c.awaiting = true
	return true
}

func (c *Coordinator) release() {
	c.mu.Lock()
	c.awaiting = false
	c.mu.Unlock()
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit runs one full question/answer cycle synchronously:
//
//  1. trim the input; empty input is a no-op
//  2. acquire the single-flight guard; drop the submission if busy
//  3. append + render the user message optimistically, before any network I/O
//  4. classify, call the service, resolve the outcome
//  5. drop the typing indicator and render the answer as soon as the outcome
//     resolves; suggestion chips follow after the reveal delay
//
// Returns true when a cycle actually ran. Exactly one bot message is
// appended per cycle, on every branch.
func (c *Coordinator) Submit(ctx context.Context, raw string) bool {
	question := strings.TrimSpace(raw)
	if question == "" {
		return false
	}

	if !c.tryAcquire() {
		return false
	}
	defer c.release()

	// Optimistic render: the user's message appears immediately, even if
	// the service turns out to be down.
	userMsg := c.transcript.Append(model.OriginUser, question)
	c.renderer.AppendMessage(userMsg)
	c.renderer.ShowTyping()

	tag := intent.Classify(question)
	answer, err := c.asker.Ask(ctx, api.QuestionRequest{
		Question: question,
		Type:     tag.String(),
	})

	// Failures never surface to the caller; they are absorbed into a
	// fallback render and logged.
	if err != nil {
		log.Printf("question failed, answering with fallback: %v", err)
	}

	outcome := resolve(tag, answer, err)

	// During an outage a remembered answer beats the generic apology.
	// Classified intents keep their canned fallbacks, which are guaranteed.
	if err != nil && tag == intent.TagNone && c.cache != nil {
		if cached, lookupErr := c.cache.Lookup(question); lookupErr == nil {
			outcome = Outcome{Text: cached}
		}
	}

	c.renderer.HideTyping()

	botMsg := c.transcript.Append(model.OriginBot, outcome.Text)
	c.renderer.AppendMessage(botMsg)

	if len(outcome.Suggestions) > 0 {
		// Chips trail the answer so the user reads it before the follow-ups
		// appear.
		if c.revealDelay > 0 {
			select {
			case <-time.After(c.revealDelay):
			case <-ctx.Done():
			}
		}
		c.renderer.AppendSuggestions(outcome.Suggestions)
	}

	if outcome.Learnable && c.cache != nil {
		c.cache.Record(question, outcome.Text)
	}
	return true
}

// =============================================================================
// CLEAR
// =============================================================================

// Clear asks the service to drop its memory, then resets the transcript to a
// single welcome message. Dropped (returns false) while a question is in
// flight. The welcome text is recovered from the service when possible and
// falls back to the built-in constant otherwise.
func (c *Coordinator) Clear(ctx context.Context) bool {
	if !c.tryAcquire() {
		return false
	}
	defer c.release()

	welcome := WelcomeMessage
	ok, err := c.asker.ClearHistory(ctx)
	if err != nil {
		// A failed server-side clear still clears locally; the alternative
		// is a transcript the user asked to discard staying on screen.
		log.Printf("clear-history failed, clearing locally only: %v", err)
	}
	if err == nil && ok {
		fetched, err := c.asker.FetchWelcome(ctx)
		switch {
		case err != nil:
			log.Printf("welcome recovery failed, using built-in text: %v", err)
		case fetched != "":
			welcome = fetched
		}
	}

	seed := c.transcript.Reset(welcome)
	c.renderer.ResetView()
	c.renderer.AppendMessage(seed)
	return true
}
