// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
	"time"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered log of messages for one chat session. It is the
// exclusive owner of its Message records; everything else only reads.
//
// Sequence numbers are assigned at append time, increase monotonically, and
// are never reused - not even across Reset, so an entry from before a clear
// can never be confused with one created after it.
type Transcript struct {
	mu      sync.Mutex
	entries []*Message
	nextSeq int
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append creates a new message, assigns the next sequence number, and adds
// it to the log. The returned record is already owned by the transcript.
func (t *Transcript) Append(origin Origin, text string) *Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextSeq++
	msg := &Message{
		ID:        generateID(),
		Origin:    origin,
		Text:      text,
		Sequence:  t.nextSeq,
		Timestamp: time.Now(),
	}
	t.entries = append(t.entries, msg)
	return msg
}

// Entries returns a snapshot of the log in append order.
func (t *Transcript) Entries() []*Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*Message, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries in the log.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Last returns the most recent entry, or nil for an empty transcript.
func (t *Transcript) Last() *Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) == 0 {
		return nil
	}
	return t.entries[len(t.entries)-1]
}

// Reset drops every entry and reseeds the log with a single bot welcome
// message. Drop and reseed happen under one lock acquisition, so no reader
// or concurrent append can observe the transcript empty.
func (t *Transcript) Reset(welcome string) *Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextSeq++
	seed := &Message{
		ID:        generateID(),
		Origin:    OriginBot,
		Text:      welcome,
		Sequence:  t.nextSeq,
		Timestamp: time.Now(),
	}
	t.entries = []*Message{seed}
	return seed
}
