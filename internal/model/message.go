// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// =============================================================================
// ORIGIN TYPE
// =============================================================================

// Origin identifies the author of a transcript entry.
type Origin string

const (
	OriginUser Origin = "user"
	OriginBot  Origin = "bot"
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	return string(o)
}

// DisplayName returns a human-readable name for the origin.
func (o Origin) DisplayName() string {
	switch o {
	case OriginUser:
		return "Vous"
	case OriginBot:
		return "Cindy"
	default:
		return string(o)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single transcript entry. Once appended to a Transcript it is
// immutable: nothing mutates Text, Origin or Sequence after creation, and
// rendering never rolls an entry back.
type Message struct {
	ID        string    `json:"id"`
	Origin    Origin    `json:"origin"`
	Text      string    `json:"text"`
	Sequence  int       `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
}

// HasMarkup reports whether the text should be treated as markup.
// The rule mirrors the answering service's contract: markup if and only if
// the text contains both an opening and a closing angle bracket.
func (m *Message) HasMarkup() bool {
	return strings.Contains(m.Text, "<") && strings.Contains(m.Text, ">")
}

// Paragraphs splits plain text into its non-empty newline-delimited
// segments. Callers render one paragraph block per segment when more than
// one exists, and the raw text as-is otherwise.
func (m *Message) Paragraphs() []string {
	var paragraphs []string
	for _, line := range strings.Split(m.Text, "\n") {
		if strings.TrimSpace(line) != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
