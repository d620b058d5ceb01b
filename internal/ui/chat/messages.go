// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea chat screen.
package chat

import (
	"github.com/jeranaias/cindy-tui/internal/model"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// Transcript events delivered from the coordinator goroutine via
// program.Send. The Update loop is the only writer of view state, so these
// carry data only.

// EntryAppendedMsg delivers a transcript entry to display.
type EntryAppendedMsg struct {
	Entry *model.Message
}

// TypingStartedMsg shows the typing indicator.
type TypingStartedMsg struct{}

// TypingStoppedMsg hides the typing indicator.
type TypingStoppedMsg struct{}

// SuggestionsMsg delivers follow-up chips for the latest answer.
type SuggestionsMsg struct {
	Items []string
}

// ViewResetMsg clears the rendered transcript (a clear ran).
type ViewResetMsg struct{}

// SubmitFinishedMsg reports that a submission cycle ended. Ran is false when
// the input was rejected (empty or a request already in flight).
type SubmitFinishedMsg struct {
	Ran bool
}

// ClearFinishedMsg reports that a clear cycle ended.
type ClearFinishedMsg struct {
	Ran bool
}

// ThemeToggledMsg reports that the palette flipped and was persisted.
type ThemeToggledMsg struct {
	Dark bool
}

// ConfigReloadedMsg delivers a hot-reloaded configuration.
type ConfigReloadedMsg struct {
	Dark bool
}
