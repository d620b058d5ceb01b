// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package convo

import (
	"strings"

	"github.com/jeranaias/cindy-tui/internal/api"
	"github.com/jeranaias/cindy-tui/internal/intent"
)

// =============================================================================
// OUTCOME RESOLUTION
// =============================================================================

// Outcome is the resolved result of one question cycle: the bot text to
// display, the suggestion chips to offer, and whether the answer is a
// verbatim well-formed service answer worth recording.
type Outcome struct {
	Text        string
	Suggestions []string
	Learnable   bool
}

// degradedMarkers flag service payloads that are really apologies: the
// service answers 200 but the "reponse" text admits failure. Matching is
// substring-based against the service's known error vocabulary.
var degradedMarkers = []string{"erreur", "Désolé"}

// isDegraded reports whether a payload carries no usable answer.
func isDegraded(reponse string) bool {
	if strings.TrimSpace(reponse) == "" {
		return true
	}
	for _, marker := range degradedMarkers {
		if strings.Contains(reponse, marker) {
			return true
		}
	}
	return false
}

// resolve maps the (tag, answer, err) triple onto exactly one outcome.
//
// Transport failure: a classified question gets its canned fallback, an
// unclassified one gets the transport apology. No suggestions either way -
// a dead service cannot be offered follow-ups.
//
// Degraded payload: same text selection with the degraded apology, but any
// suggestions that did arrive are kept; the suggestion engine can succeed
// even when answer generation fails.
//
// Well-formed payload: the service text verbatim, plus its suggestions.
// Capability questions with no service suggestions get the built-in set.
func resolve(tag intent.Tag, answer *api.AnswerResponse, err error) Outcome {
	if err != nil {
		text := intent.Fallback(tag)
		if text == "" {
			text = intent.ApologyTransport
		}
		return Outcome{Text: text}
	}

	suggestions := answer.Suggestions
	if len(suggestions) == 0 && tag == intent.TagCapability {
		suggestions = intent.DefaultCapabilitySuggestions
	}
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}

	if isDegraded(answer.Reponse) {
		text := intent.Fallback(tag)
		if text == "" {
			// Unclassified question: echo the service's own apology when it
			// supplied one, otherwise author the generic one.
			text = strings.TrimSpace(answer.Reponse)
		}
		if text == "" {
			text = intent.ApologyDegraded
		}
		return Outcome{Text: text, Suggestions: suggestions}
	}

	return Outcome{Text: answer.Reponse, Suggestions: suggestions, Learnable: true}
}
