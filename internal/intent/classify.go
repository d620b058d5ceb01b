// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package intent classifies user questions into coarse intent tags and owns
// the canned fallback vocabulary used when the answering service fails.
package intent

import (
	"regexp"
	"strings"
)

// =============================================================================
// INTENT TAGS
// =============================================================================

// Tag is a coarse classification of a user question. The string value is
// sent on the wire in the request envelope's "type" field; TagNone maps to
// an omitted field.
type Tag string

const (
	TagNone       Tag = ""
	TagGreeting   Tag = "greeting"
	TagIdentity   Tag = "identity"
	TagCapability Tag = "capability"
)

// String returns the wire value of the tag.
func (t Tag) String() string {
	return string(t)
}

// =============================================================================
// PERFORMANCE: Pre-compiled patterns (compiled once at startup)
// =============================================================================

// The pattern sets are kept byte-for-byte compatible with the answering
// service's own client, so tagging and fallback selection agree with what
// the server has been tuned against.
var (
	// Greetings match the whole (trimmed, lower-cased) input.
	greetingRegex = regexp.MustCompile(`^(bonjour|salut|coucou|hello|hey|hi|bonsoir|yo)$`)

	// Identity and capability questions match anywhere in the input.
	identityRegex   = regexp.MustCompile(`(qui es[- ]tu|tu es qui|t'es qui|quel est ton nom|comment t'appelles[- ]tu|présente[- ]toi)`)
	capabilityRegex = regexp.MustCompile(`(que sais[- ]tu faire|quelles sont tes capacités|que peux[- ]tu faire|capacités|fonctionnalités|aide[- ]moi)`)
)

// Classify maps raw user text to exactly one tag. It is pure, deterministic
// and total: every input yields greeting, identity, capability or TagNone.
//
// Matching rules (first match wins):
//  1. greeting - exact match against the closed salutation set
//  2. identity - "qui es-tu" / "quel est ton nom" style phrases
//  3. capability - "que peux-tu faire" / "aide-moi" style phrases
//  4. no match - TagNone
func Classify(raw string) Tag {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		return TagNone
	}

	if greetingRegex.MatchString(q) {
		return TagGreeting
	}
	if identityRegex.MatchString(q) {
		return TagIdentity
	}
	if capabilityRegex.MatchString(q) {
		return TagCapability
	}
	return TagNone
}

// =============================================================================
// FALLBACK VOCABULARY
// =============================================================================

// The three intent fallbacks plus the two apologies below are the complete
// set of texts the client can author on its own; no other answer text is
// ever generated locally.
const (
	// FallbackGreeting answers a salutation when the service cannot.
	FallbackGreeting = "Bonjour ! Comment puis-je vous aider aujourd'hui ?"

	// FallbackIdentity answers "who are you" questions locally.
	FallbackIdentity = "Je suis Cindy, votre assistant IA personnel. Je suis là pour répondre à vos questions et vous aider dans vos tâches quotidiennes."

	// FallbackCapability answers "what can you do" questions locally.
	FallbackCapability = "Je peux répondre à vos questions, vous donner des informations sur divers sujets, vous aider à trouver des informations, et bien plus encore. N'hésitez pas à me demander ce dont vous avez besoin !"

	// ApologyTransport is shown for unclassified questions when the network
	// call itself failed.
	ApologyTransport = "Désolé, une erreur est survenue lors du traitement de votre demande. Veuillez réessayer avec une formulation différente."

	// ApologyDegraded is shown for unclassified questions when the service
	// answered but the payload carried nothing usable.
	ApologyDegraded = "Désolé, une erreur est survenue lors du traitement de votre demande. Veuillez réessayer."
)

// Fallback returns the canned sentence for a classified intent, or the
// empty string for TagNone (callers pick an apology instead).
func Fallback(tag Tag) string {
	switch tag {
	case TagGreeting:
		return FallbackGreeting
	case TagIdentity:
		return FallbackIdentity
	case TagCapability:
		return FallbackCapability
	default:
		return ""
	}
}

// DefaultCapabilitySuggestions is offered after a capability answer when the
// service supplied no suggestions of its own.
var DefaultCapabilitySuggestions = []string{
	"Quelle est la météo à Paris ?",
	"Raconte-moi une blague",
	"Quelle heure est-il ?",
	"Qui a inventé Internet ?",
}
