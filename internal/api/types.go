// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// =============================================================================
// WIRE TYPES
// =============================================================================

// QuestionRequest is the envelope POSTed to the /question endpoint.
// Type carries the heuristic intent tag and is omitted when the question
// was not classified.
type QuestionRequest struct {
	Question string `json:"question"`
	Type     string `json:"type,omitempty"`
}

// AnswerResponse is the body returned by the /question endpoint.
//
// The "reponse" spelling is the service's contract, not a typo on our side.
// Callers must treat the payload defensively: Reponse may be absent, empty,
// or carry the service's own apology text - an HTTP 200 is not proof of a
// usable answer.
type AnswerResponse struct {
	Reponse     string   `json:"reponse"`
	Suggestions []string `json:"suggestions"`
}

// ClearResponse is the body returned by the /clear-history endpoint.
type ClearResponse struct {
	Success bool `json:"success"`
}
