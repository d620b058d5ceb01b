// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript:
// the immutable Message record and the ordered Transcript log that owns
// the records and assigns monotonic sequence numbers.
//
// The package is pure data; all request lifecycle behavior lives in
// internal/convo and all presentation in internal/ui.
package model
