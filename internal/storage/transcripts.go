// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversation transcripts as JSON files under the
// configuration directory, one file per session.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/cindy-tui/internal/model"
	"github.com/jeranaias/cindy-tui/internal/util"
)

// =============================================================================
// TYPES
// =============================================================================

// Entry is one persisted transcript line.
type Entry struct {
	Origin    string    `json:"origin"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is a persisted conversation.
type Transcript struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Entries   []Entry   `json:"entries"`
}

// Summary is the listing view of a saved transcript.
type Summary struct {
	ID        string
	Title     string
	UpdatedAt time.Time
	Count     int
}

// =============================================================================
// STORE
// =============================================================================

const maxTitleRunes = 60

// Store reads and writes transcripts under dir, keeping at most limit files.
type Store struct {
	dir   string
	limit int
}

// NewStore creates a transcript store rooted at dir. limit <= 0 disables
// pruning.
func NewStore(dir string, limit int) *Store {
	return &Store{dir: filepath.Join(dir, "history"), limit: limit}
}

// Save persists a live transcript under the given session ID. An empty ID
// allocates a new one. Transcripts holding only the welcome seed are not
// worth saving and are skipped (returns the ID unchanged).
func (s *Store) Save(id string, tr *model.Transcript) (string, error) {
	entries := tr.Entries()
	if len(entries) < 2 {
		return id, nil
	}

	if id == "" {
		id = uuid.NewString()
	}

	saved := Transcript{
		ID:        id,
		Title:     titleFor(entries),
		CreatedAt: entries[0].Timestamp,
		UpdatedAt: time.Now(),
		Entries:   make([]Entry, 0, len(entries)),
	}
	for _, m := range entries {
		saved.Entries = append(saved.Entries, Entry{
			Origin:    string(m.Origin),
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return id, fmt.Errorf("failed to encode transcript: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return id, fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := util.AtomicWriteFile(s.path(id), data, 0o644); err != nil {
		return id, err
	}

	s.prune()
	return id, nil
}

// Load reads a saved transcript by ID.
func (s *Store) Load(id string) (*Transcript, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript %s: %w", id, err)
	}
	var tr Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("failed to parse transcript %s: %w", id, err)
	}
	return &tr, nil
}

// List returns summaries of all saved transcripts, newest first.
func (s *Store) List() ([]Summary, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var tr Transcript
		if err := json.Unmarshal(data, &tr); err != nil {
			// Skip corrupt files rather than failing the whole listing.
			continue
		}
		summaries = append(summaries, Summary{
			ID:        tr.ID,
			Title:     tr.Title,
			UpdatedAt: tr.UpdatedAt,
			Count:     len(tr.Entries),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a saved transcript. Deleting a missing ID is not an error.
func (s *Store) Delete(id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// prune drops the oldest transcripts beyond the configured limit.
func (s *Store) prune() {
	if s.limit <= 0 {
		return
	}
	summaries, err := s.List()
	if err != nil || len(summaries) <= s.limit {
		return
	}
	for _, old := range summaries[s.limit:] {
		os.Remove(s.path(old.ID))
	}
}

// titleFor derives a listing title from the first user message.
func titleFor(entries []*model.Message) string {
	for _, m := range entries {
		if m.Origin == model.OriginUser {
			return util.TruncateRunes(util.Flatten(m.Text), maxTitleRunes)
		}
	}
	return "Conversation " + time.Now().Format("2006-01-02 15:04")
}

// Restore rebuilds a live transcript from a saved one, preserving entry
// order. Unknown origins are kept as-is.
func Restore(saved *Transcript) *model.Transcript {
	tr := model.NewTranscript()
	for _, e := range saved.Entries {
		origin := model.Origin(strings.TrimSpace(e.Origin))
		if origin != model.OriginUser && origin != model.OriginBot {
			origin = model.OriginBot
		}
		tr.Append(origin, e.Text)
	}
	return tr
}
