// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache stores well-formed answers keyed by a folded form of the
// question, so repeat questions can be answered during service outages.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	_ "modernc.org/sqlite"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// STORE
// =============================================================================

// Store is a sqlite-backed answer cache. Safe for concurrent use; writes are
// serialized through a single connection.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// ErrNotFound is returned by Lookup when no answer is cached for a question.
var ErrNotFound = errors.New("no cached answer")

const schema = `
CREATE TABLE IF NOT EXISTS answers (
	key        TEXT PRIMARY KEY,
	question   TEXT NOT NULL,
	answer     TEXT NOT NULL,
	hits       INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
);
`

// Open creates or opens the cache database at path.
func Open(path string) (*Store, error) {
	// WAL keeps reads non-blocking; busy_timeout covers the occasional
	// overlap between the coordinator goroutine and shutdown.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open answer cache: %w", err)
	}
	// modernc.org/sqlite is single-writer; cap the pool at one connection
	// so writes never contend.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize answer cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Record stores (or refreshes) the answer for a question.
func (s *Store) Record(question, answer string) {
	key := FoldKey(question)
	if key == "" || strings.TrimSpace(answer) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Best effort: a failed cache write never surfaces to the user.
	s.db.Exec(
		`INSERT INTO answers (key, question, answer, hits, updated_at)
		 VALUES (?, ?, ?, 0, ?)
		 ON CONFLICT(key) DO UPDATE SET answer = excluded.answer, updated_at = excluded.updated_at`,
		key, question, answer, time.Now().Unix(),
	)
}

// Lookup returns the cached answer for a question, bumping its hit counter.
// ErrNotFound when the question was never recorded.
func (s *Store) Lookup(question string) (string, error) {
	key := FoldKey(question)
	if key == "" {
		return "", ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var answer string
	err := s.db.QueryRow(`SELECT answer FROM answers WHERE key = ?`, key).Scan(&answer)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query answer cache: %w", err)
	}

	s.db.Exec(`UPDATE answers SET hits = hits + 1 WHERE key = ?`, key)
	return answer, nil
}

// Len returns the number of cached answers.
func (s *Store) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM answers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count answer cache: %w", err)
	}
	return n, nil
}

// =============================================================================
// KEY FOLDING
// =============================================================================

// diacriticStripper removes combining marks after NFD decomposition, so
// "météo" and "meteo" fold to the same key.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldKey normalizes a question into its cache key: lower-cased, diacritics
// stripped, punctuation dropped, whitespace collapsed.
func FoldKey(question string) string {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return ""
	}

	if folded, _, err := transform.String(diacriticStripper, q); err == nil {
		q = folded
	}

	var b strings.Builder
	for _, r := range q {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
