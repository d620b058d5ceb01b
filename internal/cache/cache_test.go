// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "answers.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndLookup(t *testing.T) {
	store := newTestStore(t)

	store.Record("Quelle heure est-il ?", "Il est 14h.")

	answer, err := store.Lookup("Quelle heure est-il ?")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if answer != "Il est 14h." {
		t.Errorf("answer = %q", answer)
	}
}

func TestLookupFoldsKey(t *testing.T) {
	store := newTestStore(t)

	store.Record("Quelle est la météo à Paris ?", "Il pleut.")

	// Case, accents, punctuation and spacing differences all fold away.
	variants := []string{
		"quelle est la meteo a paris",
		"QUELLE EST LA MÉTÉO À PARIS ?!",
		"  quelle   est la météo à Paris  ",
	}
	for _, v := range variants {
		answer, err := store.Lookup(v)
		if err != nil {
			t.Errorf("Lookup(%q): %v", v, err)
			continue
		}
		if answer != "Il pleut." {
			t.Errorf("Lookup(%q) = %q", v, answer)
		}
	}
}

func TestLookupNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Lookup("question inconnue")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecordRefreshesAnswer(t *testing.T) {
	store := newTestStore(t)

	store.Record("question", "ancienne réponse")
	store.Record("question", "nouvelle réponse")

	answer, err := store.Lookup("question")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if answer != "nouvelle réponse" {
		t.Errorf("answer = %q, want refreshed", answer)
	}

	n, err := store.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 1 {
		t.Errorf("len = %d, want 1", n)
	}
}

func TestRecordIgnoresEmpty(t *testing.T) {
	store := newTestStore(t)

	store.Record("", "réponse")
	store.Record("question", "   ")

	n, err := store.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 0 {
		t.Errorf("len = %d, want 0", n)
	}
}

func TestFoldKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "Bonjour", expected: "bonjour"},
		{name: "strips_accents", input: "présente-toi", expected: "presentetoi"},
		{name: "drops_punctuation", input: "qui es-tu ?", expected: "qui estu"},
		{name: "collapses_whitespace", input: "  a   b  ", expected: "a b"},
		{name: "empty", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FoldKey(tt.input); got != tt.expected {
				t.Errorf("FoldKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
