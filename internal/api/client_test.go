// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           url,
		Timeout:           2 * time.Second,
		RequestsPerSecond: 1000, // don't throttle tests
	})
}

func TestAskSendsEnvelopeAndDecodesAnswer(t *testing.T) {
	var got QuestionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/question" {
			t.Errorf("path = %q, want /question", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(AnswerResponse{
			Reponse:     "Il est 14h32.",
			Suggestions: []string{"Quelle est la date ?"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.Ask(context.Background(), QuestionRequest{
		Question: "Quelle heure est-il ?",
		Type:     "capability",
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if got.Question != "Quelle heure est-il ?" {
		t.Errorf("question = %q", got.Question)
	}
	if got.Type != "capability" {
		t.Errorf("type = %q, want capability", got.Type)
	}
	if answer.Reponse != "Il est 14h32." {
		t.Errorf("reponse = %q", answer.Reponse)
	}
	if len(answer.Suggestions) != 1 {
		t.Errorf("suggestions = %v", answer.Suggestions)
	}
}

func TestAskOmitsEmptyType(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(AnswerResponse{Reponse: "ok"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Ask(context.Background(), QuestionRequest{Question: "test"}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if _, present := raw["type"]; present {
		t.Error("empty type field should be omitted from the envelope")
	}
}

func TestAskBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Ask(context.Background(), QuestionRequest{Question: "test"})
	if err == nil {
		t.Fatal("expected error for 500 status")
	}
	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Type != ErrTypeBadStatus {
		t.Errorf("error = %v, want bad-status client error", err)
	}
}

func TestAskUnreachable(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url)
	_, err := client.Ask(context.Background(), QuestionRequest{Question: "test"})
	if err == nil {
		t.Fatal("expected error for unreachable service")
	}
	if !IsUnreachable(err) {
		t.Errorf("IsUnreachable = false for %v", err)
	}
}

func TestAskTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Ask(ctx, QuestionRequest{Question: "test"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestClearHistory(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{name: "success_true", body: `{"success": true}`, expected: true},
		{name: "success_false", body: `{"success": false}`, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/clear-history" || r.Method != http.MethodPost {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			ok, err := newTestClient(server.URL).ClearHistory(context.Background())
			if err != nil {
				t.Fatalf("ClearHistory: %v", err)
			}
			if ok != tt.expected {
				t.Errorf("success = %v, want %v", ok, tt.expected)
			}
		})
	}
}

func TestFetchWelcome(t *testing.T) {
	page := `<!doctype html><html><body>
<div class="message bot-message">
  <div class="message-content">
    <p>Bonjour! Je suis Cindy, votre assistant IA. Comment puis-je vous aider aujourd&#39;hui?</p>
  </div>
</div>
</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("path = %q, want /", r.URL.Path)
		}
		w.Write([]byte(page))
	}))
	defer server.Close()

	welcome, err := newTestClient(server.URL).FetchWelcome(context.Background())
	if err != nil {
		t.Fatalf("FetchWelcome: %v", err)
	}
	expected := "Bonjour! Je suis Cindy, votre assistant IA. Comment puis-je vous aider aujourd'hui?"
	if welcome != expected {
		t.Errorf("welcome = %q, want %q", welcome, expected)
	}
}

func TestExtractWelcomeNoBlock(t *testing.T) {
	if got := ExtractWelcome("<html><body>nothing here</body></html>"); got != "" {
		t.Errorf("ExtractWelcome = %q, want empty", got)
	}
}

func TestConfigDefaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{})
	if client.config.BaseURL != "http://127.0.0.1:5000" {
		t.Errorf("base URL = %q", client.config.BaseURL)
	}
	if client.config.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", client.config.Timeout)
	}
}
