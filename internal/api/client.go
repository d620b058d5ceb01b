// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Cindy answering service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the answering-service client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches client errors by type, so sentinel comparisons via errors.Is
// work for wrapped instances too.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeBadStatus
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "answering service is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrBadStatus   = &ClientError{Type: ErrTypeBadStatus, Message: "unexpected status from answering service"}
)

// IsTimeout reports whether the error is a request timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsUnreachable reports whether the error is a connection failure.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the answering-service client.
type ClientConfig struct {
	// BaseURL is the service base URL (default: http://127.0.0.1:5000)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows
	BaseURL string

	// Timeout for each request (default: 30s)
	Timeout time.Duration

	// RequestsPerSecond caps outbound traffic (default: 2).
	// The single-flight guard already serializes /question calls; the
	// limiter additionally covers clear/welcome traffic.
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:5000",
		Timeout:           30 * time.Second,
		RequestsPerSecond: 2,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the answering service.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 2
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// QUESTION ENDPOINT
// =============================================================================

// Ask POSTs a question envelope and decodes the answer payload.
//
// A non-2xx status is returned as a transport-level error; payload-level
// degradation (empty or apologetic "reponse") is NOT detected here - that
// judgement belongs to the request coordinator.
func (c *Client) Ask(ctx context.Context, reqBody QuestionRequest) (*AnswerResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, wrapCtxErr(err)
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/question", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapCtxErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ClientError{
			Type:    ErrTypeBadStatus,
			Message: "unexpected status from answering service: " + resp.Status,
		}
	}

	var answer AnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode answer", Cause: err}
	}

	return &answer, nil
}

// =============================================================================
// CLEAR-HISTORY ENDPOINT
// =============================================================================

// ClearHistory asks the service to drop its conversation memory.
// Returns the service's success flag.
func (c *Client) ClearHistory(ctx context.Context) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, wrapCtxErr(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/clear-history", nil)
	if err != nil {
		return false, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, wrapCtxErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &ClientError{
			Type:    ErrTypeBadStatus,
			Message: "unexpected status from answering service: " + resp.Status,
		}
	}

	var result ClearResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode clear response", Cause: err}
	}

	return result.Success, nil
}

// =============================================================================
// WELCOME RECOVERY
// =============================================================================

// welcomeBlockRegex locates the first server-rendered message block in the
// root document. The welcome text is recovered from it after a successful
// clear instead of being hard-coded client-side.
var (
	welcomeBlockRegex = regexp.MustCompile(`(?s)class="message-content"[^>]*>(.*?)</div>`)
	tagRegex          = regexp.MustCompile(`<[^>]*>`)
)

// FetchWelcome GETs the root document and extracts the server-rendered
// welcome text. Returns the empty string (no error) when the document
// carries no recognizable welcome block.
func (c *Client) FetchWelcome(ctx context.Context) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", wrapCtxErr(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", wrapCtxErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ClientError{
			Type:    ErrTypeBadStatus,
			Message: "unexpected status from answering service: " + resp.Status,
		}
	}

	// The root document is small; read it whole.
	doc, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read root document", Cause: err}
	}

	return ExtractWelcome(string(doc)), nil
}

// ExtractWelcome pulls the first message-content block out of an HTML
// document, strips its tags and unescapes entities. Empty string when no
// block is found.
func ExtractWelcome(doc string) string {
	m := welcomeBlockRegex.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	text := tagRegex.ReplaceAllString(m[1], " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// wrapCtxErr converts low-level transport errors into the client taxonomy.
func wrapCtxErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return &ClientError{Type: ErrTypeConnection, Message: "answering service is unreachable", Cause: err}
}
