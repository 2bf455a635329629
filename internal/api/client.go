// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/chrisgenai/mongoagent-tui/internal/command"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTimeout is the per-request timeout. Agent-routed searches can
	// legitimately run for tens of seconds.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the retry budget for transient failures on
	// literal GET commands. Conversational searches are never retried.
	DefaultMaxRetries = 3

	// retryBaseDelay is the initial backoff delay.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the backoff delay.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize bounds response reads (10MB). PERFORMANCE: protects
	// against unbounded memory use on a misbehaving backend.
	MaxResponseSize = 10 * 1024 * 1024

	// searchPath is the conversational search endpoint.
	searchPath = "/movies/search"

	// DefaultCaption is used when a search response has no message field.
	DefaultCaption = "Here is what I found."

	// ParseFailureNote prefixes a response body that was not JSON.
	ParseFailureNote = "The agent returned a response that could not be parsed:"

	userAgent = "mongoagent-tui"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnauthorized is returned on 401/403 responses. The caller should
	// re-run the session check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned on 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is returned on 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrServerError is returned on 5xx responses.
	ErrServerError = errors.New("backend error")
)

// APIError is a non-2xx backend answer with whatever detail the body held.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Unwrap maps the status code onto the sentinel errors so callers can use
// errors.Is without inspecting codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrServerError
	default:
		return nil
	}
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

// sharedHTTPClient pools connections to the backend across the process.
var sharedHTTPClient = &http.Client{
	Timeout: DefaultTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the movie agent backend. Both the conversational search
// endpoint and literal curl-style requests go through it, always with a
// bearer id token.
type Client struct {
	baseURL    string
	userID     string
	client     *http.Client
	maxRetries int

	// limiter throttles outbound calls so a scripted chat session cannot
	// hammer the backend.
	limiter *rate.Limiter
}

// NewClient creates a Client for the given backend base URL.
func NewClient(baseURL, userID string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		client:     sharedHTTPClient,
		maxRetries: DefaultMaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
	}
}

// WithHTTPClient sets a custom HTTP client. Used by tests.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.client = client
	return c
}

// WithMaxRetries sets the retry budget for literal GET commands.
func (c *Client) WithMaxRetries(n int) *Client {
	if n >= 0 {
		c.maxRetries = n
	}
	return c
}

// WithRateLimit overrides the outbound rate limit.
func (c *Client) WithRateLimit(perSecond float64, burst int) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// UserID returns the configured caller identity.
func (c *Client) UserID() string {
	return c.userID
}

// =============================================================================
// CONVERSATIONAL SEARCH
// =============================================================================

// Search posts a conversational search request. The history slice should
// carry only the current user turn; the backend treats each request as a
// fresh exchange. Search never retries: a duplicate agent run is worse
// than a reported failure.
func (c *Client) Search(ctx context.Context, idToken, query string, history []HistoryEntry, mode Mode) (*SearchResult, error) {
	if history == nil {
		history = []HistoryEntry{}
	}
	reqBody := SearchRequest{
		UserID:  c.userID,
		Request: query,
		History: history,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	endpoint := c.baseURL + searchPath + "?" + mode.queryValues().Encode()

	start := time.Now()
	body, _, err := c.doRequest(ctx, http.MethodPost, endpoint, idToken, payload)
	if err != nil {
		return nil, err
	}
	log.Printf("API_SEARCH | mode=%s latency=%dms bytes=%d", mode, time.Since(start).Milliseconds(), len(body))

	return normalizeSearchResponse(body), nil
}

// searchResponse is the raw wire shape of a search answer. Both fields are
// optional in practice.
type searchResponse struct {
	Message string          `json:"message"`
	Movies  json.RawMessage `json:"movies"`
}

// normalizeSearchResponse turns whatever the backend answered into a
// SearchResult the UI can always render:
//
//   - missing message        -> generic caption
//   - missing/invalid movies -> empty slice, never nil
//   - non-JSON body          -> verbatim text behind a parse-failure note
func normalizeSearchResponse(body []byte) *SearchResult {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &SearchResult{
			Caption: ParseFailureNote,
			Movies:  []Movie{},
			Raw:     string(body),
		}
	}

	result := &SearchResult{
		Caption: resp.Message,
		Movies:  []Movie{},
	}
	if result.Caption == "" {
		result.Caption = DefaultCaption
	}

	if len(resp.Movies) > 0 {
		var movies []Movie
		if err := json.Unmarshal(resp.Movies, &movies); err == nil && movies != nil {
			result.Movies = movies
		}
		// A movies field that is not an array is treated as absent.
	}
	return result
}

// =============================================================================
// LITERAL COMMANDS
// =============================================================================

// Do executes a parsed curl-style command against the backend and surfaces
// the response verbatim with its HTTP status. GET commands are retried on
// transient failures; anything else runs exactly once.
func (c *Client) Do(ctx context.Context, idToken string, cmd *command.Parsed) (*CommandResult, error) {
	endpoint := c.baseURL + cmd.Path

	retries := 0
	if cmd.Method == http.MethodGet {
		retries = c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt)
			log.Printf("API_RETRY | attempt=%d delay=%s path=%s", attempt, delay, cmd.Path)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		body, httpResp, err := c.doRequest(ctx, cmd.Method, endpoint, idToken, cmd.Body)
		if err == nil {
			return &CommandResult{
				StatusCode: httpResp.StatusCode,
				Status:     "HTTP " + httpResp.Status,
				Body:       string(body),
			}, nil
		}

		// Non-2xx answers are still a verbatim result for the transcript,
		// unless they are worth retrying.
		var apiErr *APIError
		if errors.As(err, &apiErr) && !isRetryable(apiErr.StatusCode) {
			return &CommandResult{
				StatusCode: apiErr.StatusCode,
				Status:     fmt.Sprintf("HTTP %d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode)),
				Body:       apiErr.Message,
			}, nil
		}
		lastErr = err
	}

	// Retry budget exhausted. A status-coded failure is still a verbatim
	// result; only transport-level failures bubble up as errors.
	var apiErr *APIError
	if errors.As(lastErr, &apiErr) {
		return &CommandResult{
			StatusCode: apiErr.StatusCode,
			Status:     fmt.Sprintf("HTTP %d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode)),
			Body:       apiErr.Message,
		}, nil
	}
	return nil, lastErr
}

// isRetryable reports whether a status code is worth another attempt.
func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// calculateBackoff returns the exponential backoff delay for an attempt.
func calculateBackoff(attempt int) time.Duration {
	delay := time.Duration(float64(retryBaseDelay) * math.Pow(2, float64(attempt-1)))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doRequest performs one HTTP round trip. A non-2xx answer comes back as an
// *APIError carrying the parsed (or raw) body message.
func (c *Client) doRequest(ctx context.Context, method, endpoint, idToken string, payload []byte) ([]byte, *http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	var reader io.Reader
	if len(payload) > 0 {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, idToken, len(payload) > 0)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, newAPIError(resp.StatusCode, body)
	}
	return body, resp, nil
}

// setHeaders applies the standard request headers. The backend reads the
// bearer token straight from Authorization; no custom headers are involved.
func (c *Client) setHeaders(req *http.Request, idToken string, hasBody bool) {
	req.Header.Set("Authorization", "Bearer "+idToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}

// readResponse reads a response body with a hard size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// apiErrorBody is the error shape the backend uses; message and detail are
// tried in that order.
type apiErrorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}

// newAPIError builds an APIError from a non-2xx response body.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			apiErr.Message = parsed.Message
		case parsed.Detail != "":
			apiErr.Message = parsed.Detail
		case parsed.Error != "":
			apiErr.Message = parsed.Error
		}
	}
	if apiErr.Message == "" && len(body) > 0 {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// BuildURL is exposed for the status command to show where requests go.
func (c *Client) BuildURL(path string) string {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return c.baseURL + path
	}
	return u.String()
}
