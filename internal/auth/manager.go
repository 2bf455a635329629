// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/chrisgenai/mongoagent-tui/internal/config"
	"github.com/chrisgenai/mongoagent-tui/internal/token"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTimeout is the timeout for token endpoint requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize bounds token endpoint response reads (1MB).
	MaxResponseSize = 1 * 1024 * 1024

	authorizePath = "/oauth2/authorize"
	tokenPath     = "/oauth2/token"
	logoutPath    = "/logout"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrGrantRejected is returned when the token endpoint answers but does
	// not issue an id token.
	ErrGrantRejected = errors.New("token grant rejected")

	// ErrNoAuthorizationCode is returned when a code grant is attempted
	// without a pending authorization code.
	ErrNoAuthorizationCode = errors.New("no authorization code")
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the outcome of a session check.
type Status int

const (
	// StatusAuthenticated means a valid id token is available.
	StatusAuthenticated Status = iota

	// StatusNeedsLogin means no credential could produce a session; the
	// user has to go through the hosted login page.
	StatusNeedsLogin

	// StatusFailed means a fresh authorization code was rejected. Unlike
	// NeedsLogin this is surfaced as an error, not a redirect.
	StatusFailed
)

// String returns the status name for logs and the status command.
func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusNeedsLogin:
		return "needs-login"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

// sharedHTTPClient is reused across managers so connections to the identity
// provider are pooled.
var sharedHTTPClient = &http.Client{
	Timeout: DefaultTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the session token lifecycle: expiry checks, the refresh
// grant, authorization code redemption, and logout. All decisions about
// whether the user is signed in flow through EnsureValidSession.
type Manager struct {
	cfg    config.AuthConfig
	store  *token.Store
	client *http.Client
	now    func() time.Time

	mu          sync.Mutex
	pendingCode string
}

// NewManager creates a Manager backed by the given token store.
func NewManager(cfg config.AuthConfig, store *token.Store) *Manager {
	return &Manager{
		cfg:    cfg,
		store:  store,
		client: sharedHTTPClient,
		now:    time.Now,
	}
}

// WithHTTPClient sets a custom HTTP client. Used by tests.
func (m *Manager) WithHTTPClient(client *http.Client) *Manager {
	m.client = client
	return m
}

// WithClock sets a custom time source. Used by tests to pin expiry checks.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// SetAuthorizationCode hands the manager an authorization code captured
// from the login redirect. The code is single use: the next
// EnsureValidSession consumes it whether or not redemption succeeds.
func (m *Manager) SetAuthorizationCode(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingCode = code
}

// takePendingCode returns and clears the pending authorization code.
func (m *Manager) takePendingCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	code := m.pendingCode
	m.pendingCode = ""
	return code
}

// =============================================================================
// SESSION CHECK
// =============================================================================

// EnsureValidSession establishes a usable session if any stored or pending
// credential allows it, trying the cheapest path first:
//
//  1. A stored, unexpired id token authenticates with no network I/O.
//  2. A stored refresh token is redeemed via the refresh grant. On failure
//     both tokens are dropped and the check falls through to step 3.
//  3. A pending authorization code (from the login redirect) is redeemed
//     via the code grant. The code is consumed either way.
//
// With nothing to try the answer is NeedsLogin.
func (m *Manager) EnsureValidSession(ctx context.Context) Status {
	if id := m.store.IDToken(); id != "" && !expiredAt(id, m.now()) {
		return StatusAuthenticated
	}

	if rt := m.store.RefreshToken(); rt != "" {
		if err := m.refreshSession(ctx, rt); err != nil {
			// A dead refresh token poisons the session; clear everything
			// so a pending authorization code, or the login page, starts
			// from a clean slate.
			log.Printf("AUTH_REFRESH | outcome=failed err=%v", err)
			m.store.Delete(token.KeyIDToken)
			m.store.Delete(token.KeyRefreshToken)
		} else {
			log.Printf("AUTH_REFRESH | outcome=ok token=%s", fingerprint(m.store.IDToken()))
			return StatusAuthenticated
		}
	}

	if code := m.takePendingCode(); code != "" {
		if err := m.redeemCode(ctx, code); err != nil {
			log.Printf("AUTH_CODE_GRANT | outcome=failed err=%v", err)
			return StatusFailed
		}
		log.Printf("AUTH_CODE_GRANT | outcome=ok token=%s", fingerprint(m.store.IDToken()))
		return StatusAuthenticated
	}

	return StatusNeedsLogin
}

// IDToken returns the stored id token. Callers should run
// EnsureValidSession first; this does no expiry check of its own.
func (m *Manager) IDToken() string {
	return m.store.IDToken()
}

// =============================================================================
// GRANTS
// =============================================================================

// tokenResponse is the token endpoint's JSON answer. Only id_token decides
// success; the rest is stored or displayed opportunistically.
type tokenResponse struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Error        string `json:"error"`
}

// refreshSession runs the refresh grant and stores the resulting tokens.
func (m *Manager) refreshSession(ctx context.Context, refreshToken string) error {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {m.cfg.ClientID},
		"refresh_token": {refreshToken},
	}
	resp, err := m.requestToken(ctx, form)
	if err != nil {
		return err
	}
	return m.storeTokens(resp)
}

// redeemCode runs the authorization code grant and stores the resulting
// tokens. The redirect URI must match the one used on the authorize step.
func (m *Manager) redeemCode(ctx context.Context, code string) error {
	if code == "" {
		return ErrNoAuthorizationCode
	}
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {m.cfg.ClientID},
		"code":         {code},
		"redirect_uri": {m.cfg.RedirectURI},
	}
	resp, err := m.requestToken(ctx, form)
	if err != nil {
		return err
	}
	return m.storeTokens(resp)
}

// requestToken POSTs a form to the token endpoint. A response without an
// id_token is a rejection regardless of status code.
func (m *Manager) requestToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	endpoint := strings.TrimRight(m.cfg.Domain, "/") + tokenPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token endpoint unreachable: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: status %d, non-JSON body", ErrGrantRejected, httpResp.StatusCode)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 || resp.IDToken == "" {
		reason := resp.Error
		if reason == "" {
			reason = "no id_token in response"
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrGrantRejected, httpResp.StatusCode, reason)
	}
	return &resp, nil
}

// storeTokens persists a successful grant. The refresh token is only
// replaced when the endpoint returns one; refresh grants usually do not.
func (m *Manager) storeTokens(resp *tokenResponse) error {
	if err := m.store.Set(token.KeyIDToken, resp.IDToken); err != nil {
		return err
	}
	if resp.RefreshToken != "" {
		if err := m.store.Set(token.KeyRefreshToken, resp.RefreshToken); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HOSTED UI URLS
// =============================================================================

// oauthConfig builds the x/oauth2 config for the hosted UI endpoints.
func (m *Manager) oauthConfig() *oauth2.Config {
	base := strings.TrimRight(m.cfg.Domain, "/")
	return &oauth2.Config{
		ClientID:    m.cfg.ClientID,
		RedirectURL: m.cfg.RedirectURI,
		Scopes:      m.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  base + authorizePath,
			TokenURL: base + tokenPath,
		},
	}
}

// LoginURL returns the hosted login page URL the browser should open.
func (m *Manager) LoginURL() string {
	return m.oauthConfig().AuthCodeURL("")
}

// LogoutURL returns the hosted logout URL. Opening it ends the provider
// session; local tokens are cleared separately by Logout.
func (m *Manager) LogoutURL() string {
	base := strings.TrimRight(m.cfg.Domain, "/")
	q := url.Values{
		"client_id":  {m.cfg.ClientID},
		"logout_uri": {m.cfg.RedirectURI},
	}
	return base + logoutPath + "?" + q.Encode()
}

// Logout drops both stored tokens unconditionally and returns the hosted
// logout URL. The local session dies even if the browser step never runs.
func (m *Manager) Logout() (string, error) {
	if err := m.store.Clear(); err != nil {
		return "", fmt.Errorf("failed to clear session: %w", err)
	}
	log.Printf("AUTH_LOGOUT | session cleared")
	return m.LogoutURL(), nil
}

// =============================================================================
// INSPECTION
// =============================================================================

// SessionInfo describes the stored session without touching the network.
type SessionInfo struct {
	HasIDToken      bool
	IDTokenExpired  bool
	ExpiresAt       time.Time
	HasRefreshToken bool
	Email           string
}

// Inspect reports the state of the stored session for the status command.
func (m *Manager) Inspect() SessionInfo {
	info := SessionInfo{}

	if id := m.store.IDToken(); id != "" {
		info.HasIDToken = true
		info.IDTokenExpired = expiredAt(id, m.now())
		if exp, err := Expiry(id); err == nil {
			info.ExpiresAt = exp
		}
		_, info.Email = Subject(id)
	}
	info.HasRefreshToken = m.store.RefreshToken() != ""
	return info
}

// fingerprint returns a short non-reversible token identifier for logs.
// SECURITY: token values never appear in log output.
func fingerprint(tok string) string {
	if tok == "" {
		return "none"
	}
	sum := sha256.Sum256([]byte(tok))
	return fmt.Sprintf("sha256:%x", sum[:4])
}
