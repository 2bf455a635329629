// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server runs the loopback HTTP listener that receives the OAuth
// authorization code redirect during interactive login.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultWaitTimeout bounds how long the login command waits for the
	// user to finish the hosted login page.
	DefaultWaitTimeout = 5 * time.Minute

	// readHeaderTimeout guards against slowloris-style clients. Only the
	// browser on this machine should ever connect, but the listener is a
	// real TCP socket all the same.
	readHeaderTimeout = 10 * time.Second
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrTimeout is returned when no redirect arrives in time.
	ErrTimeout = errors.New("timed out waiting for login redirect")

	// ErrDenied is returned when the provider redirects with an error,
	// e.g. the user cancelled the hosted login page.
	ErrDenied = errors.New("login denied by identity provider")
)

// =============================================================================
// CALLBACK SERVER
// =============================================================================

// CallbackServer is a single-shot HTTP server bound to the redirect URI.
// It exists to catch one request: the provider's redirect carrying either
// an authorization code or an error.
type CallbackServer struct {
	addr string
	path string

	server *http.Server
	codeCh chan string
	errCh  chan error
}

// New creates a CallbackServer for the given redirect URI. The URI must be
// a loopback http address such as http://localhost:8675/callback.
func New(redirectURI string) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect URI must be http for a loopback listener, got %q", redirectURI)
	}
	host := u.Hostname()
	if host != "localhost" && host != "127.0.0.1" && host != "::1" {
		return nil, fmt.Errorf("redirect URI must point at loopback, got host %q", host)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return &CallbackServer{
		addr:   net.JoinHostPort(host, u.Port()),
		path:   path,
		codeCh: make(chan string, 1),
		errCh:  make(chan error, 1),
	}, nil
}

// Start binds the listener and begins serving. It returns once the socket
// is bound, so the caller can open the browser without racing the server.
func (s *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errCh <- err:
			default:
			}
		}
	}()

	log.Printf("CALLBACK_LISTEN | addr=%s path=%s", s.addr, s.path)
	return nil
}

// handleCallback processes the single provider redirect.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errCode := q.Get("error"); errCode != "" {
		desc := q.Get("error_description")
		writePage(w, "Login failed", "You can close this window and return to the terminal.")
		select {
		case s.errCh <- fmt.Errorf("%w: %s %s", ErrDenied, errCode, desc):
		default:
		}
		return
	}

	code := q.Get("code")
	if code == "" {
		// Favicon probes and the like: not the redirect we are waiting for.
		http.NotFound(w, r)
		return
	}

	writePage(w, "Login complete", "You can close this window and return to the terminal.")
	select {
	case s.codeCh <- code:
	default:
	}
}

// Wait blocks until the redirect delivers a code, the provider reports an
// error, the timeout passes, or ctx is cancelled.
func (s *CallbackServer) Wait(ctx context.Context, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case code := <-s.codeCh:
		return code, nil
	case err := <-s.errCh:
		return "", err
	case <-timer.C:
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Shutdown stops the listener.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// writePage renders the minimal post-login page shown in the browser.
func writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// SECURITY: the page is static; nothing from the request is echoed.
	w.Header().Set("X-Content-Type-Options", "nosniff")
	fmt.Fprintf(w, "<html><head><title>%s</title></head><body><h2>%s</h2><p>%s</p></body></html>", title, title, body)
}
