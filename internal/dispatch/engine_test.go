// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
)

func newTestEngine(handler http.Handler) (*Engine, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := api.NewClient(srv.URL, "tester@example.com").
		WithHTTPClient(srv.Client()).
		WithRateLimit(1000, 1000).
		WithMaxRetries(0)
	engine := NewEngine(client).WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})
	return engine, srv
}

func TestDispatchSearchPath(t *testing.T) {
	var gotPath string
	var gotHistory []api.HistoryEntry

	engine, srv := newTestEngine(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req api.SearchRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotHistory = req.History

		w.Write([]byte(`{"message":"Found one.","movies":[{"_id":"m1","title":"Dune"}]}`))
	}))
	defer srv.Close()

	reply := engine.Dispatch(context.Background(), "tok", "desert epics", api.Mode{Agent: true})

	if gotPath != "/movies/search" {
		t.Errorf("path = %q", gotPath)
	}
	if reply.Text != "Found one." {
		t.Errorf("Text = %q", reply.Text)
	}
	if len(reply.Movies) != 1 || reply.Movies[0].Title != "Dune" {
		t.Errorf("Movies = %+v", reply.Movies)
	}
	if reply.IsCommand {
		t.Error("search reply must not be marked as command output")
	}

	// History carries exactly the current turn.
	if len(gotHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(gotHistory))
	}
	if gotHistory[0].Sender != "user" || gotHistory[0].Content != "desert epics" {
		t.Errorf("history[0] = %+v", gotHistory[0])
	}
	if gotHistory[0].Timestamp != "2025-06-01T12:00:00Z" {
		t.Errorf("timestamp = %q", gotHistory[0].Timestamp)
	}
}

func TestDispatchCommandPathBypassesModeFlags(t *testing.T) {
	var gotQuery string
	var gotPath string

	engine, srv := newTestEngine(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	reply := engine.Dispatch(context.Background(), "tok", "curl /health", api.Mode{Hybrid: true, Agent: true})

	if gotPath != "/health" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "" {
		t.Errorf("command path must not carry mode flags, got query %q", gotQuery)
	}
	if !reply.IsCommand {
		t.Error("command reply must be marked IsCommand")
	}
	if !strings.Contains(reply.Text, "HTTP 200 OK") || !strings.Contains(reply.Text, `{"status":"ok"}`) {
		t.Errorf("Text = %q", reply.Text)
	}
}

func TestDispatchMalformedCommandNotSentToAgent(t *testing.T) {
	var hits int
	engine, srv := newTestEngine(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	reply := engine.Dispatch(context.Background(), "tok", "curl -X BREW /coffee", api.Mode{})

	if hits != 0 {
		t.Error("malformed command must not reach the backend")
	}
	if !reply.IsCommand || !strings.Contains(reply.Text, "Could not parse command") {
		t.Errorf("reply = %+v", reply)
	}
}

func TestDispatchSearchContactFailure(t *testing.T) {
	// Point the client at a closed server to force a transport error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := api.NewClient(srv.URL, "u").WithRateLimit(1000, 1000)
	srv.Close()
	engine := NewEngine(client)

	reply := engine.Dispatch(context.Background(), "tok", "anything", api.Mode{})

	if reply.Text != ContactFailureText {
		t.Errorf("Text = %q, want contact failure message", reply.Text)
	}
	if reply.Movies == nil || len(reply.Movies) != 0 {
		t.Errorf("Movies = %#v, want empty non-nil slice", reply.Movies)
	}
}

func TestDispatchCommandContactFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := api.NewClient(srv.URL, "u").WithRateLimit(1000, 1000).WithMaxRetries(0)
	srv.Close()
	engine := NewEngine(client)

	reply := engine.Dispatch(context.Background(), "tok", "curl /health", api.Mode{})

	if reply.Text != ContactFailureText {
		t.Errorf("Text = %q", reply.Text)
	}
	if !reply.IsCommand {
		t.Error("IsCommand must survive the failure path")
	}
}

func TestDispatchSearchNonJSONBody(t *testing.T) {
	engine, srv := newTestEngine(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("upstream proxy error"))
	}))
	defer srv.Close()

	reply := engine.Dispatch(context.Background(), "tok", "q", api.Mode{})

	if !strings.Contains(reply.Text, api.ParseFailureNote) {
		t.Errorf("Text = %q, want parse failure note", reply.Text)
	}
	if !strings.Contains(reply.Text, "upstream proxy error") {
		t.Errorf("Text = %q, want raw body included", reply.Text)
	}
}

func TestDispatchUnauthorizedFlagsAuthExpired(t *testing.T) {
	engine, srv := newTestEngine(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	reply := engine.Dispatch(context.Background(), "stale", "q", api.Mode{})
	if !reply.AuthExpired {
		t.Error("401 on search must flag AuthExpired")
	}

	reply = engine.Dispatch(context.Background(), "stale", "curl /health", api.Mode{})
	if !reply.AuthExpired {
		t.Error("401 on command must flag AuthExpired")
	}
}
