// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch routes chat input to the backend and shapes the answer
// into a single terminal agent message.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
	"github.com/chrisgenai/mongoagent-tui/internal/command"
)

// ContactFailureText is the terminal message shown when the backend cannot
// be reached at all.
const ContactFailureText = "Apologies, error trying to contact the AI agent API."

// Reply is the single terminal agent message produced for one utterance.
// Dispatch never returns an error: every failure mode collapses into a
// renderable reply so the conversation always resolves.
type Reply struct {
	// Text is the agent message body.
	Text string

	// Movies holds attached search results. Empty, never nil, on the
	// conversational path; always empty on the command path.
	Movies []api.Movie

	// IsCommand marks replies to literal curl-style requests, which the
	// UI renders as highlighted JSON instead of markdown.
	IsCommand bool

	// AuthExpired flags a rejected bearer so the caller can re-run the
	// session check.
	AuthExpired bool
}

// Engine decides, per utterance, between the literal command path and the
// conversational search path.
type Engine struct {
	client *api.Client
	now    func() time.Time
}

// NewEngine creates an Engine on top of the backend client.
func NewEngine(client *api.Client) *Engine {
	return &Engine{
		client: client,
		now:    time.Now,
	}
}

// WithClock sets a custom time source. Used by tests to pin history
// timestamps.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Dispatch turns one user utterance into one terminal reply.
//
// An utterance starting with the curl keyword runs literally against the
// backend, bypassing the mode flags; everything else is a conversational
// search carrying only the current turn as history. Exactly one reply comes
// back, whatever happens on the wire.
func (e *Engine) Dispatch(ctx context.Context, idToken, utterance string, mode api.Mode) Reply {
	if command.IsCommand(utterance) {
		return e.dispatchCommand(ctx, idToken, utterance)
	}
	return e.dispatchSearch(ctx, idToken, utterance, mode)
}

// dispatchCommand parses and executes a literal request. A malformed
// command is reported back instead of being forwarded to the agent as
// conversation, so typos in a path never leak into search history.
func (e *Engine) dispatchCommand(ctx context.Context, idToken, utterance string) Reply {
	parsed, err := command.Parse(utterance)
	if err != nil {
		return Reply{
			Text:      fmt.Sprintf("Could not parse command: %v", err),
			Movies:    []api.Movie{},
			IsCommand: true,
		}
	}

	result, err := e.client.Do(ctx, idToken, parsed)
	if err != nil {
		log.Printf("DISPATCH_COMMAND | outcome=unreachable err=%v", err)
		return Reply{
			Text:      ContactFailureText,
			Movies:    []api.Movie{},
			IsCommand: true,
		}
	}

	log.Printf("DISPATCH_COMMAND | %s %s status=%d", parsed.Method, parsed.Path, result.StatusCode)
	return Reply{
		Text:        result.Summary(),
		Movies:      []api.Movie{},
		IsCommand:   true,
		AuthExpired: result.StatusCode == 401 || result.StatusCode == 403,
	}
}

// dispatchSearch runs the conversational path. The backend treats every
// request as a fresh exchange, so the history carries only this turn.
func (e *Engine) dispatchSearch(ctx context.Context, idToken, utterance string, mode api.Mode) Reply {
	history := []api.HistoryEntry{{
		Sender:    "user",
		Content:   utterance,
		Timestamp: e.now().UTC().Format(time.RFC3339),
	}}

	result, err := e.client.Search(ctx, idToken, utterance, history, mode)
	if err != nil {
		log.Printf("DISPATCH_SEARCH | outcome=failed err=%v", err)
		return Reply{
			Text:        ContactFailureText,
			Movies:      []api.Movie{},
			AuthExpired: errors.Is(err, api.ErrUnauthorized),
		}
	}

	text := result.Caption
	if result.Raw != "" {
		text = result.Caption + "\n\n" + result.Raw
	}
	return Reply{
		Text:   text,
		Movies: result.Movies,
	}
}
