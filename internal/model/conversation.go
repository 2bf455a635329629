// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// MaxMessages caps the transcript length. Older messages are pruned
	// from the front; the welcome message goes with them eventually.
	MaxMessages = 1000

	// WelcomeText opens every conversation.
	WelcomeText = "Hello! Ask me anything about movies. Prefix a line with `curl` to call the backend API directly."
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBusy is returned when a submission arrives while a request is
	// already in flight. Backpressure is one: the caller waits, the
	// in-flight request is never abandoned.
	ErrBusy = errors.New("a request is already in flight")

	// ErrNoPending is returned when a resolution names a placeholder that
	// does not exist (already resolved, or never created).
	ErrNoPending = errors.New("no matching pending message")
)

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is the ordered transcript plus the pending-request state
// machine. It is owned by a single goroutine (the bubbletea update loop or
// the REPL loop) and is deliberately unsynchronized; results produced on
// worker goroutines re-enter through that owner.
//
// Invariants:
//   - at most one pending placeholder exists at any time
//   - the placeholder is always the last message while it exists
//   - resolving removes the placeholder and appends the terminal message
//     in one step, so no observer ever sees both or neither
type Conversation struct {
	ID        string
	CreatedAt time.Time
	Messages  []*Message

	pendingID string
}

// New creates a conversation opened by the agent welcome message.
func New() *Conversation {
	welcome := NewMessage(SenderAgent, WelcomeText)
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Messages:  []*Message{welcome},
	}
}

// Busy reports whether a request is in flight.
func (c *Conversation) Busy() bool {
	return c.pendingID != ""
}

// PendingID returns the in-flight placeholder ID, or "".
func (c *Conversation) PendingID() string {
	return c.pendingID
}

// Len returns the number of messages, pending placeholder included.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// =============================================================================
// STATE TRANSITIONS
// =============================================================================

// Submit appends the user message and the pending agent placeholder in one
// step and marks the conversation busy. While busy, further submissions are
// rejected with ErrBusy.
func (c *Conversation) Submit(content string) (user, pending *Message, err error) {
	if c.Busy() {
		return nil, nil, ErrBusy
	}

	user = NewMessage(SenderUser, content)
	pending = NewMessage(SenderAgent, "")
	pending.Pending = true

	c.Messages = append(c.Messages, user, pending)
	c.pendingID = pending.ID
	c.prune()
	return user, pending, nil
}

// Resolve replaces the pending placeholder with the terminal agent message
// in one step: remove placeholder, append terminal, clear busy. The
// pendingID must match the in-flight placeholder, which guards against a
// stale worker resolving a conversation that has moved on.
func (c *Conversation) Resolve(pendingID string, text string, movies []api.Movie, isCommand bool) (*Message, error) {
	if c.pendingID == "" || c.pendingID != pendingID {
		return nil, ErrNoPending
	}

	terminal := NewMessage(SenderAgent, text)
	terminal.Movies = movies
	terminal.IsCommand = isCommand

	kept := c.Messages[:0]
	for _, m := range c.Messages {
		if m.ID != pendingID {
			kept = append(kept, m)
		}
	}
	c.Messages = append(kept, terminal)
	c.pendingID = ""
	return terminal, nil
}

// Cancel drops the pending placeholder without appending a terminal
// message. Used when the user quits mid-request.
func (c *Conversation) Cancel() {
	if c.pendingID == "" {
		return
	}
	kept := c.Messages[:0]
	for _, m := range c.Messages {
		if m.ID != c.pendingID {
			kept = append(kept, m)
		}
	}
	c.Messages = kept
	c.pendingID = ""
}

// prune drops the oldest messages beyond MaxMessages. The pending
// placeholder is always among the newest, so it survives by construction.
func (c *Conversation) prune() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	drop := len(c.Messages) - MaxMessages
	c.Messages = append([]*Message(nil), c.Messages[drop:]...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// GetMessageByID returns the message with the given ID, or nil.
func (c *Conversation) GetMessageByID(id string) *Message {
	for _, m := range c.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Terminal returns the messages without the pending placeholder, in order.
func (c *Conversation) Terminal() []*Message {
	out := make([]*Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if !m.Pending {
			out = append(out, m)
		}
	}
	return out
}

// LastAgentMessage returns the newest non-pending agent message, or nil.
func (c *Conversation) LastAgentMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if m := c.Messages[i]; m.Sender == SenderAgent && !m.Pending {
			return m
		}
	}
	return nil
}
