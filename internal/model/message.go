// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model holds the conversation state shared by the TUI and the
// plain REPL.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
	"github.com/chrisgenai/mongoagent-tui/internal/util"
)

// Sender identifies who authored a message.
type Sender string

const (
	// SenderUser is the human side of the conversation.
	SenderUser Sender = "user"

	// SenderAgent is the movie agent side.
	SenderAgent Sender = "agent"
)

// Message is a single conversation entry.
type Message struct {
	// ID uniquely identifies the message within the conversation.
	ID string

	// Sender is who authored the message.
	Sender Sender

	// Content is the message text. For pending placeholders it is empty;
	// the UI renders a spinner instead.
	Content string

	// Timestamp is when the message was created.
	Timestamp time.Time

	// Pending marks the single in-flight agent placeholder. Pending
	// messages are transcript scaffolding: they are replaced, never
	// resolved in place.
	Pending bool

	// IsCommand marks agent replies to literal curl-style requests.
	IsCommand bool

	// Movies holds search results attached to an agent reply.
	Movies []api.Movie
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(sender Sender, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Preview returns a short single-line summary for logs and list views.
func (m *Message) Preview(maxRunes int) string {
	return util.TruncateRunes(util.FirstLine(m.Content), maxRunes)
}

// IsEmpty reports whether the message has no content and no results.
func (m *Message) IsEmpty() bool {
	return m.Content == "" && len(m.Movies) == 0
}
