// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/chrisgenai/mongoagent-tui/internal/auth"
	"github.com/chrisgenai/mongoagent-tui/internal/dispatch"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================
// Custom tea.Msg types flowing through the chat update loop. Workers never
// touch the conversation directly; their results re-enter here.

// DispatchResultMsg delivers the terminal reply for an in-flight request.
type DispatchResultMsg struct {
	// PendingID names the placeholder this reply resolves.
	PendingID string

	// Reply is the terminal agent message payload.
	Reply dispatch.Reply
}

// SessionStatusMsg reports the outcome of a session check.
type SessionStatusMsg struct {
	Status auth.Status
}

// NoticeMsg carries a transient status-bar notice (busy rejection, mode
// toggles).
type NoticeMsg struct {
	Text string
}
