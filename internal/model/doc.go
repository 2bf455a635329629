// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model holds the conversation transcript and its pending-request
// state machine.
//
// Submitting an utterance appends the user message together with one
// pending agent placeholder and marks the conversation busy; the UI shows a
// spinner on the placeholder while the dispatch runs. Resolution swaps the
// placeholder for the terminal agent message atomically, so the transcript
// never shows a resolved answer alongside its own placeholder. While busy,
// new submissions are rejected rather than queued.
package model
