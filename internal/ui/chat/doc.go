// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive bubbletea chat surface: a
// scrollable transcript viewport, a single-line prompt, and a status
// bar showing session state and the active search mode flags.
//
// The model owns a model.Conversation and drives dispatch.Engine from
// tea.Cmd goroutines; all transcript mutation happens on the update
// loop, so the conversation needs no locking.
package chat
