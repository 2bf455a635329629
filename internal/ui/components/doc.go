// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable rendering pieces for the mongoagent
// TUI: the movie result list and the highlighted command output block.
// Everything here is pure string rendering; state lives in the chat model.
package components
