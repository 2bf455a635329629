// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the mongoagent
// TUI: an adaptive color palette and a prebuilt Theme of lipgloss styles
// for message bubbles, movie results, the status bar and the input line.
package styles
