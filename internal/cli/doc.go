// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the mongoagent command line surface: argument
// parsing, the login/logout/status commands, and the line-oriented chat
// REPL used when the full-screen TUI is unwanted.
package cli
