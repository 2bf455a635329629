// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - lipgloss styles shared by the CLI command handlers.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/chrisgenai/mongoagent-tui/internal/ui/styles"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Green).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.GreenDeep).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.Green)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)
