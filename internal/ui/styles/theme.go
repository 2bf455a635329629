// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the chat surface. It detects the
// terminal's color capability once and reuses the prebuilt styles on every
// render.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Message bubbles
	UserBubble  lipgloss.Style
	AgentBubble lipgloss.Style
	UserLabel   lipgloss.Style
	AgentLabel  lipgloss.Style
	Timestamp   lipgloss.Style
	ErrorText   lipgloss.Style

	// Pending placeholder
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// Movie results
	MovieTitle  lipgloss.Style
	MovieMeta   lipgloss.Style
	MovieRating lipgloss.Style
	MoviePlot   lipgloss.Style
	MovieBox    lipgloss.Style

	// Command output
	CodeBlock lipgloss.Style

	// Chrome
	StatusBar    lipgloss.Style
	StatusAuthOK lipgloss.Style
	StatusAuthNo lipgloss.Style
	StatusMode   lipgloss.Style
	InputPrompt  lipgloss.Style
	Help         lipgloss.Style
}

// New builds a Theme for the named variant ("dark" or "light").
func New(name string) *Theme {
	isDark := name != "light"

	// Render against the requested background rather than guessing.
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}

	t.UserBubble = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.AgentBubble = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	t.UserLabel = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.AgentLabel = lipgloss.NewStyle().Foreground(Green).Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.ErrorText = lipgloss.NewStyle().Foreground(Rose)

	t.Spinner = lipgloss.NewStyle().Foreground(Amber)
	t.ThinkingText = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.MovieTitle = lipgloss.NewStyle().Foreground(Green).Bold(true)
	t.MovieMeta = lipgloss.NewStyle().Foreground(TextMuted)
	t.MovieRating = lipgloss.NewStyle().Foreground(Amber)
	t.MoviePlot = lipgloss.NewStyle().Foreground(Text)
	t.MovieBox = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(GreenDeep).
		PaddingLeft(1)

	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().
		Background(Surface).
		Foreground(TextMuted).
		Padding(0, 1)
	t.StatusAuthOK = lipgloss.NewStyle().Foreground(Green).Bold(true)
	t.StatusAuthNo = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.StatusMode = lipgloss.NewStyle().Foreground(Cyan)

	t.InputPrompt = lipgloss.NewStyle().Foreground(Green).Bold(true)
	t.Help = lipgloss.NewStyle().Foreground(TextMuted)

	return t
}
