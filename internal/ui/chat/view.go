// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/chrisgenai/mongoagent-tui/internal/model"
	"github.com/chrisgenai/mongoagent-tui/internal/ui/components"
)

// View renders the full chat surface: transcript viewport, input line,
// status bar.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye.\n"
	}
	if !m.ready {
		return "Starting…"
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
}

// renderTranscript renders every message in order.
func (m *Model) renderTranscript() string {
	var b strings.Builder
	for i, msg := range m.conv.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage renders a single transcript entry.
func (m *Model) renderMessage(msg *model.Message) string {
	ts := m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	if msg.Sender == model.SenderUser {
		header := m.theme.UserLabel.Render("You") + " " + ts
		return header + "\n" + m.theme.UserBubble.Width(m.bubbleWidth()).Render(msg.Content)
	}

	header := m.theme.AgentLabel.Render("Agent") + " " + ts

	if msg.Pending {
		body := m.spin.View() + m.theme.ThinkingText.Render(" thinking…")
		return header + "\n" + m.theme.AgentBubble.Width(m.bubbleWidth()).Render(body)
	}

	var body string
	switch {
	case msg.IsCommand:
		body = components.RenderCommandOutput(m.theme, msg.Content)
	default:
		body = m.renderMarkdown(msg.Content)
		if list := components.RenderMovieList(m.theme, msg.Movies, m.maxResults); list != "" {
			body += "\n" + list
		}
	}
	return header + "\n" + m.theme.AgentBubble.Width(m.bubbleWidth()).Render(body)
}

// renderMarkdown renders agent prose through glamour, falling back to the
// raw text when rendering fails.
func (m *Model) renderMarkdown(content string) string {
	width := m.bubbleWidth() - 4
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// bubbleWidth returns the message bubble width for the current terminal.
func (m *Model) bubbleWidth() int {
	w := m.width - 4
	if w < 24 {
		w = 24
	}
	return w
}

// statusBar renders auth state, mode flags and key hints.
func (m *Model) statusBar() string {
	var authPart string
	if m.authOK {
		authPart = m.theme.StatusAuthOK.Render("● signed in")
	} else {
		authPart = m.theme.StatusAuthNo.Render("● login required")
	}

	modePart := m.theme.StatusMode.Render(m.mode.String())

	left := authPart + "  " + modePart
	if m.notice != "" {
		left += "  " + m.theme.Help.Render(m.notice)
	}

	help := m.theme.Help.Render("ctrl+h/a/r modes · pgup/pgdn scroll · ctrl+c quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if gap < 1 {
		return m.theme.StatusBar.Width(m.width).Render(left)
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + help)
}
