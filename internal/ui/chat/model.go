// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
	"github.com/chrisgenai/mongoagent-tui/internal/auth"
	"github.com/chrisgenai/mongoagent-tui/internal/dispatch"
	"github.com/chrisgenai/mongoagent-tui/internal/model"
	"github.com/chrisgenai/mongoagent-tui/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// dispatchTimeout bounds one request end to end, session check
	// included.
	dispatchTimeout = 90 * time.Second

	// expiredSessionText is the terminal reply when the session cannot be
	// established before a dispatch.
	expiredSessionText = "Your session has expired. Run `mongoagent login` in another terminal, then try again."

	// busyNotice is shown when input is submitted while a request is in
	// flight.
	busyNotice = "Still working on the previous request…"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model for the chat surface. It owns the
// conversation; dispatch results come back as messages and are applied
// here, never from worker goroutines.
type Model struct {
	theme      *styles.Theme
	conv       *model.Conversation
	engine     *dispatch.Engine
	auth       *auth.Manager
	mode       api.Mode
	maxResults int

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	width    int
	height   int
	ready    bool
	authOK   bool
	notice   string
	quitting bool
}

// New creates the chat model.
func New(theme *styles.Theme, engine *dispatch.Engine, authMgr *auth.Manager, mode api.Mode, maxResults int) Model {
	input := textinput.New()
	input.Placeholder = "Ask about movies, or type a curl command…"
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	return Model{
		theme:      theme,
		conv:       model.New(),
		engine:     engine,
		auth:       authMgr,
		mode:       mode,
		maxResults: maxResults,
		input:      input,
		spin:       spin,
	}
}

// Conversation exposes the transcript for tests and the REPL bridge.
func (m *Model) Conversation() *model.Conversation {
	return m.conv
}

// Mode returns the current mode flags.
func (m *Model) Mode() api.Mode {
	return m.mode
}

// Init starts the cursor blink, the spinner and the initial session check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.checkSessionCmd())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update is the single place conversation state changes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			m.conv.Cancel()
			return m, tea.Quit

		case key.Matches(msg, keys.Submit):
			return m.submit()

		case key.Matches(msg, keys.Hybrid):
			m.mode.Hybrid = !m.mode.Hybrid
			m.notice = "mode: " + m.mode.String()

		case key.Matches(msg, keys.Agent):
			m.mode.Agent = !m.mode.Agent
			m.notice = "mode: " + m.mode.String()

		case key.Matches(msg, keys.Reranking):
			m.mode.Reranking = !m.mode.Reranking
			m.notice = "mode: " + m.mode.String()

		case key.Matches(msg, keys.ScrollUp):
			m.viewport.HalfViewUp()

		case key.Matches(msg, keys.ScrollDn):
			m.viewport.HalfViewDown()

		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case DispatchResultMsg:
		if _, err := m.conv.Resolve(msg.PendingID, msg.Reply.Text, msg.Reply.Movies, msg.Reply.IsCommand); err == nil {
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		if msg.Reply.AuthExpired {
			m.authOK = false
			cmds = append(cmds, m.checkSessionCmd())
		}

	case SessionStatusMsg:
		m.authOK = msg.Status == auth.StatusAuthenticated

	case NoticeMsg:
		m.notice = msg.Text

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.conv.Busy() {
			m.refreshViewport()
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit handles the enter key: one pending request at a time, rejected
// loudly rather than queued silently.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	_, pending, err := m.conv.Submit(text)
	if err != nil {
		m.notice = busyNotice
		return m, nil
	}

	m.notice = ""
	m.input.Reset()
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, m.dispatchCmd(pending.ID, text)
}

// dispatchCmd runs the session check and the dispatch off the update loop
// and delivers the terminal reply as a message.
func (m Model) dispatchCmd(pendingID, utterance string) tea.Cmd {
	engine := m.engine
	authMgr := m.auth
	mode := m.mode

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if status := authMgr.EnsureValidSession(ctx); status != auth.StatusAuthenticated {
			return DispatchResultMsg{
				PendingID: pendingID,
				Reply:     dispatch.Reply{Text: expiredSessionText, Movies: []api.Movie{}},
			}
		}

		reply := engine.Dispatch(ctx, authMgr.IDToken(), utterance, mode)
		return DispatchResultMsg{PendingID: pendingID, Reply: reply}
	}
}

// checkSessionCmd refreshes the status-bar auth indicator.
func (m Model) checkSessionCmd() tea.Cmd {
	authMgr := m.auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return SessionStatusMsg{Status: authMgr.EnsureValidSession(ctx)}
	}
}

// layout recomputes component sizes after a resize.
func (m *Model) layout() {
	inputHeight := 1
	statusHeight := 1
	vpHeight := m.height - inputHeight - statusHeight - 1
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 4
}
