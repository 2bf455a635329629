// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler.
//
// USABILITY: Readline-style input with persistent history
//
// Handles "mongoagent chat", a line-oriented REPL for terminals where
// the full-screen TUI is unwanted (ssh sessions, scripts under script(1),
// narrow panes).
//
// Interactive commands (during chat):
//   /help, /h           Show available commands
//   /mode [flag]        Show or toggle hybrid|agent|reranking
//   /status, /s         Show session status
//   /clear, /c          Clear conversation history
//   /quit, /q           Exit chat
//   Ctrl+C, Ctrl+D      Exit chat
package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
	"github.com/chrisgenai/mongoagent-tui/internal/auth"
	"github.com/chrisgenai/mongoagent-tui/internal/config"
	"github.com/chrisgenai/mongoagent-tui/internal/dispatch"
	"github.com/chrisgenai/mongoagent-tui/internal/model"
	"github.com/chrisgenai/mongoagent-tui/internal/ui/components"
	"github.com/chrisgenai/mongoagent-tui/internal/ui/styles"
	"github.com/chrisgenai/mongoagent-tui/internal/util"
)

// historyFileName is the input history file under the config directory.
const historyFileName = "chat_history"

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.Dir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, historyFileName),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
// SECURITY: Queries can reveal what the user searched for; 0600 like the
// session store.
func (c *ChatCLI) SaveHistory() {
	var buf bytes.Buffer
	if _, err := c.line.WriteHistory(&buf); err != nil {
		return
	}
	_ = util.AtomicWriteFileWithDir(c.historyFile, buf.Bytes(), 0600, 0700)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// chatSession holds the state for one REPL session.
type chatSession struct {
	cfg        *config.Config
	conv       *model.Conversation
	engine     *dispatch.Engine
	auth       *auth.Manager
	mode       api.Mode
	maxResults int
	theme      *styles.Theme
	quiet      bool
	input      *ChatCLI
	started    time.Time
	requests   int
}

// HandleChat runs the line-oriented chat REPL.
func HandleChat(args Args) {
	if !IsTTY() {
		fail("chat needs an interactive terminal")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		fail("load config: %v", err)
	}

	store, err := openStore()
	if err != nil {
		fail("open session store: %v", err)
	}
	defer store.Close()

	mgr := auth.NewManager(cfg.Auth, store)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	status := mgr.EnsureValidSession(ctx)
	cancel()
	if status != auth.StatusAuthenticated {
		fail("not signed in (run: mongoagent login)")
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.UserID)

	session := &chatSession{
		cfg:        cfg,
		conv:       model.New(),
		engine:     dispatch.NewEngine(client),
		auth:       mgr,
		mode:       resolveMode(cfg, args),
		maxResults: args.MaxResults,
		theme:      styles.New(cfg.UI.Theme),
		quiet:      args.Quiet,
		input:      NewChatCLI(),
		started:    time.Now(),
	}
	if session.maxResults <= 0 {
		session.maxResults = cfg.UI.MaxResults
	}
	defer session.input.Close()

	if !session.quiet {
		printWelcome(session)
	}

	runREPL(session)
}

// resolveMode derives the mode flags: CLI flags override config defaults.
func resolveMode(cfg *config.Config, args Args) api.Mode {
	mode := api.Mode{
		Hybrid:    cfg.Search.Hybrid,
		Agent:     cfg.Search.Agent,
		Reranking: cfg.Search.Reranking,
	}
	if args.Hybrid || args.Agent || args.Reranking {
		mode = api.Mode{
			Hybrid:    args.Hybrid,
			Agent:     args.Agent,
			Reranking: args.Reranking,
		}
	}
	return mode
}

// =============================================================================
// REPL LOOP
// =============================================================================

func runREPL(session *chatSession) {
	for {
		input, err := session.input.ReadInput(promptStyle.Render("mongoagent> "))
		if err != nil {
			// Ctrl+C or Ctrl+D, exit gracefully either way.
			fmt.Println()
			printExitSummary(session)
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if !handleSlashCommand(session, input) {
				printExitSummary(session)
				return
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return
		}

		processMessage(session, input)
	}
}

// processMessage dispatches one utterance and renders the reply.
func processMessage(session *chatSession, input string) {
	_, pending, err := session.conv.Submit(input)
	if err != nil {
		// The REPL is synchronous, so this should not happen.
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		return
	}

	timeout := time.Duration(session.cfg.API.TimeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if status := session.auth.EnsureValidSession(ctx); status != auth.StatusAuthenticated {
		session.conv.Cancel()
		fmt.Fprintln(os.Stderr, errorStyle.Render("Session expired.")+
			infoStyle.Render(" Run: mongoagent login"))
		return
	}

	reply := session.engine.Dispatch(ctx, session.auth.IDToken(), input, session.mode)
	session.requests++

	if _, err := session.conv.Resolve(pending.ID, reply.Text, reply.Movies, reply.IsCommand); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		return
	}

	printReply(session, reply)

	if reply.AuthExpired {
		fmt.Fprintln(os.Stderr, warningStyle.Render("The backend rejected the session token.")+
			infoStyle.Render(" Run: mongoagent login"))
	}
}

// printReply renders a terminal reply: command output verbatim with
// highlighting, search replies through markdown plus the movie list.
func printReply(session *chatSession, reply dispatch.Reply) {
	fmt.Println()
	if reply.IsCommand {
		fmt.Println(components.RenderCommandOutput(session.theme, reply.Text))
		fmt.Println()
		return
	}

	fmt.Println(renderMarkdown(reply.Text))
	if list := components.RenderMovieList(session.theme, reply.Movies, session.maxResults); list != "" {
		fmt.Println(list)
	}
	fmt.Println()
}

// renderMarkdown renders agent prose, falling back to plain text.
func renderMarkdown(text string) string {
	width := TerminalWidth(100) - 2
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand handles interactive commands. Returns false when the
// session should end.
func handleSlashCommand(session *chatSession, input string) bool {
	fields := strings.Fields(input)
	command := strings.ToLower(fields[0])

	switch command {
	case "/help", "/h", "/?":
		printChatHelp()

	case "/mode", "/m":
		if len(fields) > 1 {
			toggleMode(session, strings.ToLower(fields[1]))
		}
		fmt.Println(infoStyle.Render("mode: " + session.mode.String()))

	case "/status", "/s":
		info := session.auth.Inspect()
		if info.HasIDToken && !info.IDTokenExpired {
			fmt.Println(successStyle.Render("signed in") +
				infoStyle.Render("  "+info.Email))
		} else {
			fmt.Println(warningStyle.Render("session expired"))
		}
		fmt.Println(infoStyle.Render(fmt.Sprintf("mode: %s · %d requests · %d messages",
			session.mode.String(), session.requests, session.conv.Len())))

	case "/clear", "/c":
		session.conv = model.New()
		fmt.Println(infoStyle.Render("Conversation cleared."))

	case "/quit", "/q", "/exit":
		return false

	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]")+
			" unknown command: "+command+" (type /help for commands)")
	}
	return true
}

// toggleMode flips one mode flag by name.
func toggleMode(session *chatSession, name string) {
	switch name {
	case "hybrid", "h":
		session.mode.Hybrid = !session.mode.Hybrid
	case "agent", "a":
		session.mode.Agent = !session.mode.Agent
	case "reranking", "rerank", "r":
		session.mode.Reranking = !session.mode.Reranking
	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]")+
			" unknown mode flag: "+name+" (hybrid|agent|reranking)")
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

func printWelcome(session *chatSession) {
	fmt.Println(welcomeStyle.Render("mongoagent chat"))
	fmt.Println(infoStyle.Render("Ask about movies, or prefix a line with \"curl\" to call the API directly."))
	fmt.Println(infoStyle.Render("Commands: /help /mode /status /clear /quit"))
	fmt.Println(infoStyle.Render("mode: " + session.mode.String()))
	fmt.Println()
}

func printChatHelp() {
	rows := []struct{ cmd, desc string }{
		{"/help, /h", "Show this help"},
		{"/mode [flag]", "Show mode, or toggle hybrid|agent|reranking"},
		{"/status, /s", "Show session status"},
		{"/clear, /c", "Clear conversation history"},
		{"/quit, /q", "Exit chat"},
	}
	for _, row := range rows {
		fmt.Printf("  %-16s %s\n", row.cmd, infoStyle.Render(row.desc))
	}
}

func printExitSummary(session *chatSession) {
	if session.quiet {
		return
	}
	elapsed := time.Since(session.started).Round(time.Second)
	fmt.Println(infoStyle.Render(fmt.Sprintf("%d requests in %s. Bye.",
		session.requests, elapsed)))
}
