// mongoagent - terminal chat client for the movie search agent.
//
// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
	"github.com/chrisgenai/mongoagent-tui/internal/auth"
	"github.com/chrisgenai/mongoagent-tui/internal/cli"
	"github.com/chrisgenai/mongoagent-tui/internal/config"
	"github.com/chrisgenai/mongoagent-tui/internal/dispatch"
	"github.com/chrisgenai/mongoagent-tui/internal/token"
	"github.com/chrisgenai/mongoagent-tui/internal/ui/chat"
	"github.com/chrisgenai/mongoagent-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdLogin:
		cli.HandleLogin(args)
	case cli.CmdLogout:
		cli.HandleLogout(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp(args)
	}
}

// runTUI starts the full-screen chat interface.
func runTUI(args cli.Args) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFrom(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}

	sessionPath, err := config.SessionPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := token.Open(sessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	mgr := auth.NewManager(cfg.Auth, store)
	client := api.NewClient(cfg.API.BaseURL, cfg.API.UserID)
	engine := dispatch.NewEngine(client)

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

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = cfg.UI.MaxResults
	}

	theme := styles.New(cfg.UI.Theme)
	m := chat.New(theme, engine, mgr, mode, maxResults)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
