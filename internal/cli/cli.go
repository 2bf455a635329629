// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for mongoagent.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdLogin
	CmdLogout
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Search mode flags
	Hybrid    bool
	Agent     bool
	Reranking bool

	// MaxResults caps how many movies are rendered per reply.
	MaxResults int

	// ConfigPath overrides the default config file location.
	ConfigPath string

	// NoBrowser suppresses opening the system browser during login.
	NoBrowser bool

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `mongoagent - chat client for the movie search agent

Mongoagent talks to an AI movie-search backend. Ask questions in plain
language, or prefix a line with "curl" to call the backend API directly.

Usage:
  mongoagent                 Start the chat TUI (default)
  mongoagent chat            Interactive chat in the current terminal
  mongoagent login           Sign in through the hosted login page
  mongoagent logout          Clear stored tokens and print the logout URL
  mongoagent status          Show session and configuration status
  mongoagent version         Show version information
  mongoagent help            Show this help

Flags:
  --hybrid                   Enable hybrid search
  --agent                    Enable agentic search
  --reranking                Enable result reranking
  --max-results N            Movies rendered per reply (default 5)
  --config PATH              Use an alternate config file
  --no-browser               Print the login URL instead of opening a browser
  --json                     Machine-readable output where supported
  -q, --quiet                Minimal output
  -v, --verbose              Verbose output

In chat, type /help for the interactive commands.
`

// Parse parses os.Args and returns the command and arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out for tests.
func ParseArgs(argv []string) (Command, Args) {
	parser := NewArgParser(argv)

	args := Args{
		Quiet:      parser.BoolFlag("quiet") || parser.BoolFlag("q"),
		Verbose:    parser.BoolFlag("verbose") || parser.BoolFlag("v"),
		JSON:       parser.BoolFlag("json"),
		Hybrid:     parser.BoolFlag("hybrid"),
		Agent:      parser.BoolFlag("agent"),
		Reranking:  parser.BoolFlag("reranking"),
		MaxResults: parser.FlagIntOrDefault("max-results", 5),
		ConfigPath: parser.Flag("config"),
		NoBrowser:  parser.BoolFlag("no-browser"),
		Raw:        parser.PositionalFrom(1),
	}

	if parser.BoolFlag("help") || parser.BoolFlag("h") {
		return CmdHelp, args
	}
	if parser.BoolFlag("version") || parser.BoolFlag("V") {
		return CmdVersion, args
	}

	switch strings.ToLower(parser.Subcommand()) {
	case "":
		return CmdTUI, args
	case "chat":
		return CmdChat, args
	case "login":
		return CmdLogin, args
	case "logout":
		return CmdLogout, args
	case "status", "s":
		return CmdStatus, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", parser.Subcommand())
		return CmdHelp, args
	}
}

// HandleHelp prints usage information.
func HandleHelp(_ Args) {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf(`{"version":%q,"commit":%q,"built":%q,"go":%q}`+"\n",
			Version, GitCommit, BuildDate, runtime.Version())
		return
	}
	fmt.Printf("mongoagent %s\n", Version)
	if args.Verbose {
		fmt.Printf("  commit: %s\n", GitCommit)
		fmt.Printf("  built:  %s\n", BuildDate)
		fmt.Printf("  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}
}
