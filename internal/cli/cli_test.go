// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/chrisgenai/mongoagent-tui/internal/config"
)

func TestParseArgsRouting(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"no args is tui", []string{}, CmdTUI},
		{"chat", []string{"chat"}, CmdChat},
		{"login", []string{"login"}, CmdLogin},
		{"logout", []string{"logout"}, CmdLogout},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"--help"}, CmdHelp},
		{"unknown falls back to help", []string{"frobnicate"}, CmdHelp},
		{"case insensitive", []string{"CHAT"}, CmdChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ParseArgs(tt.argv)
			if got != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, got, tt.want)
			}
		})
	}
}

func TestParseArgsFlags(t *testing.T) {
	_, args := ParseArgs([]string{"chat", "--hybrid", "--reranking", "--max-results", "10", "-q"})

	if !args.Hybrid {
		t.Error("Hybrid should be set")
	}
	if args.Agent {
		t.Error("Agent should not be set")
	}
	if !args.Reranking {
		t.Error("Reranking should be set")
	}
	if args.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want 10", args.MaxResults)
	}
	if !args.Quiet {
		t.Error("Quiet should be set")
	}
}

func TestParseArgsConfigOverride(t *testing.T) {
	_, args := ParseArgs([]string{"status", "--config=/tmp/alt.toml", "--json"})

	if args.ConfigPath != "/tmp/alt.toml" {
		t.Errorf("ConfigPath = %q", args.ConfigPath)
	}
	if !args.JSON {
		t.Error("JSON should be set")
	}
}

func TestArgParserFormats(t *testing.T) {
	p := NewArgParser([]string{"chat", "--max-results=7", "--hybrid", "--agent=false", "extra"})

	if p.Subcommand() != "chat" {
		t.Errorf("Subcommand() = %q", p.Subcommand())
	}
	if got := p.FlagIntOrDefault("max-results", 5); got != 7 {
		t.Errorf("FlagIntOrDefault = %d, want 7", got)
	}
	if !p.BoolFlag("hybrid") {
		t.Error("hybrid should be true")
	}
	if p.BoolFlag("agent") {
		t.Error("agent=false should parse as false")
	}
	if p.Positional(1) != "extra" {
		t.Errorf("Positional(1) = %q", p.Positional(1))
	}
}

func TestArgParserBooleanFlagKeepsPositional(t *testing.T) {
	// Flags without registered values must not swallow the next word.
	p := NewArgParser([]string{"--hybrid", "chat"})

	if !p.BoolFlag("hybrid") {
		t.Error("hybrid should be true")
	}
	if p.Subcommand() != "chat" {
		t.Errorf("Subcommand() = %q, want chat", p.Subcommand())
	}
}

func TestArgParserDefaults(t *testing.T) {
	p := NewArgParser(nil)

	if p.Subcommand() != "" {
		t.Errorf("Subcommand() = %q, want empty", p.Subcommand())
	}
	if got := p.FlagOrDefault("config", "fallback"); got != "fallback" {
		t.Errorf("FlagOrDefault = %q", got)
	}
	if got := p.FlagIntOrDefault("max-results", 5); got != 5 {
		t.Errorf("FlagIntOrDefault = %d, want 5", got)
	}
	if len(p.PositionalFrom(0)) != 0 {
		t.Error("PositionalFrom(0) should be empty")
	}
}

func TestResolveModeOverrides(t *testing.T) {
	cfg := configWithModes(true, true, true)

	// No CLI flags: config defaults win.
	mode := resolveMode(cfg, Args{})
	if !mode.Hybrid || !mode.Agent || !mode.Reranking {
		t.Errorf("mode = %+v, want config defaults", mode)
	}

	// Any CLI flag replaces the whole set.
	mode = resolveMode(cfg, Args{Hybrid: true})
	if !mode.Hybrid || mode.Agent || mode.Reranking {
		t.Errorf("mode = %+v, want hybrid only", mode)
	}
}

func configWithModes(hybrid, agent, reranking bool) *config.Config {
	cfg := config.Default()
	cfg.Search.Hybrid = hybrid
	cfg.Search.Agent = agent
	cfg.Search.Reranking = reranking
	return cfg
}
