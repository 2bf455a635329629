// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command handler.
//
// Handles "mongoagent status": session state, configured endpoints and
// the default search mode flags. Never prints token material.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
	"github.com/chrisgenai/mongoagent-tui/internal/auth"
	"github.com/chrisgenai/mongoagent-tui/internal/config"
)

// statusReport is the machine-readable form of the status output.
type statusReport struct {
	SignedIn        bool   `json:"signed_in"`
	TokenExpired    bool   `json:"token_expired,omitempty"`
	ExpiresAt       string `json:"expires_at,omitempty"`
	Account         string `json:"account,omitempty"`
	HasRefreshToken bool   `json:"has_refresh_token"`
	Backend         string `json:"backend"`
	AuthDomain      string `json:"auth_domain"`
	Mode            string `json:"mode"`
	ConfigPath      string `json:"config_path,omitempty"`
}

// HandleStatus prints session and configuration status.
func HandleStatus(args Args) {
	cfg, err := loadConfig(args)
	if err != nil {
		fail("load config: %v", err)
	}

	store, err := openStore()
	if err != nil {
		fail("open session store: %v", err)
	}
	defer store.Close()

	info := auth.NewManager(cfg.Auth, store).Inspect()

	mode := api.Mode{
		Hybrid:    cfg.Search.Hybrid,
		Agent:     cfg.Search.Agent,
		Reranking: cfg.Search.Reranking,
	}

	report := statusReport{
		SignedIn:        info.HasIDToken && !info.IDTokenExpired,
		TokenExpired:    info.HasIDToken && info.IDTokenExpired,
		Account:         info.Email,
		HasRefreshToken: info.HasRefreshToken,
		Backend:         cfg.API.BaseURL,
		AuthDomain:      cfg.Auth.Domain,
		Mode:            mode.String(),
	}
	if !info.ExpiresAt.IsZero() {
		report.ExpiresAt = info.ExpiresAt.UTC().Format(time.RFC3339)
	}
	if p, err := config.Path(); err == nil {
		report.ConfigPath = p
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fail("encode status: %v", err)
		}
		return
	}

	fmt.Println(welcomeStyle.Render("mongoagent status"))
	fmt.Println()

	switch {
	case report.SignedIn:
		fmt.Println("  session:  " + successStyle.Render("signed in"))
		if report.Account != "" {
			fmt.Println("  account:  " + report.Account)
		}
		if report.ExpiresAt != "" {
			fmt.Println("  expires:  " + report.ExpiresAt)
		}
	case report.TokenExpired && report.HasRefreshToken:
		fmt.Println("  session:  " + warningStyle.Render("expired (refresh available)"))
	default:
		fmt.Println("  session:  " + errorStyle.Render("signed out") +
			infoStyle.Render("  (run: mongoagent login)"))
	}

	fmt.Println("  backend:  " + report.Backend)
	fmt.Println("  auth:     " + report.AuthDomain)
	fmt.Println("  mode:     " + report.Mode)
	if report.ConfigPath != "" && args.Verbose {
		fmt.Println("  config:   " + report.ConfigPath)
	}
}
