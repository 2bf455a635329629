// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// logout.go - Logout command handler.
//
// Handles "mongoagent logout": clear both stored tokens, then print the
// hosted logout URL so the identity provider session can be ended too.
// Local state is cleared no matter what, so a half-finished logout never
// leaves usable tokens behind.
package cli

import (
	"fmt"

	"github.com/chrisgenai/mongoagent-tui/internal/auth"
)

// HandleLogout clears the stored session.
func HandleLogout(args Args) {
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

	logoutURL, err := mgr.Logout()
	if err != nil {
		fail("clear session: %v", err)
	}

	fmt.Println(successStyle.Render("Signed out. Local tokens cleared."))
	if !args.Quiet {
		fmt.Println(infoStyle.Render("To end the hosted session too, open:"))
		fmt.Println("  " + logoutURL)
	}

	if !args.NoBrowser && IsTTY() {
		// Best effort; the local session is already gone.
		_ = openBrowser(logoutURL)
	}
}
