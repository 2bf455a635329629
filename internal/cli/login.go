// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - Interactive login command handler.
//
// Handles "mongoagent login": serve the loopback redirect address, send
// the user to the hosted login page, redeem the returned authorization
// code for tokens, and persist them.
//
// Examples:
//   mongoagent login               Open the hosted login page
//   mongoagent login --no-browser  Print the URL instead of opening it
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisgenai/mongoagent-tui/internal/auth"
	"github.com/chrisgenai/mongoagent-tui/internal/server"
)

// loginTimeout bounds how long the login command waits for the hosted
// page to redirect back.
const loginTimeout = 5 * time.Minute

// HandleLogin runs the interactive login flow.
func HandleLogin(args Args) {
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

	// Fast path: an existing session may still be good.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	status := mgr.EnsureValidSession(ctx)
	cancel()
	if status == auth.StatusAuthenticated {
		fmt.Println(successStyle.Render("Already signed in."))
		if info := mgr.Inspect(); info.Email != "" && !args.Quiet {
			fmt.Println(infoStyle.Render("  account: " + info.Email))
		}
		return
	}

	cb, err := server.New(cfg.Auth.RedirectURI)
	if err != nil {
		fail("callback server: %v", err)
	}
	if err := cb.Start(); err != nil {
		fail("callback server: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cb.Shutdown(ctx)
	}()

	loginURL := mgr.LoginURL()
	if args.NoBrowser {
		fmt.Println("Open this URL in your browser to sign in:")
		fmt.Println("  " + loginURL)
	} else {
		fmt.Println(infoStyle.Render("Opening the login page in your browser…"))
		if err := openBrowser(loginURL); err != nil {
			fmt.Println(warningStyle.Render("Could not open a browser. Open this URL manually:"))
			fmt.Println("  " + loginURL)
		}
	}

	code, err := cb.Wait(context.Background(), loginTimeout)
	if err != nil {
		fail("login did not complete: %v", err)
	}

	mgr.SetAuthorizationCode(code)

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	switch mgr.EnsureValidSession(ctx) {
	case auth.StatusAuthenticated:
		fmt.Println(successStyle.Render("Signed in."))
		if info := mgr.Inspect(); info.Email != "" && !args.Quiet {
			fmt.Println(infoStyle.Render("  account: " + info.Email))
		}
	default:
		fail("the authorization code could not be redeemed; try again")
	}
}
