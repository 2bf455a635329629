// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared helpers for the CLI command handlers.
package cli

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/chrisgenai/mongoagent-tui/internal/config"
	"github.com/chrisgenai/mongoagent-tui/internal/token"
)

// loadConfig loads configuration, honoring the --config override.
func loadConfig(args Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFrom(args.ConfigPath)
	}
	return config.Load()
}

// openStore opens the session token store at its configured location.
func openStore() (*token.Store, error) {
	path, err := config.SessionPath()
	if err != nil {
		return nil, err
	}
	return token.Open(path)
}

// openBrowser opens the given URL in the system browser.
// SECURITY: The URL is passed as a single argv element, never through a
// shell.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// fail prints an error and exits with status 1.
func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("[Error]"), fmt.Sprintf(format, a...))
	os.Exit(1)
}
