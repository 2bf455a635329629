// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the mongoagent client.
//
// This package contains common helper functions used throughout the
// application for string display and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: terminal-column aware truncation (CJK safe)
//   - PadRight: column-aware padding for aligned output
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
package util
