// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the mongoagent TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Green - brand color, agent messages, success states
var Green = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// GreenDeep - darker green for backgrounds
var GreenDeep = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#064E3B"}

// Cyan - user highlights, commands, links
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Amber - ratings, warnings, pending states
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Rose - errors, auth failures
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// =============================================================================
// NEUTRAL COLORS
// =============================================================================

// Text - primary text
var Text = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}

// TextMuted - secondary text, timestamps, metadata
var TextMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

// Surface - panel backgrounds
var Surface = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}

// SurfaceDim - code block backgrounds
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#111827"}

// Border - panel and bubble borders
var Border = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
