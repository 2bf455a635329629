// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the mongoagent TUI.
package components

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/chrisgenai/mongoagent-tui/internal/ui/styles"
)

// =============================================================================
// COMMAND OUTPUT RENDERER
// =============================================================================

// RenderCommandOutput renders a literal command reply: the HTTP status line
// as-is, the body pretty-printed and syntax highlighted when it is JSON.
func RenderCommandOutput(theme *styles.Theme, text string) string {
	status, body, found := strings.Cut(text, "\n")
	if !found {
		return theme.CodeBlock.Render(text)
	}

	rendered := body
	if pretty, ok := PrettyJSON(body); ok {
		rendered = highlightJSON(pretty)
	}
	return status + "\n" + theme.CodeBlock.Render(rendered)
}

// PrettyJSON re-indents a JSON document. The second return is false when
// the input is not JSON, in which case the caller should show it verbatim.
func PrettyJSON(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return s, false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "  "); err != nil {
		return s, false
	}
	return buf.String(), true
}

// highlightJSON applies ANSI syntax highlighting via chroma. On any
// failure the plain text comes back unchanged.
func highlightJSON(code string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
