// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package command parses curl-style requests typed into the chat prompt.
package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotCommand is returned when the input does not start with the
	// curl keyword. Callers treat such input as a conversational message.
	ErrNotCommand = errors.New("not a curl command")

	// ErrMissingPath is returned when no request path token is present.
	ErrMissingPath = errors.New("missing request path")

	// ErrBadMethod is returned for a -X value outside the supported set.
	ErrBadMethod = errors.New("unsupported HTTP method")

	// ErrBadBody is returned when the -d/--data value is not valid JSON.
	ErrBadBody = errors.New("request body is not valid JSON")
)

// commandPrefix is the literal, case-sensitive keyword that marks a chat
// message as a backend request.
const commandPrefix = "curl "

// validMethods is the supported method set for the -X flag.
var validMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
	"PATCH":  true,
}

// =============================================================================
// PARSED COMMAND
// =============================================================================

// Parsed is a curl-style request ready for dispatch.
type Parsed struct {
	// Method is an upper-cased HTTP method. Defaults to GET.
	Method string

	// Path is the backend request path with a leading slash.
	Path string

	// Body is the validated JSON body from -d/--data, nil when absent.
	Body json.RawMessage
}

// String renders the command for transcript display.
func (p *Parsed) String() string {
	if len(p.Body) > 0 {
		return fmt.Sprintf("%s %s %s", p.Method, p.Path, p.Body)
	}
	return fmt.Sprintf("%s %s", p.Method, p.Path)
}

// =============================================================================
// PARSING
// =============================================================================

// IsCommand reports whether input is addressed to the parser. The keyword
// match is case sensitive, mirroring a real shell: "Curl" is conversation,
// "curl" is a command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), commandPrefix)
}

// Parse turns a chat line into a Parsed request.
//
// Recognized pieces, in any order after the keyword:
//
//	-X METHOD      method, matched case-insensitively (GET default)
//	-d / --data V  JSON body; quoting follows shell rules
//	PATH           first token that is not a flag or a flag value
//
// Other curl flags (-H, -s, ...) are tolerated and ignored so that
// commands pasted from API docs still work. A missing path or a body that
// is not valid JSON fails the parse.
func Parse(input string) (*Parsed, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, commandPrefix) {
		return nil, ErrNotCommand
	}

	tokens := splitCommandLine(trimmed[len(commandPrefix):])

	parsed := &Parsed{Method: "GET"}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok == "-X" || tok == "-x":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("%w: -X needs a value", ErrBadMethod)
			}
			method := strings.ToUpper(tokens[i+1])
			if !validMethods[method] {
				return nil, fmt.Errorf("%w: %q", ErrBadMethod, tokens[i+1])
			}
			parsed.Method = method
			i++

		case tok == "-d" || tok == "--data":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("%w: %s needs a value", ErrBadBody, tok)
			}
			raw := tokens[i+1]
			if !json.Valid([]byte(raw)) {
				return nil, fmt.Errorf("%w: %s", ErrBadBody, raw)
			}
			parsed.Body = json.RawMessage(raw)
			i++

		case strings.HasPrefix(tok, "-"):
			// Unknown flag: skip it, and skip its value if it has one.
			if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && flagTakesValue(tok) {
				i++
			}

		default:
			if parsed.Path == "" {
				parsed.Path = tok
			}
			// Extra positional tokens are ignored, as curl itself would
			// treat them as additional URLs.
		}
	}

	if parsed.Path == "" {
		return nil, ErrMissingPath
	}
	if !strings.HasPrefix(parsed.Path, "/") {
		parsed.Path = "/" + parsed.Path
	}

	return parsed, nil
}

// valueFlags lists skipped flags that consume the next token. Bare boolean
// flags like -s or -v must not swallow the path.
var valueFlags = map[string]bool{
	"-H": true, "--header": true,
	"-u": true, "--user": true,
	"-A": true, "--user-agent": true,
	"-o": true, "--output": true,
}

// flagTakesValue reports whether a skipped flag takes a value.
func flagTakesValue(flag string) bool {
	return valueFlags[flag]
}

// =============================================================================
// TOKENIZER
// =============================================================================

// splitCommandLine splits input into tokens, honoring single quotes, double
// quotes and backslash escapes inside double quotes. Inside single quotes a
// backslash is a literal character, shell-style, so a single-quoted JSON
// body keeps its escape sequences intact. JSON bodies arrive as single
// tokens regardless of embedded spaces.
func splitCommandLine(input string) []string {
	var tokens []string
	var current strings.Builder
	var inSingleQuote, inDoubleQuote bool

	for i := 0; i < len(input); i++ {
		char := rune(input[i])

		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote

		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote

		case char == '\\' && i+1 < len(input) && inDoubleQuote:
			next := rune(input[i+1])
			if next == '"' || next == '\\' {
				current.WriteRune(next)
				i++
			} else {
				current.WriteRune(char)
			}

		case unicode.IsSpace(char) && !inSingleQuote && !inDoubleQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
