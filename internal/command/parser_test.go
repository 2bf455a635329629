// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package command

import (
	"errors"
	"testing"
)

func TestIsCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain curl", "curl /movies/search", true},
		{"leading whitespace", "   curl /health", true},
		{"keyword is case sensitive", "Curl /health", false},
		{"CURL upper", "CURL /health", false},
		{"conversation", "find me a thriller", false},
		{"curl without space", "curled into a ball", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCommand(tt.input); got != tt.want {
				t.Errorf("IsCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBasics(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{"defaults to GET", "curl /movies/genres", "GET", "/movies/genres", ""},
		{"explicit GET", "curl -X GET /health", "GET", "/health", ""},
		{"lowercase method", "curl -X post /movies/search", "POST", "/movies/search", ""},
		{"lowercase flag", "curl -x delete /sessions/1", "DELETE", "/sessions/1", ""},
		{"leading slash added", "curl health", "GET", "/health", ""},
		{"flag after path", "curl /health -X PUT", "PUT", "/health", ""},
		{
			"single-quoted body",
			`curl -X POST /movies/search -d '{"request":"space movies"}'`,
			"POST", "/movies/search", `{"request":"space movies"}`,
		},
		{
			"double-quoted body",
			`curl -X POST /movies/search --data "{\"limit\": 5}"`,
			"POST", "/movies/search", `{"limit": 5}`,
		},
		{"ignored boolean flag", "curl -s /health", "GET", "/health", ""},
		{"ignored header flag keeps path", "curl -H 'Accept: application/json' /health", "GET", "/health", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", got.Method, tt.wantMethod)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if string(got.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not a command", "hello there", ErrNotCommand},
		{"case mismatch is not a command", "Curl /health", ErrNotCommand},
		{"no path", "curl -X GET", ErrMissingPath},
		{"only flags", "curl -s", ErrMissingPath},
		{"bad method", "curl -X BREW /coffee", ErrBadMethod},
		{"dangling -X", "curl /health -X", ErrBadMethod},
		{"non-json body", "curl -X POST /movies/search -d 'not json'", ErrBadBody},
		{"truncated json body", `curl -X POST /m -d '{"a":'`, ErrBadBody},
		{"dangling -d", "curl /health -d", ErrBadBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseBodyWithSpacesAndEscapes(t *testing.T) {
	got, err := Parse(`curl -X POST /movies/search -d '{"request": "movies about \"space\" travel"}'`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := `{"request": "movies about \"space\" travel"}`
	if string(got.Body) != want {
		t.Errorf("Body = %q, want %q", got.Body, want)
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain tokens", "a b c", []string{"a", "b", "c"}},
		{"single quotes group", "a 'b c' d", []string{"a", "b c", "d"}},
		{"double quotes group", `a "b c"`, []string{"a", "b c"}},
		{"nested quote kinds", `'he said "hi"'`, []string{`he said "hi"`}},
		{"escaped quote", `"say \"hi\""`, []string{`say "hi"`}},
		{"backslash literal in single quotes", `'{"a": "\"b\""}'`, []string{`{"a": "\"b\""}`}},
		{"escaped backslash in double quotes", `"a\\b"`, []string{`a\b`}},
		{"collapsed whitespace", "a    b", []string{"a", "b"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitCommandLine(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitCommandLine(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParsedString(t *testing.T) {
	p := &Parsed{Method: "GET", Path: "/health"}
	if got := p.String(); got != "GET /health" {
		t.Errorf("String() = %q", got)
	}

	p = &Parsed{Method: "POST", Path: "/movies/search", Body: []byte(`{"a":1}`)}
	if got := p.String(); got != `POST /movies/search {"a":1}` {
		t.Errorf("String() = %q", got)
	}
}
