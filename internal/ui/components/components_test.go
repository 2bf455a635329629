// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
	"github.com/chrisgenai/mongoagent-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.New("dark")
}

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{"object", `{"a":1,"b":[2,3]}`, true},
		{"array", `[1,2]`, true},
		{"scalar", `42`, true},
		{"not json", "plain text", false},
		{"empty", "", false},
		{"truncated", `{"a":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PrettyJSON(tt.input)
			if ok != tt.wantOK {
				t.Errorf("PrettyJSON(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok && got != tt.input {
				t.Errorf("failed pretty-print must return input unchanged, got %q", got)
			}
		})
	}

	pretty, ok := PrettyJSON(`{"a":{"b":1}}`)
	if !ok || !strings.Contains(pretty, "\n") {
		t.Errorf("expected indented output, got %q", pretty)
	}
}

func TestRenderMovieList(t *testing.T) {
	theme := testTheme()
	movies := []api.Movie{
		{
			ID:        "1",
			Title:     "Blade Runner",
			Year:      1982,
			Genres:    []string{"Sci-Fi"},
			Runtime:   117,
			Rated:     "R",
			Directors: []string{"Ridley Scott"},
			Plot:      "A blade runner must pursue replicants.",
			IMDB:      api.IMDB{Rating: 8.2, Votes: 530000},
			Tomatoes:  api.Tomatoes{Critic: api.TomatoesRating{Meter: 89}},
		},
		{ID: "2", Title: "Alien", Year: 1979},
		{ID: "3", Title: "Arrival", Year: 2016},
	}

	out := RenderMovieList(theme, movies, 2)

	if !strings.Contains(out, "Blade Runner (1982)") {
		t.Errorf("missing headline in %q", out)
	}
	if !strings.Contains(out, "117 min") || !strings.Contains(out, "dir. Ridley Scott") {
		t.Error("missing metadata line")
	}
	if !strings.Contains(out, "IMDb 8.2") || !strings.Contains(out, "RT 89%") {
		t.Error("missing ratings line")
	}
	if strings.Contains(out, "Arrival") {
		t.Error("third result should be hidden by maxResults")
	}
	if !strings.Contains(out, "and 1 more") {
		t.Error("missing hidden-results summary")
	}
}

func TestRenderMovieListEmpty(t *testing.T) {
	if out := RenderMovieList(testTheme(), nil, 5); out != "" {
		t.Errorf("empty input must render nothing, got %q", out)
	}
}

func TestRenderMovieListSparseRecord(t *testing.T) {
	// A record with only a title must not render empty metadata rows.
	out := RenderMovieList(testTheme(), []api.Movie{{ID: "x", Title: "Obscure Short"}}, 5)
	if !strings.Contains(out, "Obscure Short") {
		t.Errorf("missing title in %q", out)
	}
	if strings.Contains(out, "·") {
		t.Errorf("sparse record should have no separator rows, got %q", out)
	}
}

func TestRenderCommandOutput(t *testing.T) {
	theme := testTheme()

	out := RenderCommandOutput(theme, "HTTP 200 OK\n{\"status\":\"ok\"}")
	if !strings.Contains(out, "HTTP 200 OK") {
		t.Errorf("status line missing in %q", out)
	}
	if !strings.Contains(out, "status") {
		t.Errorf("body missing in %q", out)
	}

	// Non-JSON bodies render verbatim.
	out = RenderCommandOutput(theme, "HTTP 502 Bad Gateway\nupstream down")
	if !strings.Contains(out, "upstream down") {
		t.Errorf("raw body missing in %q", out)
	}

	// Status-only results still render.
	out = RenderCommandOutput(theme, "HTTP 204 No Content")
	if !strings.Contains(out, "204") {
		t.Errorf("status missing in %q", out)
	}
}
