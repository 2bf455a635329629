// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// =============================================================================
// SEARCH MODE
// =============================================================================

// Mode holds the three search mode flags. The backend expects each as a
// literal "true"/"false" query parameter on every search request.
type Mode struct {
	Hybrid    bool
	Agent     bool
	Reranking bool
}

// queryValues serializes the flags the way the backend parses them.
func (m Mode) queryValues() url.Values {
	return url.Values{
		"hybrid":    {strconv.FormatBool(m.Hybrid)},
		"agent":     {strconv.FormatBool(m.Agent)},
		"reranking": {strconv.FormatBool(m.Reranking)},
	}
}

// String renders the flags for the status bar, e.g. "hybrid+agent".
func (m Mode) String() string {
	var on []string
	if m.Hybrid {
		on = append(on, "hybrid")
	}
	if m.Agent {
		on = append(on, "agent")
	}
	if m.Reranking {
		on = append(on, "reranking")
	}
	if len(on) == 0 {
		return "plain"
	}
	return strings.Join(on, "+")
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// HistoryEntry is one conversation turn as the backend expects it.
type HistoryEntry struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// SearchRequest is the body of a conversational search call.
type SearchRequest struct {
	UserID  string         `json:"user_id"`
	Request string         `json:"request"`
	History []HistoryEntry `json:"history"`
}

// =============================================================================
// MOVIE RECORDS
// =============================================================================

// Movie is a single search hit. The field set mirrors the backend's movie
// documents; most fields are optional and simply absent for older titles.
type Movie struct {
	ID        string   `json:"_id"`
	Title     string   `json:"title"`
	Year      int      `json:"year"`
	Plot      string   `json:"plot"`
	FullPlot  string   `json:"fullplot"`
	Genres    []string `json:"genres"`
	Runtime   int      `json:"runtime"`
	Cast      []string `json:"cast"`
	Poster    string   `json:"poster"`
	Directors []string `json:"directors"`
	Languages []string `json:"languages"`
	Countries []string `json:"countries"`
	Rated     string   `json:"rated"`
	Awards    Awards   `json:"awards"`
	IMDB      IMDB     `json:"imdb"`
	Tomatoes  Tomatoes `json:"tomatoes"`
	Score     float64  `json:"score"`
}

// Awards carries the printable award summary.
type Awards struct {
	Text string `json:"text"`
}

// IMDB carries the IMDb rating block.
type IMDB struct {
	Rating float64 `json:"rating"`
	Votes  int     `json:"votes"`
}

// Tomatoes carries the Rotten Tomatoes rating blocks.
type Tomatoes struct {
	Viewer TomatoesRating `json:"viewer"`
	Critic TomatoesRating `json:"critic"`
}

// TomatoesRating is one side (viewer or critic) of the tomatoes block.
type TomatoesRating struct {
	Rating float64 `json:"rating"`
	Meter  int     `json:"meter"`
}

// Headline returns "Title (Year)" or just the title when the year is unknown.
func (m *Movie) Headline() string {
	if m.Year > 0 {
		return fmt.Sprintf("%s (%d)", m.Title, m.Year)
	}
	return m.Title
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// SearchResult is a normalized search response: the caption always reads as
// a sentence and Movies is never nil, whatever shape the backend answered
// with.
type SearchResult struct {
	// Caption is the agent's message, or a generic caption when the
	// response carried none.
	Caption string

	// Movies holds the result records. Empty, never nil.
	Movies []Movie

	// Raw holds the verbatim response body when it could not be parsed
	// as JSON. Empty on the normal path.
	Raw string
}

// CommandResult is the outcome of a literal curl-style request, surfaced
// verbatim with its HTTP status.
type CommandResult struct {
	StatusCode int
	Status     string
	Body       string
}

// Summary renders the status line and body for the transcript.
func (r *CommandResult) Summary() string {
	if r.Body == "" {
		return r.Status
	}
	return r.Status + "\n" + r.Body
}
