// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/chrisgenai/mongoagent-tui/internal/api"
	"github.com/chrisgenai/mongoagent-tui/internal/ui/styles"
	"github.com/chrisgenai/mongoagent-tui/internal/util"
)

// =============================================================================
// MOVIE LIST RENDERER
// =============================================================================

const (
	// plotWidth caps the plot excerpt per entry.
	plotWidth = 76
)

// RenderMovieList renders search results as a compact list under the agent
// caption. maxResults caps the output; the remainder is summarized.
func RenderMovieList(theme *styles.Theme, movies []api.Movie, maxResults int) string {
	if len(movies) == 0 {
		return ""
	}
	if maxResults <= 0 || maxResults > len(movies) {
		maxResults = len(movies)
	}

	var b strings.Builder
	for i, m := range movies[:maxResults] {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.MovieBox.Render(renderMovie(theme, &m)))
		b.WriteString("\n")
	}

	if hidden := len(movies) - maxResults; hidden > 0 {
		b.WriteString(theme.MovieMeta.Render(fmt.Sprintf("… and %d more", hidden)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMovie renders one result entry: headline, metadata line, ratings
// line, plot excerpt. Absent fields simply drop out.
func renderMovie(theme *styles.Theme, m *api.Movie) string {
	var lines []string

	lines = append(lines, theme.MovieTitle.Render(m.Headline()))

	if meta := metaLine(m); meta != "" {
		lines = append(lines, theme.MovieMeta.Render(meta))
	}
	if ratings := ratingsLine(m); ratings != "" {
		lines = append(lines, theme.MovieRating.Render(ratings))
	}
	if m.Plot != "" {
		lines = append(lines, theme.MoviePlot.Render(util.TruncateWidth(m.Plot, plotWidth)))
	}
	if m.Awards.Text != "" {
		lines = append(lines, theme.MovieMeta.Render(m.Awards.Text))
	}
	return strings.Join(lines, "\n")
}

// metaLine builds "Drama, Sci-Fi · 117 min · R · dir. Ridley Scott".
func metaLine(m *api.Movie) string {
	var parts []string
	if len(m.Genres) > 0 {
		parts = append(parts, strings.Join(m.Genres, ", "))
	}
	if m.Runtime > 0 {
		parts = append(parts, fmt.Sprintf("%d min", m.Runtime))
	}
	if m.Rated != "" {
		parts = append(parts, m.Rated)
	}
	if len(m.Directors) > 0 {
		parts = append(parts, "dir. "+strings.Join(m.Directors, ", "))
	}
	return strings.Join(parts, " · ")
}

// ratingsLine builds "IMDb 8.2 (530000 votes) · RT 89%".
func ratingsLine(m *api.Movie) string {
	var parts []string
	if m.IMDB.Rating > 0 {
		if m.IMDB.Votes > 0 {
			parts = append(parts, fmt.Sprintf("IMDb %.1f (%d votes)", m.IMDB.Rating, m.IMDB.Votes))
		} else {
			parts = append(parts, fmt.Sprintf("IMDb %.1f", m.IMDB.Rating))
		}
	}
	if m.Tomatoes.Critic.Meter > 0 {
		parts = append(parts, fmt.Sprintf("RT %d%%", m.Tomatoes.Critic.Meter))
	}
	if m.Score > 0 {
		parts = append(parts, fmt.Sprintf("score %.2f", m.Score))
	}
	return strings.Join(parts, " · ")
}
