// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the movie agent backend.
//
// Two call shapes exist. Search posts a conversational request to
// /movies/search with the hybrid/agent/reranking mode flags as query
// parameters, and normalizes whatever comes back so the UI always has a
// caption and a non-nil movie slice. Do executes a literal curl-style
// command typed by the user and surfaces the response verbatim with its
// HTTP status, which makes the chat prompt double as a poor man's API
// console.
//
// All requests carry the bearer id token, go through a shared pooled
// transport (TLS 1.2 minimum), are rate limited client-side, and read at
// most 10MB of response body. Conversational searches are never retried;
// literal GET commands get an exponential-backoff retry budget.
package api
