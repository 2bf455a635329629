// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates the mongoagent client configuration.
//
// Configuration lives at ~/.mongoagent/config.toml. A missing file yields
// the stock hosted-deployment defaults, so the client works out of the box.
// MONGOAGENT_* environment variables override individual file values, which
// keeps scripted and CI use free of config file management:
//
//	MONGOAGENT_AUTH_DOMAIN   identity provider base URL
//	MONGOAGENT_CLIENT_ID     OAuth2 public client id
//	MONGOAGENT_REDIRECT_URI  login callback address
//	MONGOAGENT_API_URL       backend base URL
//	MONGOAGENT_USER_ID       caller identity for search requests
//	MONGOAGENT_TIMEOUT_SECS  per-request timeout
//	MONGOAGENT_HYBRID        default hybrid-retrieval flag
//	MONGOAGENT_AGENT         default agent-routing flag
//	MONGOAGENT_RERANKING     default reranking flag
//
// The load pipeline is DecodeFile -> fillDefaults -> applyEnvOverrides ->
// Validate; callers always receive a complete, validated Config.
package config
