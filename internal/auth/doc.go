// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth manages the OAuth2 session against the hosted identity
// provider.
//
// The provider is a Cognito-style hosted UI: login happens in the browser,
// the client only ever sees an authorization code on its loopback redirect
// and exchanges it (or a stored refresh token) for an id token at the token
// endpoint. The client is a public client; no secret is involved.
//
// # Session decisions
//
// Everything funnels through Manager.EnsureValidSession, which tries the
// cheapest credential first and answers one of three ways:
//
//   - StatusAuthenticated: a valid id token is in the store
//   - StatusNeedsLogin: the user must go through the hosted login page
//   - StatusFailed: a fresh authorization code was rejected
//
// Expiry checks decode the id token's exp claim locally and are exact; a
// token that cannot be decoded counts as expired. Signature verification is
// deliberately left to the backend, which rejects bad bearers anyway.
package auth
