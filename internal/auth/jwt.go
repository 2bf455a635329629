// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMalformedToken is returned when a JWT cannot be decoded far
	// enough to read its expiry claim.
	ErrMalformedToken = errors.New("malformed token")
)

// jwtClaims is the subset of the id token payload the client reads.
// Signature verification is the backend's job; the client only needs the
// expiry to decide whether a round trip is worth attempting.
type jwtClaims struct {
	Exp   float64 `json:"exp"`
	Sub   string  `json:"sub"`
	Email string  `json:"email"`
}

// decodeClaims decodes the payload segment of a JWT without verifying it.
func decodeClaims(tok string) (*jwtClaims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var claims jwtClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return &claims, nil
}

// decodeSegment decodes a JWT segment, accepting both base64url (the RFC
// 7515 encoding) and plain base64 with optional padding, which some
// issuers and older tooling still emit.
func decodeSegment(seg string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	if b, err := base64.URLEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(strings.TrimRight(seg, "="))
}

// Expiry returns the token's expiry time.
func Expiry(tok string) (time.Time, error) {
	claims, err := decodeClaims(tok)
	if err != nil {
		return time.Time{}, err
	}
	if claims.Exp == 0 {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}
	sec := int64(claims.Exp)
	nsec := int64((claims.Exp - float64(sec)) * 1e9)
	return time.Unix(sec, nsec), nil
}

// expiredAt reports whether tok is expired at the given instant. The check
// is exact: no leeway is applied in either direction, and a token that
// cannot be decoded counts as expired so it is refreshed rather than sent.
func expiredAt(tok string, at time.Time) bool {
	exp, err := Expiry(tok)
	if err != nil {
		return true
	}
	return !exp.After(at)
}

// Subject returns the sub and email claims for display. Both may be empty.
func Subject(tok string) (sub, email string) {
	claims, err := decodeClaims(tok)
	if err != nil {
		return "", ""
	}
	return claims.Sub, claims.Email
}
