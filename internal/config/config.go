// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates the mongoagent client configuration.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// ConfigDirName is the directory under the user home that holds the
	// config file and the session database.
	ConfigDirName = ".mongoagent"

	// ConfigFileName is the TOML config file name inside ConfigDirName.
	ConfigFileName = "config.toml"

	// SessionFileName is the SQLite session store inside ConfigDirName.
	SessionFileName = "session.db"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "MONGOAGENT_"

	// DefaultTimeoutSecs is the default per-request timeout for backend calls.
	DefaultTimeoutSecs = 60
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the root configuration for the mongoagent client.
type Config struct {
	// Auth configures the hosted identity provider.
	Auth AuthConfig `toml:"auth"`

	// API configures the movie agent backend.
	API APIConfig `toml:"api"`

	// Search holds the default search mode flags.
	Search SearchConfig `toml:"search"`

	// UI holds terminal presentation settings.
	UI UIConfig `toml:"ui"`
}

// AuthConfig configures the OIDC hosted UI and token endpoint.
type AuthConfig struct {
	// Domain is the identity provider base URL, e.g.
	// https://auth.mongoagent.com. The authorize, token and logout
	// endpoints are derived from it.
	Domain string `toml:"domain"`

	// ClientID is the public OAuth2 client id. The hosted client is a
	// public client; there is no secret.
	ClientID string `toml:"client_id"`

	// RedirectURI is where the hosted UI sends the authorization code.
	// For the CLI this is a loopback address served by the login command.
	RedirectURI string `toml:"redirect_uri"`

	// Scopes requested on the authorize redirect.
	Scopes []string `toml:"scopes"`
}

// APIConfig configures the movie agent backend API.
type APIConfig struct {
	// BaseURL is the backend base URL, e.g. https://api.mongoagent.com.
	BaseURL string `toml:"base_url"`

	// UserID identifies the caller in search requests.
	UserID string `toml:"user_id"`

	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// SearchConfig holds the default search mode flags. All three can be
// toggled at runtime in the TUI.
type SearchConfig struct {
	// Hybrid enables hybrid (vector + text) retrieval.
	Hybrid bool `toml:"hybrid"`

	// Agent routes the request through the conversational agent.
	Agent bool `toml:"agent"`

	// Reranking enables result reranking.
	Reranking bool `toml:"reranking"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	// Theme selects the color theme ("dark" or "light").
	Theme string `toml:"theme"`

	// MaxResults caps how many movie records are rendered per reply.
	MaxResults int `toml:"max_results"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config populated with the stock hosted deployment.
func Default() *Config {
	return &Config{
		Auth: AuthConfig{
			Domain:      "https://auth.mongoagent.com",
			ClientID:    "2fvd6tbv3a46rlu3shr14oj93b",
			RedirectURI: "http://localhost:8675/callback",
			Scopes:      []string{"openid", "email", "profile"},
		},
		API: APIConfig{
			BaseURL:     "https://api.mongoagent.com",
			UserID:      "demo.user@mongoagent.com",
			TimeoutSecs: DefaultTimeoutSecs,
		},
		Search: SearchConfig{
			Hybrid:    true,
			Agent:     true,
			Reranking: true,
		},
		UI: UIConfig{
			Theme:      "dark",
			MaxResults: 10,
		},
	}
}

// fillDefaults fills zero-valued fields from the defaults so that a partial
// config file still yields a usable configuration.
func (c *Config) fillDefaults() {
	def := Default()

	if c.Auth.Domain == "" {
		c.Auth.Domain = def.Auth.Domain
	}
	if c.Auth.ClientID == "" {
		c.Auth.ClientID = def.Auth.ClientID
	}
	if c.Auth.RedirectURI == "" {
		c.Auth.RedirectURI = def.Auth.RedirectURI
	}
	if len(c.Auth.Scopes) == 0 {
		c.Auth.Scopes = def.Auth.Scopes
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.UserID == "" {
		c.API.UserID = def.API.UserID
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.UI.MaxResults <= 0 {
		c.UI.MaxResults = def.UI.MaxResults
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the mongoagent config directory (~/.mongoagent).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// Path returns the config file path (~/.mongoagent/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// SessionPath returns the SQLite session store path
// (~/.mongoagent/session.db).
func SessionPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SessionFileName), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file from the default location, falling back to the
// stock defaults when no file exists. Environment overrides are applied
// after the file is read, and the result is validated.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path. A missing file is not
// an error; defaults are used instead.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		ensureSecurePermissions(path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.fillDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ensureSecurePermissions tightens the config file mode to 0600. The file
// does not hold tokens, but it names the account and deployment endpoints.
func ensureSecurePermissions(path string) {
	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Mode().Perm()&0077 != 0 {
		if err := os.Chmod(path, 0600); err != nil {
			log.Printf("CONFIG_PERMS | failed to tighten %s: %v", path, err)
		}
	}
}

// applyEnvOverrides applies MONGOAGENT_* environment variables on top of
// the file values. Overrides exist for scripting and CI use.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvPrefix + "AUTH_DOMAIN"); v != "" {
		c.Auth.Domain = v
	}
	if v := os.Getenv(EnvPrefix + "CLIENT_ID"); v != "" {
		c.Auth.ClientID = v
	}
	if v := os.Getenv(EnvPrefix + "REDIRECT_URI"); v != "" {
		c.Auth.RedirectURI = v
	}
	if v := os.Getenv(EnvPrefix + "API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "USER_ID"); v != "" {
		c.API.UserID = v
	}
	if v := os.Getenv(EnvPrefix + "TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv(EnvPrefix + "HYBRID"); v != "" {
		c.Search.Hybrid = v == "true" || v == "1"
	}
	if v := os.Getenv(EnvPrefix + "AGENT"); v != "" {
		c.Search.Agent = v == "true" || v == "1"
	}
	if v := os.Getenv(EnvPrefix + "RERANKING"); v != "" {
		c.Search.Reranking = v == "true" || v == "1"
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := validateHTTPURL("auth.domain", c.Auth.Domain); err != nil {
		return err
	}
	if err := validateHTTPURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("auth.redirect_uri", c.Auth.RedirectURI); err != nil {
		return err
	}
	if c.Auth.ClientID == "" {
		return fmt.Errorf("auth.client_id must not be empty")
	}
	if c.API.TimeoutSecs <= 0 {
		return fmt.Errorf("api.timeout_secs must be positive, got %d", c.API.TimeoutSecs)
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	return nil
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host: %q", field, raw)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// ScopeString returns the scopes joined with spaces, the form the authorize
// redirect expects.
func (c *AuthConfig) ScopeString() string {
	return strings.Join(c.Scopes, " ")
}

// Timeout returns the API timeout as a formatted summary string.
func (c *APIConfig) Timeout() string {
	return fmt.Sprintf("%ds", c.TimeoutSecs)
}
