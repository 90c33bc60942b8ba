package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is a single configuration key with its default and a description.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every known configuration key.
// These are registered as viper defaults and listed by `config show`.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// Server
		// ===================
		{
			Key:         "server.host",
			Value:       d.Server.Host,
			Description: "Interface the HTTP server binds to",
		},
		{
			Key:         "server.port",
			Value:       d.Server.Port,
			Description: "Port the HTTP server listens on",
		},

		// ===================
		// Vendor
		// ===================
		{
			Key:         "vendor.base_url",
			Value:       d.Vendor.BaseURL,
			Description: "Root URL of the extraction API",
		},
		{
			Key:         "vendor.api_key",
			Value:       d.Vendor.APIKey,
			Description: "Extraction API key (uses environment variable)",
		},
		{
			Key:         "vendor.timeout_seconds",
			Value:       d.Vendor.TimeoutSeconds,
			Description: "HTTP timeout in seconds for extraction requests",
		},

		// ===================
		// CORS
		// ===================
		{
			Key:         "cors.allowed_origins",
			Value:       d.CORS.AllowedOrigins,
			Description: "Browser origins allowed to call the API",
		},
	}
}

// GetDefault returns the default entry for a key, or nil if not found.
func GetDefault(key string) *Entry {
	for _, e := range DefaultEntries() {
		if e.Key == key {
			return &e
		}
	}
	return nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
