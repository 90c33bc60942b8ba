package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// ErrMissingAPIKey is returned by Validate when the vendor key resolves empty.
var ErrMissingAPIKey = errors.New("vendor API key is not set (export CARDINAL_API_KEY)")

// Config holds labrelay configuration.
// Stored at: ./config.yaml or {home}/config.yaml
type Config struct {
	Server ServerCfg `mapstructure:"server" yaml:"server"`
	Vendor VendorCfg `mapstructure:"vendor" yaml:"vendor"`
	CORS   CORSCfg   `mapstructure:"cors" yaml:"cors"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// VendorCfg configures the extraction API.
type VendorCfg struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// CORSCfg lists the browser origins allowed to call the API.
// Entries may contain a single "*" wildcard, e.g. https://*.vercel.app.
type CORSCfg struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Vendor: VendorCfg{
			BaseURL:        "https://api.trycardinal.ai",
			APIKey:         "${CARDINAL_API_KEY}",
			TimeoutSeconds: 60,
		},
		CORS: CORSCfg{
			AllowedOrigins: []string{"http://localhost:3000", "https://*.vercel.app"},
		},
	}
}

// ListenAddr returns host:port for the HTTP server.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ResolvedAPIKey returns the vendor key with ${ENV_VAR} references expanded.
func (c *Config) ResolvedAPIKey() string {
	return ResolveEnvVars(c.Vendor.APIKey)
}

// VendorTimeout returns the vendor HTTP timeout.
func (c *Config) VendorTimeout() time.Duration {
	return time.Duration(c.Vendor.TimeoutSeconds) * time.Second
}

// Validate checks the settings serve needs before it can accept uploads.
func (c *Config) Validate() error {
	if c.ResolvedAPIKey() == "" {
		return ErrMissingAPIKey
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Vendor.TimeoutSeconds <= 0 {
		return fmt.Errorf("vendor timeout must be positive, got %d", c.Vendor.TimeoutSeconds)
	}
	if c.Vendor.BaseURL == "" {
		return errors.New("vendor base URL is empty")
	}
	return nil
}
