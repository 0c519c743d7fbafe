package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Zoho    ZohoConfig    `mapstructure:"zoho"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ZohoConfig holds the Zoho Books credentials and endpoint URLs
type ZohoConfig struct {
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	RefreshToken   string `mapstructure:"refresh_token"`
	OrganizationID string `mapstructure:"organization_id"`

	APIURL  string `mapstructure:"api_url"`
	AuthURL string `mapstructure:"auth_url"`

	// ReauthOnUnauthorized controls whether a 401 on a data call
	// triggers one token refresh and retry before failing.
	ReauthOnUnauthorized bool `mapstructure:"reauth_on_unauthorized"`
}

// RetryConfig controls the retry policy for invoice fetches
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinBackoff  time.Duration `mapstructure:"min_backoff"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	File   string `mapstructure:"file"`
}
