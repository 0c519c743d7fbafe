package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that carry
// the Zoho credentials. The environment always wins over the file.
var envBindings = map[string]string{
	"zoho.client_id":       "ZOHO_CLIENT_ID",
	"zoho.client_secret":   "ZOHO_CLIENT_SECRET",
	"zoho.refresh_token":   "ZOHO_REFRESH_TOKEN",
	"zoho.organization_id": "ZOHO_ORGANIZATION_ID",
}

// Load loads the configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Bind credential environment variables
	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", envVar, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".zohoctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/zohoctl/")
	}

	// Read config file. A missing file is fine when no path was given
	// explicitly: all required values can come from the environment.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Zoho endpoint defaults
	v.SetDefault("zoho.api_url", "https://books.zoho.com/api/v3")
	v.SetDefault("zoho.auth_url", "https://accounts.zoho.com/oauth/v2")
	v.SetDefault("zoho.reauth_on_unauthorized", true)

	// Retry defaults
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.min_backoff", time.Second)
	v.SetDefault("retry.max_backoff", 30*time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "zohoctl.log")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	required := []struct {
		value  string
		envVar string
	}{
		{cfg.Zoho.ClientID, "ZOHO_CLIENT_ID"},
		{cfg.Zoho.ClientSecret, "ZOHO_CLIENT_SECRET"},
		{cfg.Zoho.RefreshToken, "ZOHO_REFRESH_TOKEN"},
		{cfg.Zoho.OrganizationID, "ZOHO_ORGANIZATION_ID"},
	}
	for _, r := range required {
		if r.value == "" {
			return &CredentialError{EnvVar: r.envVar}
		}
	}

	if cfg.Zoho.APIURL == "" {
		return fmt.Errorf("zoho.api_url is required")
	}
	if cfg.Zoho.AuthURL == "" {
		return fmt.Errorf("zoho.auth_url is required")
	}

	if cfg.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
