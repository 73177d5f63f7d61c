/*
Package config - Application Configuration

==============================================================================
FILE: internal/config/app_config.go
==============================================================================

DESCRIPTION:
    Central application configuration: server, database, CORS, rate
    limiting, and logging settings. Loads from environment variables,
    .env files, and optionally HashiCorp Vault for production secrets.

CONFIGURATION SOURCES (priority order):
    1. HashiCorp Vault (if VAULT_ADDR is set) - overrides DATABASE_URL
       and the Danløn OAuth client secret
    2. Environment variables
    3. .env file
    4. Default values in DefaultAppConfig()

==============================================================================
*/
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/vault/api"
	"github.com/joho/godotenv"
)

// AppConfig contains all application configuration.
type AppConfig struct {
	// Server configuration
	ServerPort int    `mapstructure:"SERVER_PORT"`
	Env        string `mapstructure:"ENVIRONMENT"`

	// Database configuration
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBDriver    string `mapstructure:"DB_DRIVER"`

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// CORS
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Rate limiting
	RateLimitRequestsPerMinute int `mapstructure:"RATE_LIMIT_REQUESTS_PER_MINUTE"`

	// Danløn OAuth client secret, layered the same way DatabaseURL is:
	// env var, then optionally overridden from Vault. The rest of the
	// Danløn config (base URLs, client_id, redirect URIs) is
	// environment-specific but not secret - see danlon.LoadConfig.
	DanlonClientSecret string `mapstructure:"DANLON_CLIENT_SECRET"`

	// Directory holding the versioned rate-table JSON files (C14).
	RateTableDir string `mapstructure:"RATE_TABLE_DIR"`

	// Vault client, retained on the config so callers can issue further
	// reads without re-authenticating.
	VaultClient *api.Client
}

// DefaultAppConfig returns configuration with default values.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		ServerPort:                 8080,
		Env:                        "development",
		DatabaseURL:                "./dbr_overtime.db",
		DBDriver:                   "sqlite",
		LogLevel:                   "info",
		CORSAllowedOrigins:         "*",
		RateLimitRequestsPerMinute: 60,
		DanlonClientSecret:         "",
		RateTableDir:               "./configs/rates",
	}
}

// LoadAppConfig loads all application configuration.
func LoadAppConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	config := DefaultAppConfig()

	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.ServerPort = port
		}
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Env = env
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.DatabaseURL = dbURL
	}
	if dbDriver := os.Getenv("DB_DRIVER"); dbDriver != "" {
		config.DBDriver = dbDriver
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.LogLevel = logLevel
	}
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.CORSAllowedOrigins = corsOrigins
	}
	if rateLimit := os.Getenv("RATE_LIMIT_REQUESTS_PER_MINUTE"); rateLimit != "" {
		if n, err := strconv.Atoi(rateLimit); err == nil {
			config.RateLimitRequestsPerMinute = n
		}
	}
	if clientSecret := os.Getenv("DANLON_CLIENT_SECRET"); clientSecret != "" {
		config.DanlonClientSecret = clientSecret
	}
	if rateTableDir := os.Getenv("RATE_TABLE_DIR"); rateTableDir != "" {
		config.RateTableDir = rateTableDir
	}

	if os.Getenv("VAULT_ADDR") != "" {
		if err := loadFromVault(config); err != nil {
			fmt.Printf("Warning: Could not load secrets from Vault: %v\n", err)
		}
	}

	return config, nil
}

// loadFromVault connects to Vault and overrides DatabaseURL /
// DanlonClientSecret from a KV-v2 secret, the same priority pattern
// used everywhere else in this config.
func loadFromVault(c *AppConfig) error {
	vaultConfig := api.DefaultConfig() // VAULT_ADDR and VAULT_TOKEN are read from env vars

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return fmt.Errorf("failed to create vault client: %w", err)
	}
	c.VaultClient = client

	secretPath := os.Getenv("VAULT_SECRET_PATH")
	if secretPath == "" {
		secretPath = "secret/data/dbr-overtime"
	}

	secret, err := client.KVv2(secretPath).Get(context.Background(), "")
	if err != nil {
		return fmt.Errorf("failed to read secrets from vault path %s: %w", secretPath, err)
	}

	if dbURL, ok := secret.Data["DATABASE_URL"].(string); ok {
		c.DatabaseURL = dbURL
	}
	if clientSecret, ok := secret.Data["DANLON_CLIENT_SECRET"].(string); ok {
		c.DanlonClientSecret = clientSecret
	}

	fmt.Println("Successfully loaded secrets from Vault")
	return nil
}

// IsProduction returns true if environment is production.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment returns true if environment is development.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsTesting returns true if environment is testing.
func (c *AppConfig) IsTesting() bool {
	return c.Env == "testing"
}
