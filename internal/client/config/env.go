package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig holds raw env values. Unset variables leave the pointers nil.
type envConfig struct {
	CatalogURL       *string        `env:"STOREFRONT_CATALOG_URL"`
	IdentityEndpoint *string        `env:"STOREFRONT_IDENTITY_ENDPOINT"`
	APIKey           *string        `env:"STOREFRONT_API_KEY"`
	WebClientID      *string        `env:"EXPO_PUBLIC_GOOGLE_WEB_CLIENT_ID"`
	AndroidClientID  *string        `env:"EXPO_PUBLIC_GOOGLE_ANDROID_CLIENT_ID"`
	ClientSecret     *string        `env:"STOREFRONT_GOOGLE_CLIENT_SECRET"`
	Platform         *string        `env:"STOREFRONT_GOOGLE_PLATFORM"`
	RedirectHost     *string        `env:"STOREFRONT_GOOGLE_REDIRECT_HOST"`
	HTTPTimeout      *time.Duration `env:"STOREFRONT_HTTP_TIMEOUT"`
	HandshakeTimeout *time.Duration `env:"STOREFRONT_HANDSHAKE_TIMEOUT"`
	DatabasePath     *string        `env:"STOREFRONT_DB"`
	LogLevel         *string        `env:"STOREFRONT_LOG_LEVEL"`
}

// dotEnvFiles is a test seam for the .env lookup.
var dotEnvFiles = []string{".env"}

// loadDotEnv loads .env into the process environment if it exists.
// Variables already set in the environment win.
func loadDotEnv() {
	_ = godotenv.Load(dotEnvFiles...)
}

// parseEnv overlays cfg with the variables that are set.
func parseEnv(cfg *Config) error {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&cfg.CatalogURL, raw.CatalogURL)
	setString(&cfg.IdentityEndpoint, raw.IdentityEndpoint)
	setString(&cfg.APIKey, raw.APIKey)
	setString(&cfg.Google.WebClientID, raw.WebClientID)
	setString(&cfg.Google.AndroidClientID, raw.AndroidClientID)
	setString(&cfg.Google.ClientSecret, raw.ClientSecret)
	setString(&cfg.Google.Platform, raw.Platform)
	setString(&cfg.Google.RedirectHost, raw.RedirectHost)
	setString(&cfg.DatabasePath, raw.DatabasePath)
	setString(&cfg.LogLevel, raw.LogLevel)

	if raw.HTTPTimeout != nil {
		cfg.HTTPTimeout = *raw.HTTPTimeout
	}
	if raw.HandshakeTimeout != nil {
		cfg.HandshakeTimeout = *raw.HandshakeTimeout
	}
	return nil
}
