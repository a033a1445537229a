package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Google holds the OAuth client identifiers used by the federated sign-in.
// WebClientID is used on desktop; AndroidClientID is kept for parity with the
// mobile build and selected with Platform "android".
type Google struct {
	WebClientID     string
	AndroidClientID string
	ClientSecret    string
	Platform        string
	RedirectHost    string
}

// Config holds runtime settings for the storefront CLI.
//
// Fields:
//   - CatalogURL: base URL of the product API (products are at CatalogURL + "/products").
//   - IdentityEndpoint: base URL of the identity backend REST API.
//   - APIKey: identity backend project key.
//   - Google: OAuth client settings.
//   - HTTPTimeout: per-request timeout for the catalog and identity calls; 0 waits forever.
//   - HandshakeTimeout: upper bound for the interactive consent; 0 waits forever.
//   - DatabasePath: SQLite file holding the signed-in session.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	CatalogURL       string
	IdentityEndpoint string
	APIKey           string
	Google           Google
	HTTPTimeout      time.Duration
	HandshakeTimeout time.Duration
	DatabasePath     string
	LogLevel         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.CatalogURL = "https://fakestoreapi.com"
	c.IdentityEndpoint = "https://identitytoolkit.googleapis.com/v1"
	c.Google.Platform = "web"
	c.Google.RedirectHost = "127.0.0.1"
	c.HTTPTimeout = 30 * time.Second
	c.HandshakeTimeout = 5 * time.Minute
	c.DatabasePath = "storefront.db"
	c.LogLevel = "info"
}

// Load constructs a Config, applies defaults, then overlays values from
// JSON (if -c/--config is set), the environment (including a .env file)
// and finally the flags explicitly set on fs. Later sources take
// precedence over earlier ones. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := configPath(fs); path != "" {
		if err := parseJson(cfg, path); err != nil {
			return nil, err
		}
	}

	loadDotEnv()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}
	return cfg, nil
}
