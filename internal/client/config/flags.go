package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	flagConfig           = "config"
	flagCatalogURL       = "catalog-url"
	flagIdentityEndpoint = "identity-endpoint"
	flagAPIKey           = "api-key"
	flagGoogleClientID   = "google-client-id"
	flagPlatform         = "platform"
	flagHTTPTimeout      = "http-timeout"
	flagHandshakeTimeout = "handshake-timeout"
	flagDatabase         = "db"
	flagLogLevel         = "log-level"
)

// BindFlags registers the configuration flags on fs. Defaults shown in help
// come from LoadDefaults; only flags the user actually sets override the
// other sources.
func BindFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(flagConfig, "c", "", "path to JSON config file")
	fs.StringP(flagCatalogURL, "u", d.CatalogURL, "product API base URL")
	fs.String(flagIdentityEndpoint, d.IdentityEndpoint, "identity backend base URL")
	fs.String(flagAPIKey, "", "identity backend API key")
	fs.String(flagGoogleClientID, "", "Google OAuth client id for the selected platform")
	fs.String(flagPlatform, d.Google.Platform, "OAuth client platform (web or android)")
	fs.Duration(flagHTTPTimeout, d.HTTPTimeout, "HTTP request timeout (0 disables)")
	fs.Duration(flagHandshakeTimeout, d.HandshakeTimeout, "Google consent timeout (0 disables)")
	fs.String(flagDatabase, d.DatabasePath, "path to the local session database")
	fs.String(flagLogLevel, d.LogLevel, "log level (debug, info, warn, error)")
}

func configPath(fs *pflag.FlagSet) string {
	if fs == nil || fs.Lookup(flagConfig) == nil {
		return ""
	}
	path, _ := fs.GetString(flagConfig)
	return path
}

// applyFlags copies every explicitly set flag into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case flagCatalogURL:
			cfg.CatalogURL = f.Value.String()
		case flagIdentityEndpoint:
			cfg.IdentityEndpoint = f.Value.String()
		case flagAPIKey:
			cfg.APIKey = f.Value.String()
		case flagPlatform:
			cfg.Google.Platform = f.Value.String()
		case flagHTTPTimeout:
			cfg.HTTPTimeout, err = fs.GetDuration(flagHTTPTimeout)
		case flagHandshakeTimeout:
			cfg.HandshakeTimeout, err = fs.GetDuration(flagHandshakeTimeout)
		case flagDatabase:
			cfg.DatabasePath = f.Value.String()
		case flagLogLevel:
			cfg.LogLevel = f.Value.String()
		}
	})
	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}

	// the client id lands on whichever platform is final after all sources
	if f := fs.Lookup(flagGoogleClientID); f != nil && f.Changed {
		if cfg.Google.Platform == "android" {
			cfg.Google.AndroidClientID = f.Value.String()
		} else {
			cfg.Google.WebClientID = f.Value.String()
		}
	}
	return nil
}
