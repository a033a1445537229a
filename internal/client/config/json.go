package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts either a Go duration string ("3s") or integer
// nanoseconds when unmarshalled from JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

type jsonGoogle struct {
	WebClientID     *string `json:"web_client_id"`
	AndroidClientID *string `json:"android_client_id"`
	ClientSecret    *string `json:"client_secret"`
	Platform        *string `json:"platform"`
	RedirectHost    *string `json:"redirect_host"`
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell "absent" apart from "empty" so a partial file only
// overrides what it names.
type JsonConfig struct {
	CatalogURL       *string     `json:"catalog_url"`
	IdentityEndpoint *string     `json:"identity_endpoint"`
	APIKey           *string     `json:"api_key"`
	Google           *jsonGoogle `json:"google"`
	HTTPTimeout      *Duration   `json:"http_timeout"`
	HandshakeTimeout *Duration   `json:"handshake_timeout"`
	DatabasePath     *string     `json:"database_path"`
	LogLevel         *string     `json:"log_level"`
}

// parseJson overlays cfg with the values present in the JSON file at path.
func parseJson(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.CatalogURL, jc.CatalogURL)
	setString(&cfg.IdentityEndpoint, jc.IdentityEndpoint)
	setString(&cfg.APIKey, jc.APIKey)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.HTTPTimeout != nil {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
	if jc.HandshakeTimeout != nil {
		cfg.HandshakeTimeout = jc.HandshakeTimeout.Duration
	}

	if g := jc.Google; g != nil {
		setString(&cfg.Google.WebClientID, g.WebClientID)
		setString(&cfg.Google.AndroidClientID, g.AndroidClientID)
		setString(&cfg.Google.ClientSecret, g.ClientSecret)
		setString(&cfg.Google.Platform, g.Platform)
		setString(&cfg.Google.RedirectHost, g.RedirectHost)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
