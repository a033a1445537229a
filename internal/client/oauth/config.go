package oauth

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	PlatformWeb     = "web"
	PlatformAndroid = "android"
)

var defaultScopes = []string{"openid", "email", "profile"}

// AuthRequestConfig mirrors the provider configuration of the mobile build.
type AuthRequestConfig struct {
	WebClientID     string
	AndroidClientID string
	ClientSecret    string
	// Platform selects which client id is used; empty means web.
	Platform string
	// RedirectHost is the loopback host the callback listener binds to.
	RedirectHost string
	Scopes       []string
	// Endpoint overrides the Google endpoint. Tests point it at a fake provider.
	Endpoint oauth2.Endpoint
}

// ClientID returns the client id for the configured platform.
func (c AuthRequestConfig) ClientID() string {
	if c.Platform == PlatformAndroid {
		return c.AndroidClientID
	}
	return c.WebClientID
}

func (c AuthRequestConfig) oauth2Config() *oauth2.Config {
	endpoint := c.Endpoint
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	return &oauth2.Config{
		ClientID:     c.ClientID(),
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}

func (c AuthRequestConfig) redirectHost() string {
	if c.RedirectHost == "" {
		return "127.0.0.1"
	}
	return c.RedirectHost
}
