package identity

import (
	"context"
	"net/http"
	"time"
)

// Provider ids as reported by the backend.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
)

// Session is the handle every backend call runs against.
type Session struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

// NewSession builds a Session. A zero timeout means no client-side timeout.
func NewSession(endpoint, apiKey string, timeout time.Duration) *Session {
	return &Session{
		APIKey:     apiKey,
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (s *Session) client() *http.Client {
	if s == nil || s.HTTPClient == nil {
		return http.DefaultClient
	}
	return s.HTTPClient
}

// UserIdentity is the signed-in user as issued by the backend.
type UserIdentity struct {
	UID          string
	Email        string
	DisplayName  string
	ProviderID   string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// UserCredential is the result of a successful sign-in.
type UserCredential struct {
	User       *UserIdentity
	ProviderID string
	IsNewUser  bool
}

// Credential is a federated provider credential ready to be exchanged for a
// backend session.
type Credential struct {
	ProviderID  string
	IDToken     string
	AccessToken string
}

// GoogleCredential wraps a Google ID token as a Credential.
func GoogleCredential(idToken string) Credential {
	return Credential{ProviderID: ProviderGoogle, IDToken: idToken}
}

// Backend is the identity backend contract used by the sign-in flows.
type Backend interface {
	SignInWithEmailAndPassword(ctx context.Context, session *Session, email, password string) (*UserCredential, error)
	SignInWithCredential(ctx context.Context, session *Session, credential Credential) (*UserCredential, error)
}
