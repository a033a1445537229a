package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/catalog"
	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/dmitrijs2005/storefront/internal/client/identity"
	"github.com/dmitrijs2005/storefront/internal/client/oauth"
	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/client/storage"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// googleFlow is the part of services.GoogleAuth the CLI drives.
type googleFlow interface {
	IsReady() bool
	SignInWithGoogle(ctx context.Context) services.AuthResult
	Watch(ctx context.Context) <-chan services.AuthResult
}

// redirectFlow is the out-of-band half of oauth.AuthRequest.
type redirectFlow interface {
	Begin() string
	Complete(ctx context.Context, redirectURL string) error
}

type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer
	reader *bufio.Reader
	db     *sql.DB

	authService    services.AuthService
	google         googleFlow
	redirect       redirectFlow
	sessionService services.SessionService
	catalog        services.ProductSource

	now func() time.Time
}

// NewApp opens the session database and builds every service from c.
// Prompts read from in; user-facing output goes to out and logs to stderr.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	session := identity.NewSession(c.IdentityEndpoint, c.APIKey, c.HTTPTimeout)
	backend := identity.NewToolkit()

	req := oauth.NewAuthRequest(oauth.AuthRequestConfig{
		WebClientID:     c.Google.WebClientID,
		AndroidClientID: c.Google.AndroidClientID,
		ClientSecret:    c.Google.ClientSecret,
		Platform:        c.Google.Platform,
		RedirectHost:    c.Google.RedirectHost,
	}, oauth.WithOutput(out), oauth.WithHTTPClient(&http.Client{Timeout: c.HTTPTimeout}))

	a := &App{
		config:         c,
		log:            log,
		out:            out,
		reader:         bufio.NewReader(in),
		db:             db,
		authService:    services.NewAuthService(backend, session, log),
		sessionService: services.NewSessionService(db, log),
		catalog:        catalog.NewClient(c.CatalogURL, c.HTTPTimeout),
		now:            time.Now,
	}

	// a nil *AuthRequest must stay a nil interface
	var hs services.Handshaker
	if req != nil {
		hs = req
		a.redirect = req
	}
	a.google = services.NewGoogleAuth(hs, backend, session, log, c.HandshakeTimeout)

	return a, nil
}

// Close releases the session database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) currentSession() (*services.StoredSession, bool) {
	s, err := a.sessionService.Current(context.Background())
	if err != nil {
		return nil, false
	}
	if s.Expired(a.clock()) {
		return s, false
	}
	return s, true
}

func (a *App) clock() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}

func (a *App) isLoggedIn() bool {
	_, ok := a.currentSession()
	return ok
}

func (a *App) googleReady() bool {
	return a.google != nil && a.google.IsReady()
}

func (a *App) getStatus() string {
	s, ok := a.currentSession()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s)", displayName(s))
}

func displayName(s *services.StoredSession) string {
	switch {
	case s.Email != "":
		return s.Email
	case s.DisplayName != "":
		return s.DisplayName
	default:
		return s.UID
	}
}
