package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/catalog"
	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/dmitrijs2005/storefront/internal/client/identity"
	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

func stubInputs(t *testing.T, text string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return text, nil }
	getPassword = func(*bufio.Reader, io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAuth struct {
	result   services.AuthResult
	email    string
	password string
	calls    int
}

func (f *fakeAuth) SignInWithEmail(_ context.Context, email, password string) services.AuthResult {
	f.calls++
	f.email, f.password = email, password
	return f.result
}

type fakeGoogle struct {
	ready   bool
	result  services.AuthResult
	calls   int
	watched chan services.AuthResult
}

func (f *fakeGoogle) IsReady() bool { return f.ready }
func (f *fakeGoogle) SignInWithGoogle(context.Context) services.AuthResult {
	f.calls++
	return f.result
}
func (f *fakeGoogle) Watch(context.Context) <-chan services.AuthResult {
	return f.watched
}

type fakeRedirect struct {
	pasted string
	err    error
	onDone func()
	begins int
}

func (f *fakeRedirect) Begin() string {
	f.begins++
	return "https://accounts.example/auth?state=s1"
}
func (f *fakeRedirect) Complete(_ context.Context, u string) error {
	f.pasted = u
	if f.err == nil && f.onDone != nil {
		f.onDone()
	}
	return f.err
}

type fakeSessions struct {
	mu      sync.Mutex
	current *services.StoredSession
	saveErr error
	saved   *identity.UserIdentity
	cleared bool
}

func (f *fakeSessions) Save(_ context.Context, u *identity.UserIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = u
	f.current = &services.StoredSession{UID: u.UID, Email: u.Email, Provider: u.ProviderID, ExpiresAt: u.ExpiresAt}
	return nil
}

func (f *fakeSessions) Current(context.Context) (*services.StoredSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil, services.ErrNoSession
	}
	s := *f.current
	return &s, nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = nil
	f.cleared = true
	return nil
}

type fakeCatalog struct {
	items []catalog.Item
	err   error
	calls int
}

func (f *fakeCatalog) Products(context.Context) ([]catalog.Item, error) {
	f.calls++
	return f.items, f.err
}

// testApp returns an App wired to fakes and the buffer it prints to.
func testApp() (*App, *bytes.Buffer, *fakeSessions) {
	out := &bytes.Buffer{}
	sessions := &fakeSessions{}
	a := &App{
		config:         &config.Config{HandshakeTimeout: time.Second},
		log:            logging.Discard(),
		out:            out,
		reader:         bufio.NewReader(strings.NewReader("")),
		authService:    &fakeAuth{},
		google:         &fakeGoogle{},
		sessionService: sessions,
		catalog:        &fakeCatalog{},
		now:            func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) },
	}
	return a, out, sessions
}
