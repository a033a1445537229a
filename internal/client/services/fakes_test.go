package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/catalog"
	"github.com/dmitrijs2005/storefront/internal/client/identity"
	"github.com/dmitrijs2005/storefront/internal/client/oauth"
)

type fakeBackend struct {
	mu sync.Mutex

	passwordCred *identity.UserCredential
	passwordErr  error
	idpCred      *identity.UserCredential
	idpErr       error
	panicWith    any

	gotSession    *identity.Session
	gotEmail      string
	gotPassword   string
	gotCredential identity.Credential
	passwordCalls int
	idpCalls      int
}

func (f *fakeBackend) SignInWithEmailAndPassword(_ context.Context, s *identity.Session, email, password string) (*identity.UserCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwordCalls++
	f.gotSession, f.gotEmail, f.gotPassword = s, email, password
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.passwordCred, f.passwordErr
}

func (f *fakeBackend) SignInWithCredential(_ context.Context, s *identity.Session, c identity.Credential) (*identity.UserCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idpCalls++
	f.gotSession, f.gotCredential = s, c
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.idpCred, f.idpErr
}

func (f *fakeBackend) idpCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.idpCalls
}

type fakeHandshake struct {
	result oauth.Result
	err    error
	// block makes Prompt wait for ctx instead of returning result.
	block bool

	mu      sync.Mutex
	prompts int
	subs    []chan oauth.Result
	last    *oauth.Result
}

func (f *fakeHandshake) Prompt(ctx context.Context) (oauth.Result, error) {
	f.mu.Lock()
	f.prompts++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return oauth.Result{Type: oauth.ResultError, Source: oauth.SourcePrompt, Err: ctx.Err()}, ctx.Err()
	}
	f.publish(f.result)
	return f.result, f.err
}

func (f *fakeHandshake) Subscribe() (<-chan oauth.Result, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan oauth.Result, 4)
	f.subs = append(f.subs, ch)
	return ch, func() {}
}

func (f *fakeHandshake) Response() *oauth.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeHandshake) publish(res oauth.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := res
	f.last = &r
	for _, ch := range f.subs {
		ch <- res
	}
}

func (f *fakeHandshake) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type fakeSource struct {
	items   []catalog.Item
	err     error
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Products(ctx context.Context) ([]catalog.Item, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.items, f.err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
