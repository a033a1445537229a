package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/storefront/internal/client/identity"
	"github.com/dmitrijs2005/storefront/internal/client/oauth"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// Handshaker is the consent handshake used by GoogleAuth. *oauth.AuthRequest
// implements it.
type Handshaker interface {
	Prompt(ctx context.Context) (oauth.Result, error)
	Subscribe() (<-chan oauth.Result, func())
	Response() *oauth.Result
}

// SignInState is where a Google sign-in attempt stands.
type SignInState string

const (
	StateIdle              SignInState = "idle"
	StateAwaitingHandshake SignInState = "awaiting-handshake"
	StateSuccess           SignInState = "success"
	StateCancel            SignInState = "cancel"
	StateFailure           SignInState = "failure"
)

// GoogleAuth is the federated sign-in flow.
//
// Callers must check IsReady before SignInWithGoogle; the CLI hides the
// option otherwise. Both SignInWithGoogle and Watch funnel handshake results
// through HandleResponse.
type GoogleAuth struct {
	request Handshaker
	backend identity.Backend
	session *identity.Session
	log     logging.Logger
	timeout time.Duration

	mu    sync.Mutex
	state SignInState
}

// NewGoogleAuth binds the flow to a handshake and the identity backend.
// request may be nil when no client id is configured. timeout bounds one
// whole attempt (consent and exchange); zero means no bound.
func NewGoogleAuth(request Handshaker, backend identity.Backend, session *identity.Session, log logging.Logger, timeout time.Duration) *GoogleAuth {
	if r, ok := request.(*oauth.AuthRequest); ok && r == nil {
		request = nil
	}
	return &GoogleAuth{
		request: request,
		backend: backend,
		session: session,
		log:     log.With("flow", "google"),
		timeout: timeout,
		state:   StateIdle,
	}
}

// IsReady reports whether the handshake request could be built.
func (g *GoogleAuth) IsReady() bool { return g.request != nil }

// Request returns the underlying handshake request, or nil.
func (g *GoogleAuth) Request() Handshaker { return g.request }

// Response returns the latest handshake result, or nil.
func (g *GoogleAuth) Response() *oauth.Result {
	if g.request == nil {
		return nil
	}
	return g.request.Response()
}

// State returns the state of the latest attempt.
func (g *GoogleAuth) State() SignInState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *GoogleAuth) setState(s SignInState) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// SignInWithGoogle runs the consent handshake and exchanges its token for a
// backend session. It blocks until the handshake completes, is cancelled or
// fails.
func (g *GoogleAuth) SignInWithGoogle(ctx context.Context) AuthResult {
	g.setState(StateIdle)

	if !g.IsReady() {
		g.log.Warn(ctx, "google sign-in invoked before the request was ready")
		g.setState(StateFailure)
		return failed(MsgGoogleSignInError)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.setState(StateAwaitingHandshake)
	res, err := g.request.Prompt(ctx)
	if err != nil && res.Err == nil {
		res.Err = err
	}
	return g.HandleResponse(ctx, res)
}

// HandleResponse normalizes one handshake result into an AuthResult:
// success is exchanged with the backend, cancel is silent, anything else is
// a failure message.
func (g *GoogleAuth) HandleResponse(ctx context.Context, res oauth.Result) (result AuthResult) {
	log := g.log.With("attempt_id", uuid.NewString(), "source", string(res.Source))

	defer func() {
		if p := recover(); p != nil {
			log.Error(ctx, "google sign-in panicked", "panic", fmt.Sprint(p))
			result = failed(MsgGoogleSignInError)
		}
		switch {
		case result.User != nil:
			g.setState(StateSuccess)
		case result.Error == "":
			g.setState(StateCancel)
		default:
			g.setState(StateFailure)
		}
	}()

	if res.Err != nil {
		log.Warn(ctx, "handshake faulted", "error", res.Err)
		return failed(MsgGoogleSignInError)
	}

	switch res.Type {
	case oauth.ResultSuccess:
		cred, err := g.backend.SignInWithCredential(ctx, g.session, identity.GoogleCredential(res.IDToken()))
		if err != nil {
			log.Warn(ctx, "credential exchange rejected", "code", identity.CodeOf(err), "error", err)
			return failed(MsgGoogleSignInError)
		}
		if cred == nil || cred.User == nil {
			log.Error(ctx, "backend returned no user")
			return failed(MsgGoogleSignInError)
		}
		log.Info(ctx, "signed in", "uid", cred.User.UID)
		return succeeded(cred)

	case oauth.ResultCancel:
		log.Info(ctx, "handshake cancelled by user")
		return AuthResult{}

	default:
		log.Warn(ctx, "handshake failed", "type", string(res.Type), "error_param", res.Params["error"])
		return failed(MsgGoogleSignInFailed)
	}
}

// Watch observes handshakes that complete outside SignInWithGoogle (for
// example a redirect pasted by the user) and delivers their normalized
// results. Results of direct prompts are skipped: SignInWithGoogle already
// handled them. The channel is closed when ctx ends.
func (g *GoogleAuth) Watch(ctx context.Context) <-chan AuthResult {
	out := make(chan AuthResult, 1)
	if !g.IsReady() {
		close(out)
		return out
	}

	responses, unsubscribe := g.request.Subscribe()
	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case res, ok := <-responses:
				if !ok {
					return
				}
				if res.Source == oauth.SourcePrompt {
					continue
				}
				select {
				case out <- g.HandleResponse(ctx, res):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
