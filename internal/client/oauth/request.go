package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	callbackPath = "/callback"
	// outOfBandPort is where the provider sends a browser on another device.
	// Nothing listens there; the user copies the URL from the address bar.
	outOfBandPort = "8085"
)

var (
	ErrUnknownState = errors.New("redirect does not match a pending sign-in")
	ErrNoCode       = errors.New("redirect carries no authorization code")
)

// pendingAuth is what the exchange needs once the provider redirects back.
type pendingAuth struct {
	config   *oauth2.Config
	verifier string
}

// AuthRequest drives Google consent handshakes.
type AuthRequest struct {
	cfg        AuthRequestConfig
	opener     func(string) error
	out        io.Writer
	httpClient *http.Client

	mu          sync.Mutex
	pending     map[string]pendingAuth
	response    *Result
	subscribers map[int]chan Result
	nextSub     int
}

// Option configures an AuthRequest.
type Option func(*AuthRequest)

// WithOpener replaces the browser launcher.
func WithOpener(open func(url string) error) Option {
	return func(r *AuthRequest) {
		if open != nil {
			r.opener = open
		}
	}
}

// WithOutput sets where the consent URL is printed.
func WithOutput(w io.Writer) Option {
	return func(r *AuthRequest) {
		if w != nil {
			r.out = w
		}
	}
}

// WithHTTPClient sets the client used for the code exchange.
func WithHTTPClient(c *http.Client) Option {
	return func(r *AuthRequest) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// NewAuthRequest builds a request for cfg. It returns nil when the client id
// for the configured platform is missing: the request is not ready.
func NewAuthRequest(cfg AuthRequestConfig, opts ...Option) *AuthRequest {
	if cfg.ClientID() == "" {
		return nil
	}
	r := &AuthRequest{
		cfg:         cfg,
		opener:      OpenBrowser,
		out:         io.Discard,
		pending:     make(map[string]pendingAuth),
		subscribers: make(map[int]chan Result),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ClientID reports the client id the request authenticates as.
func (r *AuthRequest) ClientID() string {
	return r.cfg.ClientID()
}

// Response returns the most recent Result, or nil before the first one.
func (r *AuthRequest) Response() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.response == nil {
		return nil
	}
	res := *r.response
	return &res
}

// Subscribe returns a channel receiving every Result published after the
// call, and a func that ends the subscription. Slow subscribers miss
// results rather than block the handshake.
func (r *AuthRequest) Subscribe() (<-chan Result, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	ch := make(chan Result, 4)
	r.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subscribers, id)
			close(ch)
		})
	}
}

func (r *AuthRequest) publish(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := res
	r.response = &stored
	for _, ch := range r.subscribers {
		select {
		case ch <- res:
		default:
		}
	}
}

// begin registers a pending handshake and returns its consent URL.
func (r *AuthRequest) begin(redirectURL string) (state, authURL string) {
	conf := r.cfg.oauth2Config()
	conf.RedirectURL = redirectURL

	state = uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	r.mu.Lock()
	r.pending[state] = pendingAuth{config: conf, verifier: verifier}
	r.mu.Unlock()

	authURL = conf.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return state, authURL
}

func (r *AuthRequest) take(state string) (pendingAuth, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[state]
	if ok {
		delete(r.pending, state)
	}
	return p, ok
}

func (r *AuthRequest) forget(state string) {
	r.mu.Lock()
	delete(r.pending, state)
	r.mu.Unlock()
}

// Prompt runs one interactive handshake: it listens on a loopback port,
// opens the consent page and blocks until the provider redirects back or
// ctx ends. A canceled ctx is reported as ResultCancel; any other fault is
// returned as an error alongside a ResultError.
func (r *AuthRequest) Prompt(ctx context.Context) (Result, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(r.cfg.redirectHost(), "0"))
	if err != nil {
		return r.fail("", SourcePrompt, fmt.Errorf("listen for callback: %w", err))
	}

	redirect := "http://" + ln.Addr().String() + callbackPath
	state, authURL := r.begin(redirect)

	callbacks := make(chan url.Values, 1)
	srv := &http.Server{Handler: callbackHandler(callbacks)}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	fmt.Fprintf(r.out, "Opening Google sign-in in your browser. If it does not open, visit:\n%s\n", authURL)
	if err := r.opener(authURL); err != nil {
		fmt.Fprintf(r.out, "Could not open a browser: %v\n", err)
	}

	select {
	case <-ctx.Done():
		r.forget(state)
		if errors.Is(ctx.Err(), context.Canceled) {
			res := Result{ID: state, Type: ResultCancel, Source: SourcePrompt}
			r.publish(res)
			return res, nil
		}
		return r.fail(state, SourcePrompt, fmt.Errorf("waiting for consent: %w", ctx.Err()))
	case query := <-callbacks:
		return r.resolve(ctx, SourcePrompt, query)
	}
}

// Begin starts an out-of-band handshake for a browser on another device.
// The returned URL must be opened by the user; the redirect URL the browser
// ends up on is then handed to Complete.
func (r *AuthRequest) Begin() string {
	redirect := "http://" + net.JoinHostPort(r.cfg.redirectHost(), outOfBandPort) + callbackPath
	_, authURL := r.begin(redirect)
	return authURL
}

// Complete finishes an out-of-band handshake from the redirect URL. The
// outcome is not returned: it is published as the request's Response with
// SourceRedirect. Only a malformed URL is reported to the caller.
func (r *AuthRequest) Complete(ctx context.Context, redirectURL string) error {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return fmt.Errorf("parse redirect url: %w", err)
	}
	_, _ = r.resolve(ctx, SourceRedirect, u.Query())
	return nil
}

// resolve turns the provider's redirect parameters into a Result.
func (r *AuthRequest) resolve(ctx context.Context, source Source, query url.Values) (Result, error) {
	state := query.Get("state")
	pending, ok := r.take(state)
	if !ok {
		res := Result{ID: state, Type: ResultError, Source: source, Err: ErrUnknownState}
		r.publish(res)
		return res, nil
	}

	if e := query.Get("error"); e != "" {
		res := Result{
			ID:     state,
			Type:   ResultError,
			Source: source,
			Params: map[string]string{"error": e, "error_description": query.Get("error_description")},
		}
		if e == "access_denied" {
			res.Type = ResultCancel
		}
		r.publish(res)
		return res, nil
	}

	code := query.Get("code")
	if code == "" {
		res := Result{ID: state, Type: ResultError, Source: source, Err: ErrNoCode}
		r.publish(res)
		return res, nil
	}

	if r.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	}
	token, err := pending.config.Exchange(ctx, code, oauth2.VerifierOption(pending.verifier))
	if err != nil {
		return r.fail(state, source, fmt.Errorf("exchange code: %w", err))
	}

	idToken, _ := token.Extra("id_token").(string)
	res := Result{
		ID:     state,
		Type:   ResultSuccess,
		Source: source,
		Params: map[string]string{"id_token": idToken, "access_token": token.AccessToken},
	}
	r.publish(res)
	return res, nil
}

func (r *AuthRequest) fail(state string, source Source, err error) (Result, error) {
	res := Result{ID: state, Type: ResultError, Source: source, Err: err}
	r.publish(res)
	return res, err
}

func callbackHandler(out chan<- url.Values) http.Handler {
	var once sync.Once
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, req *http.Request) {
		delivered := false
		once.Do(func() {
			out <- req.URL.Query()
			delivered = true
		})
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if !delivered {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, "This sign-in was already completed.\n")
			return
		}
		_, _ = io.WriteString(w, "Sign-in received. You can close this window and return to the terminal.\n")
	})
	return mux
}
