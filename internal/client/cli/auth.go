package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/client/validation"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignIn prompts for an email and password, validates them, and signs in.
//
// Validation problems are printed one per line and nothing is sent to the
// backend. A rejected sign-in prints "Error: <message>". Only I/O and
// session persistence failures are returned.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := validation.SignInForm{Email: email, Password: string(password)}
	if errs := form.Validate(); errs != nil {
		for _, f := range errs.Fields() {
			a.printf("%s\n", errs[f])
		}
		return nil
	}

	res := a.authService.SignInWithEmail(ctx, form.Email, form.Password)
	return a.finishSignIn(ctx, res)
}

// Google runs the browser handshake with a loopback callback.
func (a *App) Google(ctx context.Context) error {
	if !a.googleReady() {
		a.printf("Google sign-in is not configured.\n")
		return nil
	}
	return a.finishSignIn(ctx, a.google.SignInWithGoogle(ctx))
}

// GooglePaste runs the handshake for a browser on another device: the user
// opens the printed URL and pastes back the address the browser lands on.
// The outcome arrives through the Google flow's watcher.
func (a *App) GooglePaste(ctx context.Context) error {
	if !a.googleReady() || a.redirect == nil {
		a.printf("Google sign-in is not configured.\n")
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if a.config != nil && a.config.HandshakeTimeout > 0 {
		var cancelTimeout context.CancelFunc
		watchCtx, cancelTimeout = context.WithTimeout(watchCtx, a.config.HandshakeTimeout)
		defer cancelTimeout()
	}

	results := a.google.Watch(watchCtx)

	a.printf("Open this URL in a browser and sign in:\n%s\n", a.redirect.Begin())
	pasted, err := getSimpleText(a.reader, "Paste the address your browser was redirected to", a.out)
	if err != nil {
		return err
	}

	if err := a.redirect.Complete(watchCtx, pasted); err != nil {
		a.printf("Error: %s\n", services.MsgGoogleSignInError)
		a.log.Warn(ctx, "bad redirect url", "error", err)
		return nil
	}

	res, ok := <-results
	if !ok {
		res = services.AuthResult{Error: services.MsgGoogleSignInError}
	}
	return a.finishSignIn(ctx, res)
}

// finishSignIn reports res and, on success, stores the session and opens
// the product list.
func (a *App) finishSignIn(ctx context.Context, res services.AuthResult) error {
	switch {
	case res.Failed():
		a.printf("Error: %s\n", res.Error)
		return nil
	case res.Canceled():
		a.printf("Sign-in cancelled.\n")
		return nil
	}

	if err := a.sessionService.Save(ctx, res.User); err != nil {
		return err
	}

	name := res.User.Email
	if name == "" {
		name = res.User.UID
	}
	a.printf("Signed in as %s\n", name)

	return a.Products(ctx)
}

// WhoAmI prints the stored session.
func (a *App) WhoAmI(ctx context.Context) error {
	s, err := a.sessionService.Current(ctx)
	if errors.Is(err, services.ErrNoSession) {
		a.printf("Not signed in.\n")
		return nil
	}
	if err != nil {
		return err
	}

	line := fmt.Sprintf("Signed in as %s", displayName(s))
	if s.Provider != "" {
		line += fmt.Sprintf(" via %s", s.Provider)
	}
	a.printf("%s\n", line)

	if !s.ExpiresAt.IsZero() {
		state := "expires"
		if s.Expired(a.clock()) {
			state = "expired"
		}
		a.printf("Session %s at %s\n", state, s.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// Logout forgets the stored session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessionService.Clear(ctx); err != nil {
		return err
	}
	a.printf("Signed out.\n")
	return nil
}
