// Package services contains the application services of the storefront
// client: credential and Google sign-in, the product list lifecycle, and the
// local session record.
//
// Sign-in flows never return errors. Every backend fault is caught at the
// flow boundary and turned into an AuthResult carrying a user-facing message.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/storefront/internal/client/identity"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// Messages shown for sign-in failures.
const (
	MsgSignInFailed       = "An error occurred during sign in"
	MsgGoogleSignInFailed = "Google sign in failed"
	MsgGoogleSignInError  = "An error occurred during Google sign in"
)

// signInMessages maps backend fault codes to display strings.
var signInMessages = map[string]string{
	identity.CodeInvalidCredential: "Invalid email or password",
	identity.CodeUserNotFound:      "No account found with this email",
	identity.CodeWrongPassword:     "Invalid email or password",
	identity.CodeTooManyRequests:   "Too many attempts. Please try again later",
	identity.CodeUserDisabled:      "This account has been disabled",
	identity.CodeInvalidEmail:      "Invalid email address",
}

// SignInMessage returns the display string for a backend fault code.
func SignInMessage(code string) string {
	if msg, ok := signInMessages[code]; ok {
		return msg
	}
	return MsgSignInFailed
}

// AuthResult is the outcome of any sign-in attempt. On success User is set
// and Error is empty; on failure User is nil and Error holds the message.
// A canceled Google sign-in leaves both zero.
type AuthResult struct {
	User  *identity.UserIdentity
	Error string
}

// Failed reports whether the attempt produced a message for the user.
func (r AuthResult) Failed() bool { return r.Error != "" }

// Canceled reports the silent outcome of a user-cancelled handshake.
func (r AuthResult) Canceled() bool { return r.User == nil && r.Error == "" }

func succeeded(cred *identity.UserCredential) AuthResult {
	return AuthResult{User: cred.User}
}

func failed(message string) AuthResult {
	return AuthResult{Error: message}
}

// AuthService signs users in with email and password.
//
// Inputs are expected to be validated already (see package validation);
// the service does not validate them again.
type AuthService interface {
	SignInWithEmail(ctx context.Context, email, password string) AuthResult
}

type authService struct {
	backend identity.Backend
	session *identity.Session
	log     logging.Logger
}

// NewAuthService binds the credential flow to a backend and its session.
func NewAuthService(backend identity.Backend, session *identity.Session, log logging.Logger) AuthService {
	return &authService{backend: backend, session: session, log: log.With("flow", "password")}
}

func (a *authService) SignInWithEmail(ctx context.Context, email, password string) (result AuthResult) {
	log := a.log.With("attempt_id", uuid.NewString())

	defer func() {
		if p := recover(); p != nil {
			log.Error(ctx, "sign-in panicked", "panic", fmt.Sprint(p))
			result = failed(MsgSignInFailed)
		}
	}()

	cred, err := a.backend.SignInWithEmailAndPassword(ctx, a.session, email, password)
	if err != nil {
		code := identity.CodeOf(err)
		log.Warn(ctx, "sign-in rejected", "code", code, "error", err)
		return failed(SignInMessage(code))
	}
	if cred == nil || cred.User == nil {
		log.Error(ctx, "backend returned no user")
		return failed(MsgSignInFailed)
	}

	log.Info(ctx, "signed in", "uid", cred.User.UID)
	return succeeded(cred)
}
