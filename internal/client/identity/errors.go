package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Codes in the "auth/" namespace produced by this package.
const (
	CodeInvalidCredential  = "auth/invalid-credential"
	CodeUserNotFound       = "auth/user-not-found"
	CodeWrongPassword      = "auth/wrong-password"
	CodeTooManyRequests    = "auth/too-many-requests"
	CodeUserDisabled       = "auth/user-disabled"
	CodeInvalidEmail       = "auth/invalid-email"
	CodeOperationForbidden = "auth/operation-not-allowed"
	CodeInvalidAPIKey      = "auth/invalid-api-key"
	CodeNetworkFailed      = "auth/network-request-failed"
	CodeInternal           = "auth/internal-error"
	CodeMissingIDToken     = "auth/missing-id-token"
)

var ErrMissingSession = errors.New("identity session is not configured")

// AuthError is a backend fault with a machine-readable code.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *AuthError) Unwrap() error { return e.Err }

// CodeOf returns the code of the first *AuthError in err's chain, or "".
func CodeOf(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// restCodes translates REST error messages into auth codes.
var restCodes = map[string]string{
	"EMAIL_NOT_FOUND":             CodeUserNotFound,
	"INVALID_PASSWORD":            CodeWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":   CodeInvalidCredential,
	"INVALID_IDP_RESPONSE":        CodeInvalidCredential,
	"USER_DISABLED":               CodeUserDisabled,
	"TOO_MANY_ATTEMPTS_TRY_LATER": CodeTooManyRequests,
	"INVALID_EMAIL":               CodeInvalidEmail,
	"OPERATION_NOT_ALLOWED":       CodeOperationForbidden,
	"PASSWORD_LOGIN_DISABLED":     CodeOperationForbidden,
	"API_KEY_INVALID":             CodeInvalidAPIKey,
	"MISSING_ID_TOKEN":            CodeMissingIDToken,
}

// codeFromREST maps a REST message such as
// "TOO_MANY_ATTEMPTS_TRY_LATER : Access to this account has been temporarily
// disabled" to its auth code. Unknown messages become auth/<kebab-case>.
func codeFromREST(message string) (code, detail string) {
	name, detail, _ := strings.Cut(message, ":")
	name = strings.TrimSpace(name)
	detail = strings.TrimSpace(detail)

	if code, ok := restCodes[name]; ok {
		return code, detail
	}
	if name == "" {
		return CodeInternal, detail
	}
	return "auth/" + strings.ReplaceAll(strings.ToLower(name), "_", "-"), detail
}
