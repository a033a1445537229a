// Package validation checks sign-in input before any backend call is made.
package validation

import (
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the sign-in form accepts.
const MinPasswordLength = 6

const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

const (
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Invalid email address"
	MsgPasswordRequired = "Password is required"
	MsgPasswordTooShort = "Password must be at least 6 characters"
)

// FieldErrors maps a field name to its message. An empty map means valid.
type FieldErrors map[string]string

// Fields returns the offending field names in a stable order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for k := range fe {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SignInForm is the email/password form.
type SignInForm struct {
	Email    string
	Password string
}

// Validate returns one message per invalid field, or nil.
func (f SignInForm) Validate() FieldErrors {
	errs := FieldErrors{}

	switch email := strings.TrimSpace(f.Email); {
	case email == "":
		errs[FieldEmail] = MsgEmailRequired
	case !IsEmail(email):
		errs[FieldEmail] = MsgEmailInvalid
	}

	switch {
	case f.Password == "":
		errs[FieldPassword] = MsgPasswordRequired
	case utf8.RuneCountInString(f.Password) < MinPasswordLength:
		errs[FieldPassword] = MsgPasswordTooShort
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsEmail reports whether s is a bare address of the form local@domain.tld.
// Display names and angle brackets are rejected.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
