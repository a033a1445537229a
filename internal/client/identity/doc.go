// Package identity is the client side of the identity backend.
//
// It exposes the two sign-in calls the storefront needs (email/password and
// federated credential exchange) behind the Backend interface, and a concrete
// implementation, Toolkit, that talks to the Identity Toolkit REST API.
//
// The backend session (API key, endpoint, HTTP client) is an explicit
// *Session value created once at startup and passed to every call; there is
// no package-level state.
//
// # Error Handling
//
// Backend faults are returned as *AuthError carrying a machine-readable code
// in the "auth/..." namespace (for example "auth/wrong-password"). Use
// CodeOf to extract it from a wrapped error.
package identity
