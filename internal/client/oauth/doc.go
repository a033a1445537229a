// Package oauth runs the interactive Google consent handshake for the CLI.
//
// An AuthRequest is built from the configured client ids. Prompt opens the
// consent page, waits on a loopback callback, exchanges the authorization
// code (PKCE S256) and returns a Result whose Params carry the id_token.
//
// Every Result, whether it came back from Prompt or from Complete (a
// redirect URL pasted by the user), becomes the request's current Response
// and is published to subscribers. Results carry their Source so observers
// can ignore the ones a direct caller already handled.
package oauth
