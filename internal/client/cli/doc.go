// Package cli provides the storefront command-line client.
//
// It wires configuration, the local session database, the identity backend
// and the product catalog, and exposes them as cobra subcommands and an
// interactive REPL. Typical flow: sign in with email and password or with
// Google, then view the product list.
//
// Commands:
//   - signin    email/password sign-in
//   - google    Google sign-in (loopback callback, or --no-browser paste mode)
//   - products  fetch and print the product list
//   - whoami    show the stored session
//   - logout    forget the stored session
//
// Running the binary without a subcommand starts the REPL; see runREPL.
package cli
