package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	googleReady() bool
	SignIn(ctx context.Context) error
	Google(ctx context.Context) error
	GooglePaste(ctx context.Context) error
	Products(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the storefront CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit". reader is shared with the prompts of the commands, so
// it must be the same reader the App prompts from.
//
// Commands:
//
//	Not signed in:
//	  - help             show available commands
//	  - signin           email/password sign-in
//	  - google [paste]   Google sign-in (only when a client id is configured)
//	  - exit | quit      leave the program
//
//	Signed in:
//	  - help             show available commands
//	  - products | l     show the product list
//	  - whoami           show the stored session
//	  - logout           sign out
//	  - exit | quit      leave the program
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("storefront%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help":
			printlnFn(helpLine(a))

		case "signin":
			err = a.SignIn(ctx)

		case "google":
			switch {
			case !a.googleReady():
				printlnFn("Google sign-in is not configured.")
			case len(args) > 0 && args[0] == "paste":
				err = a.GooglePaste(ctx)
			default:
				err = a.Google(ctx)
			}

		case "l", "products":
			err = a.Products(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func helpLine(a execIface) string {
	if a.isLoggedIn() {
		return "Available commands: products, whoami, logout, exit"
	}
	if a.googleReady() {
		return "Available commands: signin, google, google paste, exit"
	}
	return "Available commands: signin, exit"
}
