package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/storefront/internal/client/config"
)

// newApp is a test seam for NewApp.
var newApp = NewApp

// Execute runs the storefront command tree against the process's stdio.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. The App is created once the
// flags are parsed and closed after the command ran.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Sign in and browse the storefront catalog",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			app, err = newApp(cmd.Context(), cfg, in, out)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			printlnFn("Welcome to the storefront CLI (type 'help' for commands)")
			runREPL(cmd.Context(), app, app.getStatus, app.reader)
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	config.BindFlags(root.PersistentFlags())

	current := func() *App { return app }
	root.AddCommand(
		signInCmd(current),
		googleCmd(current),
		productsCmd(current),
		whoamiCmd(current),
		logoutCmd(current),
	)
	return root
}

func signInCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signin",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().SignIn(cmd.Context())
		},
	}
}

func googleCmd(app func() *App) *cobra.Command {
	var noBrowser bool
	cmd := &cobra.Command{
		Use:   "google",
		Short: "Sign in with a Google account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noBrowser {
				return app().GooglePaste(cmd.Context())
			}
			return app().Google(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the sign-in URL and read the redirect address back instead of using a local callback")
	return cmd
}

func productsCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:     "products",
		Aliases: []string{"list", "l"},
		Short:   "Show the product list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Products(cmd.Context())
		},
	}
}

func whoamiCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().WhoAmI(cmd.Context())
		},
	}
}

func logoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Logout(cmd.Context())
		},
	}
}
