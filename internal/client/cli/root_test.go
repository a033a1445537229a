package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/dmitrijs2005/storefront/internal/client/services"
)

func stubNewApp(t *testing.T, a *App) *config.Config {
	t.Helper()
	var got config.Config
	orig := newApp
	newApp = func(_ context.Context, c *config.Config, _ io.Reader, _ io.Writer) (*App, error) {
		got = *c
		return a, nil
	}
	t.Cleanup(func() { newApp = orig })
	return &got
}

func TestRootCommand_WhoAmIUsesFlags(t *testing.T) {
	a, out, sessions := testApp()
	sessions.current = &services.StoredSession{UID: "u-1", Email: "a@b.com"}
	got := stubNewApp(t, a)

	db := filepath.Join(t.TempDir(), "x.db")
	cmd := NewRootCommand(strings.NewReader(""), &bytes.Buffer{})
	cmd.SetArgs([]string{"whoami", "--db", db, "--http-timeout", "3s"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, "Signed in as a@b.com\n", out.String())
	assert.Equal(t, db, got.DatabasePath)
	assert.Equal(t, "3s", got.HTTPTimeout.String())
}

func TestRootCommand_GoogleNoBrowser(t *testing.T) {
	a, out, _ := testApp()
	stubNewApp(t, a)

	cmd := NewRootCommand(strings.NewReader(""), &bytes.Buffer{})
	cmd.SetArgs([]string{"google", "--no-browser"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "Google sign-in is not configured.\n", out.String())
}

func TestRootCommand_NoArgsStartsREPL(t *testing.T) {
	lines := capturePrintln(t)
	a, _, _ := testApp()
	a.reader = rdr("help\nexit\n")
	stubNewApp(t, a)

	cmd := NewRootCommand(strings.NewReader(""), &bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, *lines, "Available commands: signin, exit")
	assert.Contains(t, *lines, "Bye!")
}

func TestRootCommand_BadConfigFile(t *testing.T) {
	a, _, _ := testApp()
	stubNewApp(t, a)

	cmd := NewRootCommand(strings.NewReader(""), &bytes.Buffer{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"whoami", "-c", filepath.Join(t.TempDir(), "missing.json")})

	require.Error(t, cmd.ExecuteContext(context.Background()))
}
