package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noDotEnv(t *testing.T) {
	t.Helper()
	orig := dotEnvFiles
	dotEnvFiles = []string{filepath.Join(t.TempDir(), "missing.env")}
	t.Cleanup(func() { dotEnvFiles = orig })
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://fakestoreapi.com", c.CatalogURL)
	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1", c.IdentityEndpoint)
	assert.Equal(t, "web", c.Google.Platform)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
	assert.Equal(t, 5*time.Minute, c.HandshakeTimeout)
	assert.Equal(t, "storefront.db", c.DatabasePath)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_NilFlagSetUsesDefaults(t *testing.T) {
	noDotEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_JSONOverlaysOnlyPresentKeys(t *testing.T) {
	noDotEnv(t)
	path := writeTempJSON(t, map[string]any{
		"catalog_url":  "http://catalog.local",
		"http_timeout": "2s",
		"google":       map[string]any{"web_client_id": "web-id"},
	})

	cfg, err := Load(newFlagSet(t, "-c", path))
	require.NoError(t, err)

	assert.Equal(t, "http://catalog.local", cfg.CatalogURL)
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "web-id", cfg.Google.WebClientID)
	assert.Equal(t, "web", cfg.Google.Platform, "untouched keys keep defaults")
	assert.Equal(t, 5*time.Minute, cfg.HandshakeTimeout)
}

func TestLoad_JSONDurationAsNanoseconds(t *testing.T) {
	noDotEnv(t)
	path := writeTempJSON(t, map[string]any{"handshake_timeout": int64(10 * time.Second)})

	cfg, err := Load(newFlagSet(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.HandshakeTimeout)
}

func TestLoad_InvalidJSON(t *testing.T) {
	noDotEnv(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

	_, err := Load(newFlagSet(t, "-c", bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_MissingJSONFile(t *testing.T) {
	noDotEnv(t)

	_, err := Load(newFlagSet(t, "-c", filepath.Join(t.TempDir(), "nope.json")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_EnvOverridesJSON(t *testing.T) {
	noDotEnv(t)
	path := writeTempJSON(t, map[string]any{"catalog_url": "http://from-json", "log_level": "warn"})
	t.Setenv("STOREFRONT_CATALOG_URL", "http://from-env")
	t.Setenv("EXPO_PUBLIC_GOOGLE_ANDROID_CLIENT_ID", "android-id")
	t.Setenv("STOREFRONT_HTTP_TIMEOUT", "7s")

	cfg, err := Load(newFlagSet(t, "-c", path))
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", cfg.CatalogURL)
	assert.Equal(t, "warn", cfg.LogLevel, "JSON value survives when env is unset")
	assert.Equal(t, "android-id", cfg.Google.AndroidClientID)
	assert.Equal(t, 7*time.Second, cfg.HTTPTimeout)
}

func TestLoad_InvalidEnvDuration(t *testing.T) {
	noDotEnv(t)
	t.Setenv("STOREFRONT_HANDSHAKE_TIMEOUT", "forever")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoad_FlagsWin(t *testing.T) {
	noDotEnv(t)
	t.Setenv("STOREFRONT_CATALOG_URL", "http://from-env")

	cfg, err := Load(newFlagSet(t,
		"-u", "http://from-flag",
		"--http-timeout", "0s",
		"--platform", "android",
		"--google-client-id", "flag-android",
		"--db", "/tmp/s.db",
	))
	require.NoError(t, err)

	assert.Equal(t, "http://from-flag", cfg.CatalogURL)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, "android", cfg.Google.Platform)
	assert.Equal(t, "flag-android", cfg.Google.AndroidClientID)
	assert.Empty(t, cfg.Google.WebClientID)
	assert.Equal(t, "/tmp/s.db", cfg.DatabasePath)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	noDotEnv(t)
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_DotEnvFile(t *testing.T) {
	const key = "STOREFRONT_API_KEY"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set in the environment", key)
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600))

	orig := dotEnvFiles
	dotEnvFiles = []string{path}
	t.Cleanup(func() {
		dotEnvFiles = orig
		_ = os.Unsetenv(key)
	})

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.APIKey)
}
