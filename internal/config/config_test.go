package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AmmannChristian/go-ccauth/oauth2client"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CCAUTH_CLIENT_ID", "client")
	t.Setenv("CCAUTH_CLIENT_SECRET", "secret")

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, "client", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, "sandbox", cfg.Environment)
	assert.Equal(t, oauth2client.SandboxBaseURL, cfg.BaseURL)
	assert.Equal(t, oauth2client.DefaultSafetyMargin, cfg.SafetyMargin)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDev)
	assert.Equal(t, oauth2client.Credentials{ClientID: "client", ClientSecret: "secret"}, cfg.Credentials())
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("CCAUTH_CLIENT_ID", "from-env")
	t.Setenv("CCAUTH_CLIENT_SECRET", "secret")
	t.Setenv("CCAUTH_ENVIRONMENT", "live")
	t.Setenv("CCAUTH_SAFETY_MARGIN", "30s")

	cfg, err := Load(newFlagSet(t, "--client-id", "from-flag", "--timeout", "5s", "--log-dev"))
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.ClientID)
	assert.Equal(t, oauth2client.LiveBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.SafetyMargin)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.LogDev)
}

func TestLoad_BaseURLOverride(t *testing.T) {
	t.Setenv("CCAUTH_CLIENT_ID", "client")
	t.Setenv("CCAUTH_CLIENT_SECRET", "secret")
	t.Setenv("CCAUTH_BASE_URL", "http://127.0.0.1:8080/")

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.BaseURL)
}

func TestLoad_RejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("CCAUTH_CLIENT_ID", "client")
	t.Setenv("CCAUTH_CLIENT_SECRET", "secret")

	_, err := Load(newFlagSet(t, "--log-level", "verbose"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown level")
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("CCAUTH_CLIENT_ID", "")
	t.Setenv("CCAUTH_CLIENT_SECRET", "")

	_, err := Load(newFlagSet(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client id is required")
	assert.Contains(t, err.Error(), "client secret is required")
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		override    string
		want        string
		wantErr     bool
	}{
		{name: "sandbox", environment: "sandbox", want: oauth2client.SandboxBaseURL},
		{name: "live", environment: "live", want: oauth2client.LiveBaseURL},
		{name: "override wins", environment: "live", override: "https://mock.example.com", want: "https://mock.example.com"},
		{name: "unknown environment", environment: "staging", wantErr: true},
		{name: "relative override", environment: "sandbox", override: "/v1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBaseURL(tt.environment, tt.override)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{ClientID: "id", ClientSecret: "secret", SafetyMargin: time.Second, Timeout: time.Second}
	assert.NoError(t, valid.Validate())

	negative := valid
	negative.SafetyMargin = -time.Second
	assert.Error(t, negative.Validate())

	noTimeout := valid
	noTimeout.Timeout = 0
	assert.Error(t, noTimeout.Validate())

	badLevel := valid
	badLevel.LogLevel = "verbose"
	err := badLevel.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown level "verbose"`)
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CCAUTH_TEST_DOTENV=loaded\n"), 0o600))

	t.Setenv("CCAUTH_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("CCAUTH_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("CCAUTH_TEST_DOTENV"))
}
