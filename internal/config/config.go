// Package config loads ccauth settings from flags, CCAUTH_* environment
// variables and an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/AmmannChristian/go-ccauth/httpclient"
	"github.com/AmmannChristian/go-ccauth/internal/logging"
	"github.com/AmmannChristian/go-ccauth/oauth2client"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CCAUTH_CLIENT_ID.
const EnvPrefix = "CCAUTH"

const (
	keyClientID     = "client-id"
	keyClientSecret = "client-secret"
	keyEnvironment  = "environment"
	keyBaseURL      = "base-url"
	keySafetyMargin = "safety-margin"
	keyTimeout      = "timeout"
	keyCAFile       = "ca-file"
	keyMetricsAddr  = "metrics-addr"
	keyLogLevel     = "log-level"
	keyLogDev       = "log-dev"
)

// Environments maps environment names to their API base URLs.
var Environments = map[string]string{
	"sandbox": oauth2client.SandboxBaseURL,
	"live":    oauth2client.LiveBaseURL,
}

// Config holds the resolved settings. ClientSecret must never be logged.
type Config struct {
	ClientID     string
	ClientSecret string
	Environment  string
	BaseURL      string
	SafetyMargin time.Duration
	Timeout      time.Duration
	CAFile       string
	MetricsAddr  string
	LogLevel     string
	LogDev       bool
}

// Credentials returns the client credentials pair.
func (c Config) Credentials() oauth2client.Credentials {
	return oauth2client.Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}
}

// RegisterFlags defines the configuration flags on the given flag set.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(keyClientID, "", "OAuth2 client identifier")
	flags.String(keyClientSecret, "", "OAuth2 client secret (prefer "+EnvPrefix+"_CLIENT_SECRET)")
	flags.String(keyEnvironment, "sandbox", "API environment: sandbox or live")
	flags.String(keyBaseURL, "", "API base URL, overrides --environment")
	flags.Duration(keySafetyMargin, oauth2client.DefaultSafetyMargin, "refresh this long before the token expires")
	flags.Duration(keyTimeout, httpclient.DefaultTimeout, "HTTP request timeout")
	flags.String(keyCAFile, "", "PEM bundle of trusted CA certificates")
	flags.String(keyMetricsAddr, "", "serve Prometheus metrics on this address (e.g. :9090)")
	flags.String(keyLogLevel, "info", "log level: debug, info, warn, error")
	flags.Bool(keyLogDev, false, "human-readable development logging")
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load resolves the configuration from flags and the environment, then
// validates it.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("config: bind flags: %w", err)
	}

	cfg := Config{
		ClientID:     strings.TrimSpace(v.GetString(keyClientID)),
		ClientSecret: v.GetString(keyClientSecret),
		Environment:  strings.ToLower(strings.TrimSpace(v.GetString(keyEnvironment))),
		SafetyMargin: v.GetDuration(keySafetyMargin),
		Timeout:      v.GetDuration(keyTimeout),
		CAFile:       v.GetString(keyCAFile),
		MetricsAddr:  v.GetString(keyMetricsAddr),
		LogLevel:     v.GetString(keyLogLevel),
		LogDev:       v.GetBool(keyLogDev),
	}

	baseURL, err := ResolveBaseURL(cfg.Environment, v.GetString(keyBaseURL))
	if err != nil {
		return Config{}, err
	}
	cfg.BaseURL = baseURL

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolveBaseURL returns override if set, otherwise the base URL of the named environment.
func ResolveBaseURL(environment, override string) (string, error) {
	if override != "" {
		u, err := url.Parse(override)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "", fmt.Errorf("config: invalid base URL %q", override)
		}
		return strings.TrimRight(override, "/"), nil
	}

	baseURL, ok := Environments[environment]
	if !ok {
		return "", fmt.Errorf("config: unknown environment %q (want sandbox or live)", environment)
	}
	return baseURL, nil
}

// Validate reports missing or inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	if c.ClientID == "" {
		errs = append(errs, errors.New("config: client id is required"))
	}
	if c.ClientSecret == "" {
		errs = append(errs, errors.New("config: client secret is required"))
	}
	if c.SafetyMargin < 0 {
		errs = append(errs, fmt.Errorf("config: safety margin must not be negative, got %s", c.SafetyMargin))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("config: timeout must be positive, got %s", c.Timeout))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	return errors.Join(errs...)
}
