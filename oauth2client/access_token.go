package oauth2client

import (
	"fmt"
	"time"
)

// Base URLs of the two checkout environments. The environment is always passed
// explicitly to the constructors; these are provided for convenience.
const (
	SandboxBaseURL = "https://api.sandbox.paypal.com"
	LiveBaseURL    = "https://api.paypal.com"
)

// AccessToken is a bearer token as returned by the token endpoint.
// Values are immutable; a refresh produces a new AccessToken.
type AccessToken struct {
	Token     string `json:"access_token"`
	ExpiresIn uint64 `json:"expires_in"`
}

// Lifetime returns the reported lifetime as a duration.
func (t AccessToken) Lifetime() time.Duration {
	return time.Duration(t.ExpiresIn) * time.Second
}

// Credentials is a client identifier/secret pair for the client-credentials grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// String never includes the client secret.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{ClientID: %q, ClientSecret: <redacted>}", c.ClientID)
}

// GoString keeps the secret out of %#v output.
func (c Credentials) GoString() string {
	return c.String()
}
