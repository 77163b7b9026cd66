package oauth2client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenPath         = "/v1/oauth2/token?grant_type=client_credentials"
	maxTokenBodyBytes = 1 << 20
	maxErrorBodyBytes = 512
)

// Acquirer performs a single token request. Implementations must not retry;
// retry policy belongs to the caller.
type Acquirer interface {
	Acquire(ctx context.Context, creds Credentials) (AccessToken, error)
}

// EndpointAcquirer requests tokens from {BaseURL}/v1/oauth2/token with the
// grant type in the query string and the credentials in a Basic auth header.
type EndpointAcquirer struct {
	// BaseURL selects the environment, e.g. SandboxBaseURL.
	BaseURL string

	// HTTPClient is used for the token request. If nil, http.DefaultClient is used.
	// Request timeouts are a property of this client.
	HTTPClient *http.Client
}

// Acquire implements Acquirer.
//
// Returns *NetworkError when the endpoint cannot be reached, *HTTPStatusError on
// a non-2xx response and *DecodeError when the body is not a token object.
func (a *EndpointAcquirer) Acquire(ctx context.Context, creds Credentials) (AccessToken, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := strings.TrimRight(a.BaseURL, "/") + tokenPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return AccessToken{}, &NetworkError{Err: err}
	}
	req.SetBasicAuth(creds.ClientID, creds.ClientSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en_US")

	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return AccessToken{}, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return AccessToken{}, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var wire tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTokenBodyBytes)).Decode(&wire); err != nil {
		return AccessToken{}, &DecodeError{Err: err}
	}
	if wire.AccessToken == "" {
		return AccessToken{}, &DecodeError{Err: errors.New("response missing access_token")}
	}
	if wire.ExpiresIn == nil {
		return AccessToken{}, &DecodeError{Err: errors.New("response missing expires_in")}
	}

	return AccessToken{Token: wire.AccessToken, ExpiresIn: *wire.ExpiresIn}, nil
}

// tokenResponse tells an absent expires_in apart from zero.
type tokenResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   *uint64 `json:"expires_in"`
}

// ClientCredentialsAcquirer requests tokens from a standard RFC 6749 token
// endpoint through golang.org/x/oauth2/clientcredentials. Use it for servers
// that expect the grant type in the form body rather than the query string.
type ClientCredentialsAcquirer struct {
	TokenURL string
	Scopes   []string

	// HTTPClient is used for the token request. If nil, the client carried in
	// the context under oauth2.HTTPClient (or http.DefaultClient) is used.
	HTTPClient *http.Client
}

// Acquire implements Acquirer.
func (a *ClientCredentialsAcquirer) Acquire(ctx context.Context, creds Credentials) (AccessToken, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.HTTPClient)
	}

	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     a.TokenURL,
		Scopes:       a.Scopes,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	tok, err := cfg.Token(ctx)
	if err != nil {
		return AccessToken{}, classifyOAuth2Error(err)
	}
	if tok.Expiry.IsZero() {
		return AccessToken{}, &DecodeError{Err: errors.New("response missing expires_in")}
	}

	remaining := time.Until(tok.Expiry).Round(time.Second)
	if remaining < 0 {
		remaining = 0
	}

	return AccessToken{
		Token:     tok.AccessToken,
		ExpiresIn: uint64(remaining / time.Second),
	}, nil
}

// classifyOAuth2Error maps x/oauth2 failures onto the acquisition error types.
func classifyOAuth2Error(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		// x/oauth2 reports an "error" field in a 2xx body as a RetrieveError too.
		if status >= 200 && status < 300 {
			return &DecodeError{Err: err}
		}
		body := retrieveErr.Body
		if len(body) > maxErrorBodyBytes {
			body = body[:maxErrorBodyBytes]
		}
		return &HTTPStatusError{StatusCode: status, Body: strings.TrimSpace(string(body))}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &NetworkError{Err: err}
	}

	return &DecodeError{Err: err}
}
