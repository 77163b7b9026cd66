package httpclient

import (
	"errors"
	"net/http"

	"github.com/AmmannChristian/go-ccauth/oauth2client"
)

// TokenProvider supplies the token to attach to each request.
// *oauth2client.RefreshingToken implements it.
type TokenProvider interface {
	Current() oauth2client.AccessToken
}

// BearerTransport is an http.RoundTripper that sets
// "Authorization: Bearer <token>" on every outgoing request, reading the
// token from Tokens immediately before the request is sent.
type BearerTransport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Tokens provides the current access token.
	Tokens TokenProvider
}

// RoundTrip implements http.RoundTripper. The caller's request is not modified.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Tokens == nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, errors.New("httpclient: token provider is nil")
	}

	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+t.Tokens.Current().Token)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(reqClone)
}

// NewBearerTransport creates a BearerTransport reading tokens from tokens.
// The base transport defaults to http.DefaultTransport if not specified.
func NewBearerTransport(tokens TokenProvider, base http.RoundTripper) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &BearerTransport{
		Base:   base,
		Tokens: tokens,
	}
}
