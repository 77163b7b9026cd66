package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout is applied to clients built without WithTimeout.
const DefaultTimeout = 30 * time.Second

// Builder provides a fluent interface for constructing HTTP clients for the
// token endpoint and the resource API, with optional bearer token injection
// and a custom CA bundle.
type Builder struct {
	tokens TokenProvider

	caFile string

	timeout         time.Duration
	baseTransport   http.RoundTripper
	followRedirects bool
}

// NewBuilder creates a new HTTP client builder.
func NewBuilder() *Builder {
	return &Builder{
		timeout:         DefaultTimeout,
		followRedirects: true,
	}
}

// WithTokenProvider enables bearer token injection from tokens.
// Leave unset for the client that talks to the token endpoint itself.
func (b *Builder) WithTokenProvider(tokens TokenProvider) *Builder {
	b.tokens = tokens
	return b
}

// WithCAFile trusts the PEM certificates in caFile instead of the system roots.
func (b *Builder) WithCAFile(caFile string) *Builder {
	b.caFile = caFile
	return b
}

// WithTimeout sets the request timeout for the HTTP client.
// Token request timeouts are governed by this value.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithBaseTransport sets a custom base transport. TLS settings are not applied to it.
func (b *Builder) WithBaseTransport(transport http.RoundTripper) *Builder {
	b.baseTransport = transport
	return b
}

// WithoutRedirects disables automatic redirect following.
func (b *Builder) WithoutRedirects() *Builder {
	b.followRedirects = false
	return b
}

// Build constructs the HTTP client with the configured options.
func (b *Builder) Build() (*http.Client, error) {
	transport := b.baseTransport
	if transport == nil {
		tlsConfig, err := b.buildTLSConfig()
		if err != nil {
			return nil, fmt.Errorf("httpclient: TLS config failed: %w", err)
		}

		if httpTransport, ok := http.DefaultTransport.(*http.Transport); ok {
			httpTransport = httpTransport.Clone()
			httpTransport.TLSClientConfig = tlsConfig
			transport = httpTransport
		} else {
			// Default transport replaced (e.g. by a test stub); use it as is.
			transport = http.DefaultTransport
		}
	}

	if b.tokens != nil {
		transport = NewBearerTransport(b.tokens, transport)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   b.timeout,
	}

	if !b.followRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client, nil
}

func (b *Builder) buildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if b.caFile != "" {
		caCert, err := os.ReadFile(b.caFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}

		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA certificate")
		}
		tlsConfig.RootCAs = certPool
	}

	return tlsConfig, nil
}

// NewHTTPClient is a convenience function that creates an HTTP client which
// attaches tokens from tokens to every request. For more options, use Builder.
//
// Example:
//
//	rt, err := oauth2client.NewEndpointRefreshingToken(ctx, oauth2client.SandboxBaseURL, creds)
//	client := httpclient.NewHTTPClient(rt)
//	resp, err := client.Get(oauth2client.SandboxBaseURL + "/v2/checkout/orders/5O190127TN364715T")
func NewHTTPClient(tokens TokenProvider) *http.Client {
	return &http.Client{
		Transport: NewBearerTransport(tokens, nil),
		Timeout:   DefaultTimeout,
	}
}
