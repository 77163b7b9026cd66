package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// NewLocalHTTPServer starts an HTTP server bound to IPv4 loopback only.
// The sandbox blocks IPv6 listeners, so force tcp4 to keep tests runnable.
func NewLocalHTTPServer(tb testing.TB, handler http.Handler) *httptest.Server {
	tb.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("failed to create IPv4 listener: %v", err)
	}

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()
	tb.Cleanup(server.Close)

	return server
}

// RoundTripFunc allows inlining http.RoundTripper implementations.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// MockTokenEndpoint simulates a token endpoint without real sockets.
// Requests sent through Client are recorded and answered by the current handler,
// which can be swapped while a test runs.
type MockTokenEndpoint struct {
	URL    string
	Client *http.Client

	mu       sync.Mutex
	handler  RoundTripFunc
	requests []*http.Request
}

// NewMockTokenEndpoint builds a mock endpoint backed by an in-memory RoundTripper.
// If handler is nil, it returns a default successful token response.
func NewMockTokenEndpoint(tb testing.TB, handler RoundTripFunc) *MockTokenEndpoint {
	tb.Helper()

	if handler == nil {
		handler = TokenResponse("mock-access-token", 3600)
	}

	m := &MockTokenEndpoint{
		URL:     "https://mock-oauth.example.com",
		handler: handler,
	}
	m.Client = &http.Client{Transport: RoundTripFunc(m.roundTrip)}

	return m
}

func (m *MockTokenEndpoint) roundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	handler := m.handler
	m.mu.Unlock()

	return handler(req)
}

// SetHandler replaces the handler used for subsequent requests.
func (m *MockTokenEndpoint) SetHandler(handler RoundTripFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
}

// Requests returns a copy of the recorded requests.
func (m *MockTokenEndpoint) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*http.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns the number of recorded requests.
func (m *MockTokenEndpoint) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// TokenResponse returns a handler that always issues the given token.
func TokenResponse(token string, expiresIn uint64) RoundTripFunc {
	return StaticJSONResponse(fmt.Sprintf(`{
		"scope": "https://uri.paypal.com/services/payments/payment",
		"access_token": %q,
		"token_type": "Bearer",
		"app_id": "APP-80W284485P519543T",
		"expires_in": %d
	}`, token, expiresIn))
}

// StaticJSONResponse returns a RoundTripper that always responds with the provided JSON body.
func StaticJSONResponse(body string) RoundTripFunc {
	return StatusResponse(http.StatusOK, body)
}

// StatusResponse returns a RoundTripper that always responds with the given status and body.
func StatusResponse(status int, body string) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: status,
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// WriteTestCACert writes a self-signed CA certificate to the provided path for TLS tests.
func WriteTestCACert(tb testing.TB, path string) {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		Subject:               pkix.Name{CommonName: "test-ca"},
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		tb.Fatalf("failed to create CA certificate: %v", err)
	}

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		tb.Fatalf("failed to write CA certificate: %v", err)
	}
}
