// Package testutil provides test helpers for go-ccauth packages.
//
// # Utilities
//
//   - MockTokenEndpoint: in-memory token endpoint with a swappable handler and request capture
//   - TokenResponse, StatusResponse, StaticJSONResponse: canned endpoint handlers
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - NewLocalHTTPServer: httptest server bound to 127.0.0.1
//   - WriteTestCACert: temporary CA certificate for TLS tests
package testutil
