// Package httpclient builds HTTP clients that attach the live bearer token to
// every resource API request.
//
// BearerTransport reads the token from a TokenProvider (normally an
// *oauth2client.RefreshingToken) immediately before each request, so callers
// never cache tokens themselves. Builder adds timeouts, a custom CA bundle and
// redirect control on top.
//
// # Quick Start
//
//	client, err := httpclient.NewBuilder().
//	    WithTokenProvider(rt).
//	    WithTimeout(60 * time.Second).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Manual Transport Wrapping
//
//	client := &http.Client{Transport: httpclient.NewBearerTransport(rt, nil)}
package httpclient
