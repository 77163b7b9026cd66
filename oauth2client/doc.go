// Package oauth2client keeps an OAuth2 client-credentials access token fresh for
// any number of concurrent callers.
//
// NewRefreshingToken performs one synchronous token request and then starts a
// single background goroutine that replaces the token shortly before it
// expires. Callers read the live token with Current before every outbound
// request and never talk to the authorization server themselves.
//
// # Features
//
//   - Synchronous first acquisition: construction fails without leaving anything running
//   - Background refresh at expires_in minus a safety margin (DefaultSafetyMargin)
//   - Lock-protected single-writer/multi-reader token cell; Current never errors
//   - Terminal outcome via Done, Err and Wait; refresh failures are reported, never retried
//   - gRPC unary and stream client interceptors and an oauth2.TokenSource view
//   - Optional logging (WithLogger, WithLoggingEnabled, WithZapLogger) and Prometheus metrics (WithMetrics)
//
// # Quick Start
//
//	rt, err := oauth2client.NewEndpointRefreshingToken(
//	    ctx,
//	    oauth2client.SandboxBaseURL,
//	    oauth2client.Credentials{ClientID: "client-id", ClientSecret: "client-secret"},
//	    oauth2client.WithLoggingEnabled(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Shutdown()
//
//	req.Header.Set("Authorization", "Bearer "+rt.Current().Token)
//
// # Notes
//
//   - Shutdown is only observed between refreshes; a token request in flight completes first.
//   - After a failed refresh Current keeps returning the last token. Watch Done/Err and build a new
//     RefreshingToken if the application needs to recover.
package oauth2client
