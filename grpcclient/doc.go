// Package grpcclient builds gRPC client connections whose calls carry a
// bearer token from an oauth2client.RefreshingToken.
//
// Connections use TLS 1.2+ with system roots unless WithTLS supplies a custom
// CA or a client certificate for mTLS.
//
// # Quick Start
//
//	rt, err := oauth2client.NewEndpointRefreshingToken(ctx, oauth2client.SandboxBaseURL, creds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Shutdown()
//
//	conn, err := grpcclient.NewBuilder().
//	    WithAddress("orders.example.com:9090").
//	    WithRefreshingToken(rt).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
package grpcclient
