package oauth2client_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/AmmannChristian/go-ccauth/oauth2client"
	"google.golang.org/grpc"
)

func newExampleTokenServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"example-token","token_type":"Bearer","expires_in":32400}`))
	}))
}

// Example demonstrates reading the live token before an API call.
func Example() {
	server := newExampleTokenServer()
	defer server.Close()

	rt, err := oauth2client.NewEndpointRefreshingToken(
		context.Background(),
		server.URL,
		oauth2client.Credentials{ClientID: "client-id", ClientSecret: "client-secret"},
		oauth2client.WithHTTPClient(server.Client()),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rt.Shutdown()

	fmt.Println("Authorization: Bearer " + rt.Current().Token)
	// Output: Authorization: Bearer example-token
}

// ExampleRefreshingToken_Wait demonstrates a clean shutdown.
func ExampleRefreshingToken_Wait() {
	server := newExampleTokenServer()
	defer server.Close()

	rt, err := oauth2client.NewEndpointRefreshingToken(
		context.Background(),
		server.URL,
		oauth2client.Credentials{ClientID: "client-id", ClientSecret: "client-secret"},
		oauth2client.WithHTTPClient(server.Client()),
	)
	if err != nil {
		log.Fatal(err)
	}

	rt.Shutdown()
	if err := rt.Wait(context.Background()); err != nil {
		fmt.Println("refresher failed:", err)
		return
	}
	fmt.Println("refresher stopped")
	// Output: refresher stopped
}

// ExampleRefreshingToken_UnaryClientInterceptor demonstrates attaching the token to gRPC calls.
func ExampleRefreshingToken_UnaryClientInterceptor() {
	server := newExampleTokenServer()
	defer server.Close()

	rt, err := oauth2client.NewEndpointRefreshingToken(
		context.Background(),
		server.URL,
		oauth2client.Credentials{ClientID: "client-id", ClientSecret: "client-secret"},
		oauth2client.WithHTTPClient(server.Client()),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rt.Shutdown()

	opts := []grpc.DialOption{
		grpc.WithUnaryInterceptor(rt.UnaryClientInterceptor()),
		grpc.WithStreamInterceptor(rt.StreamClientInterceptor()),
	}

	fmt.Println(len(opts), "dial options configured")
	// Output: 2 dial options configured
}
