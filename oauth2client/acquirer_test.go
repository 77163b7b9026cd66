package oauth2client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/AmmannChristian/go-ccauth/testutil"
)

var testCreds = Credentials{ClientID: "test-client", ClientSecret: "test-secret"}

func TestEndpointAcquirer_Acquire(t *testing.T) {
	endpoint := testutil.NewMockTokenEndpoint(t, testutil.TokenResponse("A21AAF-token", 32400))

	acquirer := &EndpointAcquirer{BaseURL: endpoint.URL + "/", HTTPClient: endpoint.Client}
	token, err := acquirer.Acquire(context.Background(), testCreds)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if token.Token != "A21AAF-token" {
		t.Errorf("expected token 'A21AAF-token', got %q", token.Token)
	}
	if token.ExpiresIn != 32400 {
		t.Errorf("expected expires_in 32400, got %d", token.ExpiresIn)
	}

	reqs := endpoint.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 token request, got %d", len(reqs))
	}
	req := reqs[0]

	if req.Method != http.MethodPost {
		t.Errorf("unexpected method: %s", req.Method)
	}
	if req.URL.Path != "/v1/oauth2/token" {
		t.Errorf("unexpected path: %s", req.URL.Path)
	}
	if got := req.URL.Query().Get("grant_type"); got != "client_credentials" {
		t.Errorf("expected grant_type=client_credentials, got %q", got)
	}
	if got := req.Header.Get("Accept"); got != "application/json" {
		t.Errorf("unexpected Accept header: %q", got)
	}
	if got := req.Header.Get("Accept-Language"); got != "en_US" {
		t.Errorf("unexpected Accept-Language header: %q", got)
	}

	user, pass, ok := req.BasicAuth()
	if !ok {
		t.Fatal("expected basic auth credentials")
	}
	if user != testCreds.ClientID || pass != testCreds.ClientSecret {
		t.Errorf("unexpected basic auth: %s:%s", user, pass)
	}
}

func TestEndpointAcquirer_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  testutil.RoundTripFunc
		sentinel error
		check    func(t *testing.T, err error)
	}{
		{
			name: "transport failure",
			handler: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
			sentinel: ErrNetwork,
			check: func(t *testing.T, err error) {
				var netErr *NetworkError
				if !errors.As(err, &netErr) {
					t.Fatalf("expected *NetworkError, got %T", err)
				}
				if !strings.Contains(err.Error(), "connection refused") {
					t.Errorf("cause missing from error: %v", err)
				}
			},
		},
		{
			name:     "unauthorized",
			handler:  testutil.StatusResponse(http.StatusUnauthorized, `{"error":"invalid_client"}`),
			sentinel: ErrHTTPStatus,
			check: func(t *testing.T, err error) {
				var statusErr *HTTPStatusError
				if !errors.As(err, &statusErr) {
					t.Fatalf("expected *HTTPStatusError, got %T", err)
				}
				if statusErr.StatusCode != http.StatusUnauthorized {
					t.Errorf("expected status 401, got %d", statusErr.StatusCode)
				}
				if !strings.Contains(statusErr.Body, "invalid_client") {
					t.Errorf("expected body to be captured, got %q", statusErr.Body)
				}
			},
		},
		{
			name:     "server error",
			handler:  testutil.StatusResponse(http.StatusServiceUnavailable, ""),
			sentinel: ErrHTTPStatus,
		},
		{
			name:     "malformed json",
			handler:  testutil.StaticJSONResponse(`{"access_token": "abc", "expires_in": `),
			sentinel: ErrDecode,
		},
		{
			name:     "wrong field type",
			handler:  testutil.StaticJSONResponse(`{"access_token": "abc", "expires_in": "soon"}`),
			sentinel: ErrDecode,
		},
		{
			name:     "negative lifetime",
			handler:  testutil.StaticJSONResponse(`{"access_token": "abc", "expires_in": -5}`),
			sentinel: ErrDecode,
		},
		{
			name:     "missing access token",
			handler:  testutil.StaticJSONResponse(`{"expires_in": 3600}`),
			sentinel: ErrDecode,
		},
		{
			name:     "missing expires_in",
			handler:  testutil.StaticJSONResponse(`{"access_token": "abc"}`),
			sentinel: ErrDecode,
			check: func(t *testing.T, err error) {
				if !strings.Contains(err.Error(), "missing expires_in") {
					t.Errorf("expected missing expires_in error, got %v", err)
				}
			},
		},
		{
			name:     "null expires_in",
			handler:  testutil.StaticJSONResponse(`{"access_token": "abc", "expires_in": null}`),
			sentinel: ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := testutil.NewMockTokenEndpoint(t, tt.handler)
			acquirer := &EndpointAcquirer{BaseURL: endpoint.URL, HTTPClient: endpoint.Client}

			token, err := acquirer.Acquire(context.Background(), testCreds)
			if err == nil {
				t.Fatalf("expected error, got token %+v", token)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("expected errors.Is(err, %v), got %v", tt.sentinel, err)
			}
			if token != (AccessToken{}) {
				t.Errorf("expected zero token on error, got %+v", token)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestEndpointAcquirer_ContextCancelled(t *testing.T) {
	endpoint := testutil.NewMockTokenEndpoint(t, func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})
	acquirer := &EndpointAcquirer{BaseURL: endpoint.URL, HTTPClient: endpoint.Client}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := acquirer.Acquire(ctx, testCreds)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestClientCredentialsAcquirer_Acquire(t *testing.T) {
	server := testutil.NewLocalHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("expected grant_type in body, got %q", got)
		}
		if got := r.PostForm.Get("scope"); got != "payments orders" {
			t.Errorf("unexpected scope: %q", got)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != testCreds.ClientID || pass != testCreds.ClientSecret {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"cc-token","token_type":"Bearer","expires_in":900}`))
	}))

	acquirer := &ClientCredentialsAcquirer{
		TokenURL:   server.URL + "/oauth/token",
		Scopes:     []string{"payments", "orders"},
		HTTPClient: server.Client(),
	}

	token, err := acquirer.Acquire(context.Background(), testCreds)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if token.Token != "cc-token" {
		t.Errorf("expected token 'cc-token', got %q", token.Token)
	}
	if token.ExpiresIn < 898 || token.ExpiresIn > 900 {
		t.Errorf("expected expires_in close to 900, got %d", token.ExpiresIn)
	}

	_, err = acquirer.Acquire(context.Background(), Credentials{ClientID: "other", ClientSecret: "wrong"})
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *HTTPStatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", statusErr.StatusCode)
	}
}

func TestClientCredentialsAcquirer_Errors(t *testing.T) {
	t.Run("missing expiry", func(t *testing.T) {
		server := testutil.NewLocalHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"cc-token","token_type":"Bearer"}`))
		}))
		acquirer := &ClientCredentialsAcquirer{TokenURL: server.URL, HTTPClient: server.Client()}

		_, err := acquirer.Acquire(context.Background(), testCreds)
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("expected decode error, got %v", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		server := testutil.NewLocalHTTPServer(t, http.NotFoundHandler())
		url := server.URL
		server.Close()

		acquirer := &ClientCredentialsAcquirer{TokenURL: url, HTTPClient: &http.Client{}}
		_, err := acquirer.Acquire(context.Background(), testCreds)
		if !errors.Is(err, ErrNetwork) {
			t.Fatalf("expected network error, got %v", err)
		}
	})
}
