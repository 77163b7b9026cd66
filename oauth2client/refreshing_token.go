package oauth2client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"
)

// RefreshingToken holds an access token and keeps it fresh from a background
// goroutine. It is safe for concurrent use; Current never blocks on the
// network.
type RefreshingToken struct {
	cell   *tokenCell
	cancel context.CancelFunc
	done   chan struct{}
	err    error // written once before done is closed
}

// Option is a functional option for configuring RefreshingToken.
type Option func(*options)

type options struct {
	logger     Logger
	clock      clockwork.Clock
	margin     time.Duration
	httpClient *http.Client
	registerer prometheus.Registerer
}

// WithSafetyMargin sets how long before expiry a token is replaced.
// Default is DefaultSafetyMargin; negative values are treated as zero.
func WithSafetyMargin(margin time.Duration) Option {
	return func(o *options) {
		o.margin = margin
	}
}

// WithClock replaces the clock used to schedule refreshes.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithHTTPClient sets the client used by NewEndpointRefreshingToken.
// It has no effect on a caller-supplied Acquirer.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithMetrics registers token acquisition metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// NewEndpointRefreshingToken acquires a token from baseURL's token endpoint
// and keeps it fresh. See NewRefreshingToken.
//
// Parameters:
//   - ctx: Context for the initial token request
//   - baseURL: API base URL (e.g., SandboxBaseURL or LiveBaseURL)
//   - creds: OAuth2 client identifier and secret
//   - opts: Optional configuration options
func NewEndpointRefreshingToken(ctx context.Context, baseURL string, creds Credentials, opts ...Option) (*RefreshingToken, error) {
	o := newOptions(opts)
	return newRefreshingToken(ctx, &EndpointAcquirer{BaseURL: baseURL, HTTPClient: o.httpClient}, creds, o)
}

// NewRefreshingToken performs one synchronous acquisition and, if it succeeds,
// starts a goroutine that replaces the token shortly before it expires.
//
// If the initial acquisition fails, the error is returned and nothing is left
// running. ctx bounds the initial request only; the background goroutine keeps
// ctx's values but not its cancellation and runs until Shutdown is called or a
// refresh fails.
func NewRefreshingToken(ctx context.Context, acquirer Acquirer, creds Credentials, opts ...Option) (*RefreshingToken, error) {
	return newRefreshingToken(ctx, acquirer, creds, newOptions(opts))
}

func newOptions(opts []Option) *options {
	o := &options{
		clock:  clockwork.NewRealClock(),
		margin: DefaultSafetyMargin,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func newRefreshingToken(ctx context.Context, acquirer Acquirer, creds Credentials, o *options) (*RefreshingToken, error) {
	if acquirer == nil {
		return nil, errors.New("oauth2client: acquirer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var m *metrics
	if o.registerer != nil {
		var err error
		if m, err = newMetrics(o.registerer); err != nil {
			return nil, err
		}
	}

	if o.logger != nil {
		o.logger.Printf("oauth2client: acquiring access token for client %q", creds.ClientID)
	}
	token, err := acquirer.Acquire(ctx, creds)
	if err != nil {
		m.observeFailure()
		return nil, fmt.Errorf("oauth2client: initial token acquisition: %w", err)
	}
	acquiredAt := o.clock.Now()
	m.observeSuccess(token, acquiredAt)
	if o.logger != nil {
		o.logger.Printf("oauth2client: obtained access token (expires in %ds)", token.ExpiresIn)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	rt := &RefreshingToken{
		cell:   newTokenCell(token, acquiredAt),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s := &scheduler{
		acquirer: acquirer,
		creds:    creds,
		cell:     rt.cell,
		clock:    o.clock,
		margin:   o.margin,
		logger:   o.logger,
		metrics:  m,
	}

	m.refresherStarted()
	go func() {
		defer close(rt.done)
		defer m.refresherStopped()
		rt.err = s.run(runCtx)
	}()

	return rt, nil
}

// Current returns the most recently acquired token. It never fails; after a
// refresh failure (see Err) it keeps returning the last good token, which may
// be close to or past its expiry.
func (rt *RefreshingToken) Current() AccessToken {
	return rt.cell.current()
}

// Token implements oauth2.TokenSource. Expiry is derived from the time the
// token was acquired and its reported lifetime. Once a refresh has failed,
// Token returns that error instead of the stale token; Current does not.
func (rt *RefreshingToken) Token() (*oauth2.Token, error) {
	if err := rt.Err(); err != nil {
		return nil, fmt.Errorf("oauth2client: token refresher stopped: %w", err)
	}
	token, acquiredAt := rt.cell.snapshot()
	return &oauth2.Token{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		Expiry:      acquiredAt.Add(token.Lifetime()),
	}, nil
}

// Shutdown asks the background refresher to stop. It does not wait; use Wait
// or Done. A refresh already in flight completes before the refresher stops.
// Calling Shutdown more than once is safe.
func (rt *RefreshingToken) Shutdown() {
	rt.cancel()
}

// Done is closed when the background refresher has exited.
func (rt *RefreshingToken) Done() <-chan struct{} {
	return rt.done
}

// Err reports why the refresher exited: nil after a clean Shutdown, or the
// acquisition error that ended it. It returns nil while the refresher is running.
func (rt *RefreshingToken) Err() error {
	select {
	case <-rt.done:
		return rt.err
	default:
		return nil
	}
}

// Wait blocks until the refresher exits and returns its outcome (see Err), or
// until ctx is done, in which case ctx.Err() is returned.
func (rt *RefreshingToken) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-rt.done:
		return rt.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ oauth2.TokenSource = (*RefreshingToken)(nil)
