package oauth2client

import (
	"context"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultSafetyMargin is subtracted from a token's lifetime when scheduling its
// replacement, to absorb clock skew and request latency.
const DefaultSafetyMargin = 10 * time.Second

// refreshIn returns how long to wait before replacing a token that expires in
// expiresIn seconds. The result is never negative.
func refreshIn(expiresIn uint64, margin time.Duration) time.Duration {
	if margin < 0 {
		margin = 0
	}

	lifetime := time.Duration(math.MaxInt64)
	if expiresIn < uint64(math.MaxInt64/int64(time.Second)) {
		lifetime = time.Duration(expiresIn) * time.Second
	}

	if lifetime <= margin {
		return 0
	}
	return lifetime - margin
}

// scheduler keeps a tokenCell fresh. It is the cell's only writer.
type scheduler struct {
	acquirer Acquirer
	creds    Credentials
	cell     *tokenCell
	clock    clockwork.Clock
	margin   time.Duration
	logger   Logger
	metrics  *metrics
}

// run loops until ctx is cancelled, which yields nil, or until an acquisition
// fails, which yields that error. Cancellation is only observed between
// refreshes: a request already in flight runs to completion on a context that
// ignores ctx's cancellation.
func (s *scheduler) run(ctx context.Context) error {
	acquireCtx := context.WithoutCancel(ctx)
	wait := refreshIn(s.cell.current().ExpiresIn, s.margin)

	for {
		// A shutdown requested during the previous refresh wins over a zero wait.
		if ctx.Err() != nil {
			s.logf("oauth2client: token refresher stopped")
			return nil
		}

		s.logf("oauth2client: refreshing access token in %s", wait)
		timer := s.clock.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logf("oauth2client: token refresher stopped")
			return nil
		case <-timer.Chan():
		}

		token, err := s.acquirer.Acquire(acquireCtx, s.creds)
		if err != nil {
			s.metrics.observeFailure()
			s.logf("oauth2client: token refresh failed, refresher exiting: %v", err)
			return err
		}

		now := s.clock.Now()
		s.cell.replace(token, now)
		s.metrics.observeSuccess(token, now)
		s.logf("oauth2client: obtained new access token (expires in %ds)", token.ExpiresIn)

		wait = refreshIn(token.ExpiresIn, s.margin)
	}
}

func (s *scheduler) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
