package oauth2client

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ccauth"

// metrics is nil-safe: a nil *metrics records nothing.
//
// Holders may share a registry. The acquisition counter and the running gauge
// aggregate across them; the expiry gauge reflects whichever holder acquired a
// token last, so it is only meaningful with one holder per registry.
type metrics struct {
	acquisitions *prometheus.CounterVec
	expiry       prometheus.Gauge
	running      prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	acquisitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "token_acquisitions_total",
		Help:      "Token requests sent to the authorization server, by result.",
	}, []string{"result"})
	expiry := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "token_expiry_timestamp_seconds",
		Help:      "Unix time at which the most recently acquired access token expires.",
	})
	running := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "token_refresher_running",
		Help:      "Number of background token refreshers currently active.",
	})

	m := &metrics{}
	var err error
	if m.acquisitions, err = registerOrReuse(reg, acquisitions); err != nil {
		return nil, err
	}
	if m.expiry, err = registerOrReuse(reg, expiry); err != nil {
		return nil, err
	}
	if m.running, err = registerOrReuse(reg, running); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or returns the collector already registered
// under the same descriptor.
func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("oauth2client: register metrics: %w", err)
	}
	return c, nil
}

func (m *metrics) observeSuccess(token AccessToken, acquiredAt time.Time) {
	if m == nil {
		return
	}
	m.acquisitions.WithLabelValues("success").Inc()
	m.expiry.Set(float64(acquiredAt.Add(token.Lifetime()).Unix()))
}

func (m *metrics) observeFailure() {
	if m == nil {
		return
	}
	m.acquisitions.WithLabelValues("failure").Inc()
}

func (m *metrics) refresherStarted() {
	if m == nil {
		return
	}
	m.running.Inc()
}

func (m *metrics) refresherStopped() {
	if m == nil {
		return
	}
	m.running.Dec()
}
