package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metricsShutdownTimeout = 5 * time.Second

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep an access token fresh until interrupted",
		Long: "Acquire an access token and refresh it shortly before each expiry until " +
			"SIGINT or SIGTERM arrives. Exits non-zero if a refresh fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var reg *prometheus.Registry
			if s.cfg.MetricsAddr != "" {
				reg = newMetricsRegistry()
			}

			rt, err := s.startToken(ctx, registererOrNil(reg))
			if err != nil {
				return err
			}
			defer rt.Shutdown()

			if reg != nil {
				srv := &http.Server{
					Addr:              s.cfg.MetricsAddr,
					Handler:           newMetricsMux(reg),
					ReadHeaderTimeout: 10 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						s.logger.Error("metrics server failed", zap.Error(err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
				s.logger.Info("serving metrics", zap.String("addr", s.cfg.MetricsAddr))
			}

			s.logger.Info("token refresher running; press Ctrl+C to stop",
				zap.String("client_id", s.cfg.ClientID),
				zap.String("base_url", s.cfg.BaseURL))

			select {
			case <-ctx.Done():
				s.logger.Info("shutting down")
				rt.Shutdown()
				<-rt.Done()
				return nil
			case <-rt.Done():
				err := rt.Err()
				if err != nil {
					s.logger.Error("token refresh failed", zap.Error(err))
				}
				return err
			}
		},
	}
}

func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newMetricsMux(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

// registererOrNil avoids handing a typed nil *Registry to an interface.
func registererOrNil(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}
