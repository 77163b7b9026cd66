package main

import (
	"context"
	"fmt"

	"github.com/AmmannChristian/go-ccauth/httpclient"
	"github.com/AmmannChristian/go-ccauth/internal/config"
	"github.com/AmmannChristian/go-ccauth/internal/logging"
	"github.com/AmmannChristian/go-ccauth/oauth2client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ccauth",
		Short:        "Obtain and refresh OAuth2 client-credentials access tokens",
		SilenceUsage: true,
	}
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newTokenCommand())
	cmd.AddCommand(newWatchCommand())
	cmd.AddCommand(newOrderCommand())
	return cmd
}

// session bundles what every subcommand needs once flags are parsed.
type session struct {
	cfg    config.Config
	logger *zap.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &session{cfg: cfg, logger: logger}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// startToken performs the initial acquisition and starts the refresher. reg
// may be nil.
func (s *session) startToken(ctx context.Context, reg prometheus.Registerer) (*oauth2client.RefreshingToken, error) {
	tokenClient, err := httpclient.NewBuilder().
		WithCAFile(s.cfg.CAFile).
		WithTimeout(s.cfg.Timeout).
		Build()
	if err != nil {
		return nil, err
	}

	opts := []oauth2client.Option{
		oauth2client.WithHTTPClient(tokenClient),
		oauth2client.WithSafetyMargin(s.cfg.SafetyMargin),
		oauth2client.WithZapLogger(s.logger),
	}
	if reg != nil {
		opts = append(opts, oauth2client.WithMetrics(reg))
	}
	return oauth2client.NewEndpointRefreshingToken(ctx, s.cfg.BaseURL, s.cfg.Credentials(), opts...)
}
