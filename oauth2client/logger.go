package oauth2client

import (
	"log"

	"go.uber.org/zap"
)

// Logger is an interface for optional logging in RefreshingToken.
// Implementations can log token refresh events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// WithLogger sets a custom logger for token refresh events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
func WithLoggingEnabled() Option {
	return func(o *options) {
		o.logger = log.Default()
	}
}

// WithZapLogger routes refresh events to a zap logger at info level.
func WithZapLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger == nil {
			o.logger = nil
			return
		}
		o.logger = zapLogger{sugar: logger.Sugar()}
	}
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapLogger) Printf(format string, args ...any) {
	l.sugar.Infof(format, args...)
}
