package tenant

import (
	"log/slog"
	"time"

	"github.com/storekit-io/storekit/pkg/audit"
)

// guardConfig holds the guard's wiring.
type guardConfig struct {
	sink          audit.Sink
	directory     Directory
	logger        *slog.Logger
	slowThreshold time.Duration
}

func defaultGuardConfig() *guardConfig {
	return &guardConfig{
		sink:          audit.NewSlogSink(nil),
		logger:        slog.Default(),
		slowThreshold: 2 * time.Second,
	}
}

// Option configures the guard.
type Option func(*guardConfig)

// WithAuditSink routes security incidents to a custom sink, typically an
// audit.AsyncSink over a persistent backend.
func WithAuditSink(sink audit.Sink) Option {
	return func(c *guardConfig) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithDirectory makes the guard verify that a resolved identity names a
// known, active tenant before passing the request through.
func WithDirectory(d Directory) Option {
	return func(c *guardConfig) {
		c.directory = d
	}
}

// WithLogger sets the logger for slow-operation warnings and handler panic
// annotation.
func WithLogger(logger *slog.Logger) Option {
	return func(c *guardConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSlowThreshold sets the handler latency past which a warning is logged.
// Zero disables the warning.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *guardConfig) {
		c.slowThreshold = d
	}
}
