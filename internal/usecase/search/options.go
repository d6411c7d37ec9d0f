package search

import (
	"time"

	"go.uber.org/zap"
)

const defaultCallTimeout = 10 * time.Second

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCallTimeout bounds every repository call. Non-positive values keep the default.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPageRollback makes a failed NextPage restore the previous page number.
// Off by default: a failed page stays counted and the next NextPage skips it.
func WithPageRollback(enabled bool) Option {
	return func(c *Controller) { c.rollback = enabled }
}
