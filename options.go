package mpsc

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// PoolOption configures a [Pool].
type PoolOption func(*poolConfig)

type poolConfig struct {
	onMetrics       func(PoolStats)
	metricsInterval time.Duration
	logger          logrus.FieldLogger
}

func defaultPoolConfig() poolConfig {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return poolConfig{logger: l}
}

// WithPoolMetrics registers a periodic pool metrics callback that fires
// every interval. The callback receives a snapshot of current pool counters.
//
// Panics if interval <= 0 or fn is nil.
func WithPoolMetrics(interval time.Duration, fn func(PoolStats)) PoolOption {
	if interval <= 0 {
		panic("mpsc: WithPoolMetrics requires interval > 0")
	}
	if fn == nil {
		panic("mpsc: WithPoolMetrics requires non-nil callback")
	}
	return func(c *poolConfig) {
		c.onMetrics = fn
		c.metricsInterval = interval
	}
}

// WithPoolLogger makes the pool log failed and panicking tasks, dropped
// work and dispatcher shutdown. Pools are silent by default.
func WithPoolLogger(l logrus.FieldLogger) PoolOption {
	if l == nil {
		panic("mpsc: WithPoolLogger requires non-nil logger")
	}
	return func(c *poolConfig) {
		c.logger = l
	}
}
