package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultLimit  = 5
	DefaultWindow = 60 * time.Second
)

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time // End of the current window
}

// Limiter counts calls per caller in fixed wall-clock windows
type Limiter interface {
	// Allow records a call for key. Implementations may return an allowing Decision alongside
	// an error when their backing store fails.
	Allow(ctx context.Context, key string) (Decision, error)
	Name() string
}

type settings struct {
	now func() time.Time
	log *zap.Logger
}

// Option configures a limiter
type Option func(*settings)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// windowStart aligns t to the start of its window
func windowStart(t time.Time, window time.Duration) time.Time {
	return t.Truncate(window)
}
