package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type counter struct {
	start time.Time
	count int
}

// MemoryLimiter keeps window counters in process memory
type MemoryLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string]*counter
	settings settings
	cron     *cron.Cron
}

func NewMemoryLimiter(limit int, window time.Duration, opts ...Option) *MemoryLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		counters: make(map[string]*counter),
		settings: newSettings(opts),
		cron:     cron.New(),
	}
}

func (l *MemoryLimiter) Name() string { return "memory" }

// Allow counts a call for key; calls past the limit are rejected and not counted
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	start := windowStart(l.settings.now(), l.window)
	decision := Decision{Limit: l.limit, Reset: start.Add(l.window)}

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counters[key]
	if !ok || !c.start.Equal(start) {
		c = &counter{start: start}
		l.counters[key] = c
	}

	if c.count >= l.limit {
		return decision, nil
	}

	c.count++
	decision.Allowed = true
	decision.Remaining = l.limit - c.count
	return decision, nil
}

// Purge drops counters from past windows and returns how many were removed
func (l *MemoryLimiter) Purge() int {
	current := windowStart(l.settings.now(), l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, c := range l.counters {
		if c.start.Before(current) {
			delete(l.counters, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked callers
func (l *MemoryLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}

// Start schedules the purge job
func (l *MemoryLimiter) Start() error {
	_, err := l.cron.AddFunc("@every 1m", func() {
		if removed := l.Purge(); removed > 0 {
			l.settings.log.Debug("[RATELIMIT]: purged stale windows", zap.Int("removed", removed))
		}
	})
	if err != nil {
		return err
	}

	l.cron.Start()
	return nil
}

// Stop halts the purge job and waits for a running purge to finish
func (l *MemoryLimiter) Stop() {
	<-l.cron.Stop().Done()
}
