package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/ethanbaker/tubescript/pkg/llm"
	"github.com/ethanbaker/tubescript/pkg/logger"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"go.uber.org/zap"
)

// DefaultMaxAttempts is one call plus two retries
const DefaultMaxAttempts = 3

// budgetSlack covers the backend's own handling around the provider calls
const budgetSlack = 30 * time.Second

// Budget is the longest a single generate call can take on the backend: every attempt
// running into the per-attempt timeout, plus the delays between them. Clients must wait
// at least this long or they abandon calls the backend is still retrying.
func Budget(maxAttempts int, perAttempt, retryDelay time.Duration) time.Duration {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return time.Duration(maxAttempts)*perAttempt + time.Duration(maxAttempts-1)*retryDelay + budgetSlack
}

// Gateway is the single path from the backend to the model provider
type Gateway struct {
	provider    llm.Provider
	maxAttempts int
	retryDelay  time.Duration
	log         *zap.Logger
}

// Option configures a Gateway
type Option func(*Gateway)

// WithMaxAttempts caps the total number of attempts per call (minimum 1)
func WithMaxAttempts(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithRetryDelay waits between attempts; zero retries immediately
func WithRetryDelay(d time.Duration) Option {
	return func(g *Gateway) {
		g.retryDelay = d
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		g.log = l
	}
}

func New(provider llm.Provider, opts ...Option) *Gateway {
	g := &Gateway{
		provider:    provider,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = logger.OrNop(g.log).With(zap.String("provider", provider.Name()))
	return g
}

// Provider returns the wrapped provider
func (g *Gateway) Provider() llm.Provider {
	return g.provider
}

// MaxAttempts returns the attempt budget per call
func (g *Gateway) MaxAttempts() int {
	return g.maxAttempts
}

// Call runs the request, retrying transient failures until the attempt budget is spent.
// The error of the last attempt is returned as is.
func (g *Gateway) Call(ctx context.Context, req llm.Request) (string, error) {
	name := g.provider.Name()
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		resp, err := g.provider.Complete(ctx, req)
		if err == nil {
			attemptsTotal.WithLabelValues(name, outcomeSuccess).Inc()
			requestsTotal.WithLabelValues(name, outcomeSuccess).Inc()
			tokensTotal.WithLabelValues(name, "prompt").Add(float64(resp.PromptTokens))
			tokensTotal.WithLabelValues(name, "output").Add(float64(resp.OutputTokens))

			if attempt > 1 {
				g.log.Info("[GATEWAY]: call succeeded after retry", zap.Int("attempt", attempt))
			}
			return resp.Text, nil
		}
		lastErr = err

		if !IsTransient(err) {
			attemptsTotal.WithLabelValues(name, outcomePermanent).Inc()
			break
		}
		attemptsTotal.WithLabelValues(name, outcomeTransient).Inc()

		if attempt == g.maxAttempts || ctx.Err() != nil {
			break
		}

		g.log.Warn("[GATEWAY]: transient failure, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.maxAttempts),
			zap.Error(err),
		)

		if g.retryDelay > 0 {
			timer := time.NewTimer(g.retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				requestsTotal.WithLabelValues(name, "error").Inc()
				return "", lastErr
			case <-timer.C:
			}
		}
	}

	requestsTotal.WithLabelValues(name, "error").Inc()
	return "", lastErr
}

// Generate wraps Call in the response envelope
func (g *Gateway) Generate(ctx context.Context, req llm.Request) sdk.ApiResponse[string] {
	text, err := g.Call(ctx, req)
	if err != nil {
		g.log.Error("[GATEWAY]: generation failed", zap.Error(err))
		return sdk.ApiResponse[string]{
			Code:    http.StatusInternalServerError,
			Success: false,
			Error:   err.Error(),
		}
	}

	return sdk.NewSuccessResponse(text)
}
