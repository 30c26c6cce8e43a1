package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ethanbaker/tubescript/pkg/llm"
	"github.com/ethanbaker/tubescript/pkg/llm/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var (
	errTimeout = errors.New("request timeout after 30s")
	errQuota   = &llm.APIError{Provider: "google", StatusCode: http.StatusTooManyRequests, Message: "Resource has been exhausted (e.g. check quota)."}
)

func TestGatewayCall(t *testing.T) {
	req := llm.Request{Prompt: "script please"}

	t.Run("first attempt succeeds", func(t *testing.T) {
		p := mocks.NewMockProvider(t, "ok-provider", "m")
		p.On("Complete", mock.Anything, req).Return(&llm.Response{Text: "done"}, nil).Once()

		text, err := New(p).Call(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "done", text)
		p.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("two transient failures then success", func(t *testing.T) {
		p := mocks.NewMockProvider(t, "flaky", "m")
		p.On("Complete", mock.Anything, req).Return(nil, errTimeout).Once()
		p.On("Complete", mock.Anything, req).Return(nil, &llm.APIError{Provider: "flaky", StatusCode: 503, Message: "overloaded"}).Once()
		p.On("Complete", mock.Anything, req).Return(&llm.Response{Text: "third time"}, nil).Once()

		before := testutil.ToFloat64(attemptsTotal.WithLabelValues("flaky", outcomeTransient))

		text, err := New(p).Call(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "third time", text)
		p.AssertNumberOfCalls(t, "Complete", 3)
		assert.Equal(t, before+2, testutil.ToFloat64(attemptsTotal.WithLabelValues("flaky", outcomeTransient)))
	})

	t.Run("permanent failure is not retried", func(t *testing.T) {
		p := mocks.NewMockProvider(t, "quota", "m")
		p.On("Complete", mock.Anything, req).Return(nil, errQuota).Once()

		_, err := New(p).Call(context.Background(), req)
		require.Error(t, err)
		assert.Same(t, errQuota, err)
		p.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("exhausted retries surface the last error unchanged", func(t *testing.T) {
		last := fmt.Errorf("upstream returned 503")
		p := mocks.NewMockProvider(t, "down", "m")
		p.On("Complete", mock.Anything, req).Return(nil, errTimeout).Twice()
		p.On("Complete", mock.Anything, req).Return(nil, last).Once()

		_, err := New(p).Call(context.Background(), req)
		assert.Same(t, last, err)
		p.AssertNumberOfCalls(t, "Complete", 3)
	})

	t.Run("attempt budget is configurable", func(t *testing.T) {
		p := mocks.NewMockProvider(t, "single", "m")
		p.On("Complete", mock.Anything, req).Return(nil, errTimeout).Once()

		g := New(p, WithMaxAttempts(1))
		_, err := g.Call(context.Background(), req)
		assert.ErrorIs(t, err, errTimeout)
		assert.Equal(t, 1, g.MaxAttempts())
	})

	t.Run("cancellation stops the retry wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		p := mocks.NewMockProvider(t, "slow", "m")
		p.On("Complete", mock.Anything, req).Run(func(mock.Arguments) { cancel() }).Return(nil, errTimeout).Once()

		_, err := New(p, WithRetryDelay(time.Hour)).Call(ctx, req)
		assert.ErrorIs(t, err, errTimeout)
		p.AssertNumberOfCalls(t, "Complete", 1)
	})
}

func TestGatewayGenerate(t *testing.T) {
	req := llm.Request{Prompt: "p"}

	t.Run("success envelope", func(t *testing.T) {
		p := mocks.NewMockProvider(t, "env", "m")
		p.On("Complete", mock.Anything, req).Return(&llm.Response{Text: `{"a":1}`}, nil).Once()

		resp := New(p).Generate(context.Background(), req)
		assert.True(t, resp.Success)
		assert.Equal(t, `{"a":1}`, resp.Data)
		assert.Empty(t, resp.Error)
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("failure envelope", func(t *testing.T) {
		p := mocks.NewMockProvider(t, "env", "m")
		p.On("Complete", mock.Anything, req).Return(nil, errQuota).Once()

		resp := New(p).Generate(context.Background(), req)
		assert.False(t, resp.Success)
		assert.Empty(t, resp.Data)
		assert.Equal(t, errQuota.Error(), resp.Error)
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})

	t.Run("failure is logged once with the cause only", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		p := mocks.NewMockProvider(t, "env", "m")
		p.On("Complete", mock.Anything, req).Return(nil, errQuota).Once()

		New(p, WithLogger(zap.New(core))).Generate(context.Background(), req)

		entries := logs.FilterMessage("[GATEWAY]: generation failed").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, errQuota.Error(), fields["error"])
		assert.NotContains(t, fields, "at")
	})
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o deadline reached" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"timeout text", errors.New("Client.Timeout exceeded while awaiting headers"), true},
		{"503 text", errors.New("upstream said 503 Service Unavailable"), true},
		{"503 api error", &llm.APIError{StatusCode: http.StatusServiceUnavailable, Message: "overloaded"}, true},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"net timeout", timeoutError{}, true},
		{"quota", errQuota, false},
		{"auth", &llm.APIError{StatusCode: http.StatusUnauthorized, Message: "API key not valid"}, false},
		{"bad request", &llm.APIError{StatusCode: http.StatusBadRequest, Message: "invalid argument"}, false},
		{"canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestBudget(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		perAttempt  time.Duration
		delay       time.Duration
		want        time.Duration
	}{
		{"defaults", DefaultMaxAttempts, llm.DefaultTimeout, 0, 270*time.Second + budgetSlack},
		{"with delay", 3, 10 * time.Second, 2 * time.Second, 34*time.Second + budgetSlack},
		{"single attempt", 1, time.Second, time.Hour, time.Second + budgetSlack},
		{"unset attempts", 0, time.Second, 0, 3*time.Second + budgetSlack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Budget(tt.maxAttempts, tt.perAttempt, tt.delay))
		})
	}
}
