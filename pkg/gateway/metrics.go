package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes
const (
	outcomeSuccess   = "success"
	outcomeTransient = "transient"
	outcomePermanent = "permanent"
)

var (
	attemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubescript_gateway_attempts_total",
			Help: "Model calls attempted by the generation gateway, by outcome.",
		},
		[]string{"provider", "outcome"},
	)
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubescript_gateway_requests_total",
			Help: "Generation requests handled by the gateway, after retries.",
		},
		[]string{"provider", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubescript_gateway_request_duration_seconds",
			Help:    "Time spent in the gateway per request, retries included.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	tokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubescript_gateway_tokens_total",
			Help: "Tokens reported by the model, by kind.",
		},
		[]string{"provider", "kind"},
	)
)
