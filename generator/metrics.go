package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	completionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_generator_completion_requests_total",
			Help: "Total number of generation requests by model and outcome.",
		},
		[]string{"model", "status"},
	)
	completionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_generator_completion_duration_seconds",
			Help:    "Duration of completion calls, retries included.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	completionRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_generator_completion_retries_total",
			Help: "Retries issued after a failed completion attempt.",
		},
		[]string{"model"},
	)
	promptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_generator_prompt_tokens",
			Help:    "Token count of compiled prompts (system + user).",
			Buckets: prometheus.LinearBuckets(100, 100, 10), // 100 .. 1000
		},
		[]string{"model", "platform_class"},
	)
)

// status label values
const (
	statusSuccess    = "success"
	statusInvalid    = "invalid"
	statusError      = "error"
	statusEmptyReply = "error_empty_response"
)
