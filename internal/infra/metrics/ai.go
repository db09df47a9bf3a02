package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiTokensIn,
		aiTokensOut,
		aiTokensTotal,
		aiCallsLatencyMs,
		aiParseFailures,
	)
}

var (
	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of prompt (input) tokens per purpose/model.",
		},
		[]string{"purpose", "model"},
	)

	aiTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Sum of completion (output) tokens per purpose/model.",
		},
		[]string{"purpose", "model"},
	)

	aiTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_total",
			Help: "Sum of total tokens per purpose/model.",
		},
		[]string{"purpose", "model"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "AI call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 20000},
		},
		[]string{"purpose", "model", "success"},
	)

	aiParseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_parse_failures",
			Help: "Responses that failed JSON parsing after fence stripping.",
		},
		[]string{"purpose"},
	)
)

// ObserveAICall records latency + token usage for one completion call.
// purpose is "questions" or "feedback".
func ObserveAICall(purpose, model string, start time.Time, promptTokens, completionTokens, totalTokens int, success bool) {
	aiCallsLatencyMs.WithLabelValues(purpose, model, strconv.FormatBool(success)).
		Observe(float64(time.Since(start).Milliseconds()))
	if success {
		aiTokensIn.WithLabelValues(purpose, model).Add(float64(promptTokens))
		aiTokensOut.WithLabelValues(purpose, model).Add(float64(completionTokens))
		aiTokensTotal.WithLabelValues(purpose, model).Add(float64(totalTokens))
	}
}

func IncParseFailure(purpose string) {
	aiParseFailures.WithLabelValues(purpose).Inc()
}
