package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
)

var (
	// Webhook intake
	WebhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calling_agent_webhooks_total",
			Help: "Normalized call-completion webhooks by payload version, call source and validity",
		},
		[]string{"version", "source", "valid"},
	)

	WebhookOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calling_agent_webhook_outcomes_total",
			Help: "Webhook deliveries by handling outcome",
		},
		[]string{"outcome"},
	)

	// Normalization
	NormalizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "calling_agent_normalization_duration_seconds",
			Help:    "Duration of webhook normalization in seconds",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		},
	)

	NormalizationFindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calling_agent_normalization_findings_total",
			Help: "Errors and warnings recorded while normalizing webhooks",
		},
		[]string{"severity"},
	)

	AnalysisStrategyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calling_agent_analysis_strategy_total",
			Help: "Which locator strategy found the analysis literal; empty when none did",
		},
		[]string{"strategy"},
	)

	// Storage
	StorageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "calling_agent_storage_duration_seconds",
			Help:    "Duration of call persistence in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Outcome labels for WebhookOutcomes.
const (
	OutcomeAccepted   = "accepted"
	OutcomeDuplicate  = "duplicate"
	OutcomeBadRequest = "bad_request"
	OutcomeStoreError = "store_error"
)

// ObserveNormalized records one normalized webhook.
func ObserveNormalized(nw webhook.NormalizedWebhook, took time.Duration) {
	WebhooksTotal.WithLabelValues(string(nw.Version), string(nw.Source), strconv.FormatBool(nw.IsValid)).Inc()
	NormalizationDuration.Observe(took.Seconds())
	NormalizationFindings.WithLabelValues("error").Add(float64(len(nw.Errors)))
	NormalizationFindings.WithLabelValues("warning").Add(float64(len(nw.Warnings)))
	AnalysisStrategyTotal.WithLabelValues(nw.AnalysisStrategy).Inc()
}

// ObserveOutcome records how a delivery was handled.
func ObserveOutcome(outcome string) {
	WebhookOutcomes.WithLabelValues(outcome).Inc()
}
