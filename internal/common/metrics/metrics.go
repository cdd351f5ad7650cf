// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_messages_processed_total",
			Help: "Total number of inbox messages processed, by outcome",
		},
		[]string{"outcome"},
	)

	RepliesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_replies_generated_total",
			Help: "Total number of replies generated, by source and intent",
		},
		[]string{"source", "intent"},
	)

	RepliesEscalated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_replies_escalated_total",
			Help: "Total number of replies held or flagged for human review",
		},
		[]string{"intent", "auto_sent"},
	)

	ProviderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_provider_failures_total",
			Help: "Total number of generation provider failures, by failure class",
		},
		[]string{"class"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "inbox_pipeline_duration_seconds",
			Help: "Duration of per-message pipeline processing in seconds",
		},
		[]string{"outcome"},
	)

	MessagesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inbox_messages_active",
			Help: "Number of messages currently being processed",
		},
	)
)
