// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_processed_total",
			Help: "Total number of conversation turns processed",
		},
		[]string{"loan_type", "outcome"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chat_turn_duration_seconds",
			Help: "Duration of one conversation turn in seconds",
		},
		[]string{"loan_type"},
	)

	ExtractionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "field_extraction_fallbacks_total",
			Help: "Turns where extraction degraded to the deterministic path",
		},
		[]string{"loan_type", "reason"},
	)

	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "field_validation_rejections_total",
			Help: "Field values rejected by product validation rules",
		},
		[]string{"loan_type", "field", "kind"},
	)

	DecisionsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_decisions_issued_total",
			Help: "Verdicts produced by the decision engine",
		},
		[]string{"loan_type", "status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_sessions_active",
			Help: "Number of live chat sessions in the store",
		},
	)
)
