// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lucy_intents_classified_total",
			Help: "Total number of messages classified, by intent",
		},
		[]string{"intent"},
	)

	ActionsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lucy_actions_dispatched_total",
			Help: "Total number of dispatched actions, by intent and result kind",
		},
		[]string{"intent", "result"},
	)

	RunPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lucy_run_polls_total",
			Help: "Total number of assistant run status polls, by observed status",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lucy_run_duration_seconds",
			Help:    "Duration from run creation to terminal state",
			Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"outcome"},
	)

	TurnErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lucy_turn_errors_total",
			Help: "Total number of turns that ended in the apology reply",
		},
		[]string{"error_code"},
	)
)

// Recorder exposes the collectors through small methods so workers can depend
// on an interface instead of the globals.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (Recorder) RecordIntent(intent string) {
	IntentsClassified.WithLabelValues(intent).Inc()
}

func (Recorder) RecordDispatch(intent, result string) {
	ActionsDispatched.WithLabelValues(intent, result).Inc()
}

func (Recorder) RecordPoll(status string) {
	RunPolls.WithLabelValues(status).Inc()
}

func (Recorder) RecordRunDuration(outcome string, d time.Duration) {
	RunDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (Recorder) RecordTurnError(code string) {
	TurnErrors.WithLabelValues(code).Inc()
}
