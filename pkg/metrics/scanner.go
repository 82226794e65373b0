package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scanner"

//nolint:gochecknoglobals
var (
	ListingsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_processed_total",
		Help:      "Player pages opened and evaluated.",
	})

	DealsFlagged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deals_flagged_total",
		Help:      "Listings recorded as deals.",
	})

	RetryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retry_attempts_total",
		Help:      "Browser action attempts by outcome.",
	}, []string{"outcome"})

	StateResets = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "state_resets_total",
		Help:      "Corrupted state files moved aside and reset to defaults.",
	})

	ReconcileKept = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reconcile_kept",
		Help:      "Deal lines kept by the last reconciliation.",
	})

	ReconcileRemoved = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reconcile_removed",
		Help:      "Deal lines removed by the last reconciliation.",
	})
)

// RetryObserver counts retry attempts by outcome.
type RetryObserver struct{}

func (RetryObserver) ObserveAttempt(outcome string) {
	RetryAttempts.WithLabelValues(outcome).Inc()
}
