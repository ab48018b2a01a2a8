package sync

import "github.com/prometheus/client_golang/prometheus"

var (
	passCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashsync",
		Subsystem: "sync",
		Name:      "passes_total",
		Help:      "Number of sync passes, labeled by result (success, failure, rejected).",
	}, []string{"result"})

	entryCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashsync",
		Subsystem: "sync",
		Name:      "entries_total",
		Help:      "Number of processed queue entries, labeled by outcome.",
	}, []string{"outcome"})

	conflictCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashsync",
		Subsystem: "sync",
		Name:      "conflicts_total",
		Help:      "Number of HTTP 409 conflicts, labeled by the side that won.",
	}, []string{"winner"})

	passDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dashsync",
		Subsystem: "sync",
		Name:      "pass_duration_seconds",
		Help:      "Time spent draining the sync queue in one pass.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	lastSuccessGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dashsync",
		Subsystem: "sync",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful sync pass.",
	})
)

func init() {
	prometheus.MustRegister(passCounter, entryCounter, conflictCounter, passDuration, lastSuccessGauge)
}
