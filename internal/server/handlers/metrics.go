package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	recordWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashsync",
		Subsystem: "server",
		Name:      "record_writes_total",
		Help:      "Accepted record writes by collection and operation.",
	}, []string{"collection", "op"})

	recordConflictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashsync",
		Subsystem: "server",
		Name:      "record_conflicts_total",
		Help:      "Writes rejected with 409 because the stored record is newer.",
	}, []string{"collection"})

	forcedWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashsync",
		Subsystem: "server",
		Name:      "forced_writes_total",
		Help:      "Writes carrying the force-update header.",
	}, []string{"collection"})
)

func init() {
	prometheus.MustRegister(recordWritesTotal, recordConflictsTotal, forcedWritesTotal)
}
