package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashsync",
		Subsystem: "server",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled by route, method and status code.",
	}, []string{"route", "method", "code"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dashsync",
		Subsystem: "server",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	rateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dashsync",
		Subsystem: "server",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})

	panicsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dashsync",
		Subsystem: "server",
		Name:      "panics_total",
		Help:      "Handler panics recovered.",
	})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, rateLimitedTotal, panicsTotal)
}
