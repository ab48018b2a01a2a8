package netstatus

import "github.com/prometheus/client_golang/prometheus"

var connectivityGauge = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "dashsync",
	Subsystem: "client",
	Name:      "online",
	Help:      "1 if the last health probe of the sync server succeeded, 0 otherwise.",
})

func init() {
	prometheus.MustRegister(connectivityGauge)
}
