package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "earnchart",
			Subsystem: "provider",
			Name:      "latency_seconds",
			Help:      "Latency of upstream price history requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	ProviderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "earnchart",
			Subsystem: "provider",
			Name:      "errors_total",
			Help:      "Upstream price history errors by kind",
		},
		[]string{"provider", "kind"},
	)

	ProviderThrottled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "earnchart",
			Subsystem: "provider",
			Name:      "throttled_total",
			Help:      "Requests that waited on the local rate limiter",
		},
		[]string{"provider"},
	)
)

// Register adds the provider collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(ProviderLatency, ProviderErrors, ProviderThrottled)
	})
}
