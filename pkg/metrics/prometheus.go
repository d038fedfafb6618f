package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	chartsServed *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	seriesPoints prometheus.Histogram
}

// New creates a Prometheus metrics recorder registered on reg.
// A nil reg registers on the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		chartsServed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnchart_charts_served_total",
				Help: "Total number of chart responses served",
			},
			[]string{"ticker"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnchart_history_cache_lookups_total",
				Help: "Price history cache lookups by result",
			},
			[]string{"result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnchart_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "earnchart_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		seriesPoints: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "earnchart_chart_points",
				Help:    "Number of points in served chart series",
				Buckets: []float64{1, 20, 60, 125, 250, 375, 500, 1000},
			},
		),
	}
}

// RecordChartServed records a served chart and its size.
func (r *Recorder) RecordChartServed(ticker string, points int) {
	r.chartsServed.WithLabelValues(ticker).Inc()
	r.seriesPoints.Observe(float64(points))
}

// RecordCacheLookup records a history cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
