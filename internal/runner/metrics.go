package runner

import "github.com/prometheus/client_golang/prometheus"

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runyard_executions_total",
			Help: "Total number of execution attempts by language and outcome",
		},
		[]string{"language", "status"},
	)

	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "runyard_execution_duration_seconds",
			Help:    "Wall-clock duration of sandbox calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(runsTotal, runDuration)
}
