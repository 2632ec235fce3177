package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation"},
	)

	StreakRecalculations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_streak_recalculations_total",
			Help: "Number of streak recomputations after a completion or schedule change",
		},
	)

	StatsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_cache_lookups_total",
			Help: "Dashboard statistics cache lookups",
		},
		[]string{"result"}, // hit, miss, error
	)

	InvalidChecksPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_checks_purged_total",
			Help: "Checks removed because they predate their habit",
		},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveDBQuery is meant to be deferred with the statement start time.
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func IncStreakRecalculation() {
	StreakRecalculations.Inc()
}

func IncStatsCacheLookup(result string) {
	StatsCacheLookups.WithLabelValues(result).Inc()
}

func AddInvalidChecksPurged(n int64) {
	InvalidChecksPurged.Add(float64(n))
}
