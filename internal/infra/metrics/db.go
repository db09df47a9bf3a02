package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(dbPoolStats, dbQueryLatencyMs, cacheLookups) }

var (
	dbPoolStats = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_stats",
			Help: "Current state of the database connection pool.",
		},
		[]string{"state"}, // 'total', 'idle', 'in_use'
	)

	dbQueryLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_latency_ms",
			Help:    "Repository query latency in milliseconds.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"query"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups",
			Help: "Cache decorator lookups by entity and result.",
		},
		[]string{"entity", "result"},
	)
)

func SetDBPoolStats(total, idle, inUse int32) {
	dbPoolStats.WithLabelValues("total").Set(float64(total))
	dbPoolStats.WithLabelValues("idle").Set(float64(idle))
	dbPoolStats.WithLabelValues("in_use").Set(float64(inUse))
}

// ObserveQuery times one repository query.
// Usage: defer metrics.ObserveQuery("interviews.save")()
func ObserveQuery(name string) func() {
	start := time.Now()
	return func() {
		dbQueryLatencyMs.WithLabelValues(name).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func IncCacheHit(entity string)  { cacheLookups.WithLabelValues(entity, "hit").Inc() }
func IncCacheMiss(entity string) { cacheLookups.WithLabelValues(entity, "miss").Inc() }
