package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	collectors   []prometheus.Collector
)

// register enqueues collectors at init time; the ai, db and session files
// each contribute their own.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// MustRegister installs every enqueued collector (AI call/token counters,
// query latency and pool gauges, session lifecycle counters) into the
// default Prometheus registry, exactly once per process.
func MustRegister() {
	registerOnce.Do(func() {
		if len(collectors) > 0 {
			prometheus.MustRegister(collectors...)
		}
	})
}
