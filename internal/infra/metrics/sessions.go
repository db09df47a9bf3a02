package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		sessionsLive,
		sessionTerminations,
		sessionOutcomes,
		emptyTranscripts,
	)
}

var (
	sessionsLive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "interview_sessions_live",
			Help: "Sessions currently between join and terminal state.",
		},
	)

	sessionTerminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_session_terminations",
			Help: "Termination triggers by source (user|timeout|sdk|error|shutdown).",
		},
		[]string{"source"},
	)

	sessionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_session_outcomes",
			Help: "Terminal routes reached by finished sessions.",
		},
		[]string{"route"},
	)

	emptyTranscripts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "interview_empty_transcripts",
			Help: "Ended calls that produced no transcript (recorded anomaly).",
		},
	)
)

func IncSessionsLive()               { sessionsLive.Inc() }
func DecSessionsLive()               { sessionsLive.Dec() }
func IncTermination(source string)   { sessionTerminations.WithLabelValues(source).Inc() }
func IncSessionOutcome(route string) { sessionOutcomes.WithLabelValues(route).Inc() }
func IncEmptyTranscript()            { emptyTranscripts.Inc() }
