package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage subsystem.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	SymptomTokens    prometheus.Histogram
	NoMatchTotal     prometheus.Counter
	AdvisorTotal     *prometheus.CounterVec
	AdvisorDuration  prometheus.Histogram
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carebridge_triage_analyses_total",
			Help: "Total triage analyses by suggested department and confidence.",
		}, []string{"department", "confidence"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carebridge_triage_analysis_duration_seconds",
			Help:    "Duration of rule-based triage analyses in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8), // 10us .. ~160ms
		}),
		SymptomTokens: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carebridge_triage_symptom_tokens",
			Help:    "Token count of submitted symptom descriptions.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1 .. 512
		}),
		NoMatchTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carebridge_triage_no_match_total",
			Help: "Analyses where no keyword matched and the default department was returned.",
		}),
		AdvisorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carebridge_triage_advisor_total",
			Help: "LLM advisor calls by outcome.",
		}, []string{"outcome"}),
		AdvisorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carebridge_triage_advisor_duration_seconds",
			Help:    "Duration of LLM advisor calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 0.1s .. ~12.8s
		}),
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.SymptomTokens,
		m.NoMatchTotal,
		m.AdvisorTotal,
		m.AdvisorDuration,
	)

	return m
}
