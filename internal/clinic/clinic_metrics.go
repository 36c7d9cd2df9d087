package clinic

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the clinic subsystem.
type Metrics struct {
	BookingsTotal *prometheus.CounterVec
	StatusTotal   *prometheus.CounterVec
	NotifyTotal   *prometheus.CounterVec
}

// NewMetrics registers and returns clinic metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carebridge_consultations_booked_total",
			Help: "Consultations booked by doctor department.",
		}, []string{"department"}),
		StatusTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carebridge_consultation_status_total",
			Help: "Consultation status transitions by target status.",
		}, []string{"status"}),
		NotifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carebridge_consultation_notify_total",
			Help: "Booking notifications by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.BookingsTotal,
		m.StatusTotal,
		m.NotifyTotal,
	)

	return m
}
