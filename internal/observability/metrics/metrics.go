package metrics

import "github.com/prometheus/client_golang/prometheus"

// APIMetrics exposes counters/histograms for the booking API.
type APIMetrics struct {
	loginsTotal      *prometheus.CounterVec
	signupsTotal     prometheus.Counter
	bookingsTotal    *prometheus.CounterVec
	paymentsTotal    *prometheus.CounterVec
	callJobsTotal    *prometheus.CounterVec
	bookingLatencies prometheus.Histogram
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "users",
			Name:      "logins_total",
			Help:      "Total login attempts by outcome",
		}, []string{"outcome"}),
		signupsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "users",
			Name:      "signups_total",
			Help:      "Total completed signups",
		}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		paymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "payments",
			Name:      "payments_total",
			Help:      "Total payment attempts by outcome",
		}, []string{"outcome"}),
		callJobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "voice",
			Name:      "call_jobs_total",
			Help:      "Total AI voice call jobs by kind",
		}, []string{"kind"}),
		bookingLatencies: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "booking_latency_seconds",
			Help:      "Latency of booking requests",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.loginsTotal, m.signupsTotal, m.bookingsTotal,
		m.paymentsTotal, m.callJobsTotal, m.bookingLatencies)
	return m
}

func (m *APIMetrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(outcome).Inc()
}

func (m *APIMetrics) ObserveSignup() {
	if m == nil {
		return
	}
	m.signupsTotal.Inc()
}

func (m *APIMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *APIMetrics) ObservePayment(outcome string) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(outcome).Inc()
}

func (m *APIMetrics) ObserveCallJob(kind string) {
	if m == nil {
		return
	}
	m.callJobsTotal.WithLabelValues(kind).Inc()
}

func (m *APIMetrics) ObserveBookingLatency(seconds float64) {
	if m == nil {
		return
	}
	m.bookingLatencies.Observe(seconds)
}
