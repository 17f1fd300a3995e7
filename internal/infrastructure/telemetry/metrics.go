package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the RED instruments for use cases and the HTTP surface.
type Metrics struct {
	useCaseRequests *prometheus.CounterVec
	useCaseDuration *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	notifications   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		useCaseRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplyhub",
			Name:      "usecase_requests_total",
			Help:      "Use case invocations partitioned by outcome.",
		}, []string{"usecase", "outcome"}),
		useCaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "supplyhub",
			Name:      "usecase_duration_seconds",
			Help:      "Use case latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"usecase"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplyhub",
			Name:      "http_requests_total",
			Help:      "HTTP requests partitioned by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "supplyhub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplyhub",
			Name:      "notifications_total",
			Help:      "Notifications partitioned by result (sent, failed, dropped).",
		}, []string{"result"}),
	}

	reg.MustRegister(m.useCaseRequests, m.useCaseDuration, m.httpRequests, m.httpDuration, m.notifications)
	return m
}

// ObserveUseCase records one invocation. A nil receiver is a no-op.
func (m *Metrics) ObserveUseCase(name string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.useCaseRequests.WithLabelValues(name, outcome).Inc()
	m.useCaseDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) CountNotification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}
