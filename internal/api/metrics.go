package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"imds-capstone/backend/internal/report"
)

type metrics struct {
	registry          *prometheus.Registry
	moduleRequests    *prometheus.CounterVec
	narrativeOutcomes *prometheus.CounterVec
	loginAttempts     *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		moduleRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imds_module_requests_total",
			Help: "Symptom submissions processed per module.",
		}, []string{"module"}),
		narrativeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imds_narrative_outcomes_total",
			Help: "Narrative generator results by outcome.",
		}, []string{"outcome"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imds_login_attempts_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.moduleRequests,
		m.narrativeOutcomes,
		m.loginAttempts,
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeModule(module string) {
	m.moduleRequests.WithLabelValues(module).Inc()
}

func (m *metrics) observeNarrative(outcome report.Outcome) {
	m.narrativeOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (m *metrics) observeLogin(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}
