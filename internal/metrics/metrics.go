package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters. A fresh registry per instance keeps
// handler tests independent of process-global state.
type Metrics struct {
	registry *prometheus.Registry

	PredictionsTotal  *prometheus.CounterVec
	RuleOverridesTotal *prometheus.CounterVec
	ChatRequestsTotal  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spoilage_predictions_total",
			Help: "Prediction verdicts served, by food and status.",
		}, []string{"food", "status"}),
		RuleOverridesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spoilage_rule_overrides_total",
			Help: "Verdicts decided by a safety rule instead of the classifier.",
		}, []string{"food"}),
		ChatRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spoilage_chat_requests_total",
			Help: "Chat requests handled, by outcome.",
		}, []string{"outcome"}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
