package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ddhs"

var Observer = &Metrics{
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(
		Observer.prometheus.Extractions,
		Observer.prometheus.Synthetic,
		Observer.prometheus.Draws,
		Observer.prometheus.Runs,
		Observer.prometheus.Loss,
	)
}

// Prometheus holds the collectors of the synthesis pipeline.
type Prometheus struct {
	Extractions *prometheus.CounterVec
	Synthetic   *prometheus.CounterVec
	Draws       prometheus.Counter
	Runs        *prometheus.CounterVec
	Loss        *prometheus.GaugeVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extractions",
				Help:      "density extractions by method and outcome",
			}, []string{"method", "outcome"}),
		Synthetic: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synthetic_samples",
				Help:      "generated minority samples by source",
			}, []string{"source"}),
		Draws: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "latent_draws",
				Help:      "proposals drawn by the latent sampler",
			}),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs",
				Help:      "synthesis runs by stage reached",
			}, []string{"stage", "outcome"}),
		Loss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "loss",
				Help:      "last epoch loss by term",
			}, []string{"term"}),
	}
}

type Metrics struct {
	prometheus Prometheus
}

// Extraction counts a density extraction.
func (m *Metrics) Extraction(method, outcome string) {
	m.prometheus.Extractions.WithLabelValues(method, outcome).Inc()
}

// Synthetic adds n generated samples for the given source.
func (m *Metrics) Synthetic(source string, n int) {
	m.prometheus.Synthetic.WithLabelValues(source).Add(float64(n))
}

// Draws adds n latent proposals.
func (m *Metrics) Draws(n int) {
	m.prometheus.Draws.Add(float64(n))
}

// Run counts a run ending at the given stage.
func (m *Metrics) Run(stage, outcome string) {
	m.prometheus.Runs.WithLabelValues(stage, outcome).Inc()
}

// Loss records the value of a loss term.
func (m *Metrics) Loss(term string, v float64) {
	m.prometheus.Loss.WithLabelValues(term).Set(v)
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
