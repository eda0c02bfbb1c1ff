package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Prediction outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeFailed      = "failed"
	OutcomeUnavailable = "unavailable"
)

// Metrics groups the service collectors on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	Predictions       *prometheus.CounterVec
	PredictionLatency prometheus.Histogram
	ModelLoads        *prometheus.CounterVec
	ModelReady        prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "energy",
			Name:      "predictions_total",
			Help:      "Prediction requests by outcome.",
		}, []string{"outcome"}),
		PredictionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "energy",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent inside the model call.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		ModelLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "energy",
			Name:      "model_loads_total",
			Help:      "Model artifact loads by source and outcome.",
		}, []string{"source", "outcome"}),
		ModelReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "energy",
			Name:      "model_ready",
			Help:      "1 when a model is loaded and serving predictions.",
		}),
	}

	reg.MustRegister(
		m.Predictions,
		m.PredictionLatency,
		m.ModelLoads,
		m.ModelReady,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}
