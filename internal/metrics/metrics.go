package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flight_demand_predictions_total",
		Help: "Total number of predictions served, by demand level.",
	}, []string{"demand"})
	PredictionsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flight_demand_prediction_failures_total",
		Help: "Total number of failed prediction requests, by reason.",
	}, []string{"reason"})
	RareRouteSubstitutions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flight_demand_rare_route_substitutions_total",
		Help: "Total number of requests whose route was collapsed into Other.",
	})
	InferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flight_demand_inference_duration_seconds",
		Help:    "Duration of a single model inference.",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0},
	})
	BookingsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flight_demand_completed_bookings",
		Help: "Number of completed bookings the feature builder works from.",
	})
)

// Failure reasons.
const (
	ReasonNotFound     = "not_found"
	ReasonInvalidInput = "invalid_input"
	ReasonInference    = "inference"
)
