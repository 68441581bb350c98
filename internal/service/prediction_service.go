package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/flight-demand-go/internal/airport"
	"github.com/jengzang/flight-demand-go/internal/forecast"
	"github.com/jengzang/flight-demand-go/internal/logger"
	"github.com/jengzang/flight-demand-go/internal/metrics"
	"github.com/jengzang/flight-demand-go/internal/model"
	"github.com/jengzang/flight-demand-go/internal/models"
)

// PredictionService handles business logic for demand predictions
type PredictionService struct {
	dataset   *forecast.Dataset
	predictor model.Predictor
}

// NewPredictionService creates a new prediction service
func NewPredictionService(dataset *forecast.Dataset, predictor model.Predictor) *PredictionService {
	metrics.BookingsLoaded.Set(float64(dataset.Size()))
	return &PredictionService{
		dataset:   dataset,
		predictor: predictor,
	}
}

// Options returns the selectable routes and days plus the model figures.
func (s *PredictionService) Options() models.PredictionOptions {
	routes := s.dataset.Routes()
	opts := models.PredictionOptions{
		Routes: make([]models.RouteOption, 0, len(routes)),
		Days:   append([]models.FlightDay(nil), models.FlightDays...),
		Model:  model.Figures(),
	}
	for _, code := range routes {
		opts.Routes = append(opts.Routes, models.RouteOption{Code: code, Label: forecast.FormatRoute(code)})
	}
	return opts
}

// Predict estimates passenger demand for a route on a day.
func (s *PredictionService) Predict(ctx context.Context, route string, day string) (*models.Prediction, error) {
	flightDay, err := models.ParseFlightDay(day)
	if err != nil {
		metrics.PredictionsFailed.WithLabelValues(metrics.ReasonInvalidInput).Inc()
		return nil, fmt.Errorf("%w: %v", forecast.ErrInvalidDay, err)
	}

	features, err := s.dataset.BuildFeatures(route, flightDay)
	if err != nil {
		if errors.Is(err, forecast.ErrRouteNotFound) {
			metrics.PredictionsFailed.WithLabelValues(metrics.ReasonNotFound).Inc()
		} else {
			metrics.PredictionsFailed.WithLabelValues(metrics.ReasonInvalidInput).Inc()
		}
		return nil, err
	}
	if features.Route != route {
		metrics.RareRouteSubstitutions.Inc()
	}

	start := time.Now()
	value, err := s.predictor.Predict(ctx, features)
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionsFailed.WithLabelValues(metrics.ReasonInference).Inc()
		logger.Error().Err(err).Str("route", route).Str("flight_day", day).Msg("Model inference failed")
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	passengers, level := forecast.Bucket(value)
	prediction := &models.Prediction{
		Route:      route,
		RouteLabel: forecast.FormatRoute(route),
		FlightDay:  flightDay,
		Features:   features,
		RawValue:   value,
		Passengers: passengers,
		Demand:     level,
		Message:    level.Message(),
	}
	if km, ok := airport.RouteDistanceKm(route); ok {
		prediction.DistanceKm = &km
	}

	metrics.PredictionsServed.WithLabelValues(string(level)).Inc()
	logger.Debug().
		Str("route", route).
		Str("model_route", features.Route).
		Str("flight_day", day).
		Float64("avg_flight_duration", features.AvgFlightDuration).
		Int("passengers", passengers).
		Msg("Prediction served")

	return prediction, nil
}
