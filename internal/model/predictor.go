package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/flight-demand-go/internal/models"
)

// Figures published alongside the trained artifact. They are not recomputed.
const (
	ReportedR2  = 0.79
	ReportedMAE = 2.36

	Description = "This app uses a Random Forest Regressor trained on historical booking data."
)

var (
	// ErrUnknownCategory is returned when a categorical feature value was not seen in training.
	ErrUnknownCategory = errors.New("unknown categorical value")
	// ErrInvalidModel is returned when a model artifact cannot be used.
	ErrInvalidModel = errors.New("invalid model artifact")
)

// Predictor turns one feature record into an estimated passenger count.
type Predictor interface {
	Predict(ctx context.Context, features models.FeatureRecord) (float64, error)
}

// Kind selects a Predictor implementation.
type Kind string

const (
	KindForest Kind = "forest"
	KindPython Kind = "python"
)

// Config describes where the model lives and how to run it
type Config struct {
	Kind      Kind
	Path      string
	PythonBin string
	Script    string
	Timeout   time.Duration
}

// Load builds the Predictor described by cfg.
func Load(cfg Config) (Predictor, error) {
	switch cfg.Kind {
	case KindForest, "":
		return LoadForest(cfg.Path)
	case KindPython:
		return NewPythonPredictor(cfg)
	default:
		return nil, fmt.Errorf("unsupported model kind %q", cfg.Kind)
	}
}

// Figures returns the static model quality figures.
func Figures() models.ModelFigures {
	return models.ModelFigures{
		R2:                ReportedR2,
		MeanAbsoluteError: ReportedMAE,
		Description:       Description,
	}
}
