package models

// OtherRoute is the category rare routes are collapsed into before inference.
const OtherRoute = "Other"

// HaulType is a coarse bucket over average flight duration.
type HaulType string

const (
	ShortHaul HaulType = "Short"
	LongHaul  HaulType = "Long"
)

// FeatureRecord is the single row handed to the model. Field order matches
// the column order the model was trained on.
type FeatureRecord struct {
	Route             string    `json:"route"`
	FlightDay         FlightDay `json:"flight_day"`
	AvgFlightDuration float64   `json:"avg_flight_duration"`
	HaulType          HaulType  `json:"haul_type"`
}

// DemandLevel is the qualitative label shown next to a prediction.
type DemandLevel string

const (
	DemandHigh     DemandLevel = "High"
	DemandModerate DemandLevel = "Moderate"
	DemandLow      DemandLevel = "Low"
)

// Message returns the banner text for the level.
func (l DemandLevel) Message() string {
	switch l {
	case DemandHigh:
		return "High demand expected."
	case DemandLow:
		return "Low demand expected."
	default:
		return "Moderate demand expected."
	}
}

// Prediction is the outcome of one prediction request
type Prediction struct {
	Route      string        `json:"route"`
	RouteLabel string        `json:"route_label"`
	FlightDay  FlightDay     `json:"flight_day"`
	Features   FeatureRecord `json:"features"`
	RawValue   float64       `json:"raw_value"`
	Passengers int           `json:"passengers"`
	Demand     DemandLevel   `json:"demand"`
	Message    string        `json:"message"`
	DistanceKm *float64      `json:"distance_km,omitempty"`
}

// RouteOption is one entry of the route selector.
type RouteOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ModelFigures are the static quality figures published with the model.
type ModelFigures struct {
	R2                float64 `json:"r2"`
	MeanAbsoluteError float64 `json:"mean_absolute_error"`
	Description       string  `json:"description"`
}

// PredictionOptions is everything the form needs to render its selectors.
type PredictionOptions struct {
	Routes []RouteOption `json:"routes"`
	Days   []FlightDay   `json:"days"`
	Model  ModelFigures  `json:"model"`
}
