package forecast

import (
	"math"

	"github.com/jengzang/flight-demand-go/internal/models"
)

const (
	highDemandAbove = 70
	lowDemandBelow  = 50
)

// Bucket rounds a raw model output to whole passengers, halves to even, and
// labels the rounded value. 50 and 70 are both Moderate.
func Bucket(value float64) (int, models.DemandLevel) {
	passengers := int(math.RoundToEven(value))
	switch {
	case passengers > highDemandAbove:
		return passengers, models.DemandHigh
	case passengers < lowDemandBelow:
		return passengers, models.DemandLow
	default:
		return passengers, models.DemandModerate
	}
}
