// README: Fare formula for transport legs: base fare + per-km rate + tiered luggage fees.
package pricing

import (
	"math"
	"time"
)

const (
	// BaseFare is charged on every leg regardless of distance.
	BaseFare = 30.0
	// DistanceRate is charged per kilometre of great-circle distance.
	DistanceRate = 30.0

	avgSpeedKmh     = 35.0
	minTripDuration = 30 * time.Minute
)

// Luggage is one size class of luggage carried on a leg.
type Luggage struct {
	SizeInches int
	Quantity   int
}

// perItemRate returns the handling fee per unit for a luggage size.
func perItemRate(sizeInches int) float64 {
	switch {
	case sizeInches <= 20:
		return 50
	case sizeInches <= 24:
		return 80
	default:
		return 100
	}
}

// LuggageFee sums the per-item handling fees. A non-positive quantity is
// billed as a single item.
func LuggageFee(items []Luggage) float64 {
	total := 0.0
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		total += perItemRate(item.SizeInches) * float64(qty)
	}
	return total
}

// Quote computes the leg price, rounded to 2 decimal places.
func Quote(distanceKm float64, items []Luggage) float64 {
	return Round2(BaseFare + distanceKm*DistanceRate + LuggageFee(items))
}

// EstimateEnd projects the leg end time from the average driving speed,
// with a 30 minute floor.
func EstimateEnd(start time.Time, distanceKm float64) time.Time {
	hours := distanceKm / avgSpeedKmh
	duration := time.Duration(hours * float64(time.Hour))
	if duration < minTripDuration {
		duration = minTripDuration
	}
	return start.Add(duration)
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
