// README: Vehicle tier catalog, luggage-count recommendation and tier pricing.
package pricing

import "math"

// Tier is one selectable vehicle class.
type Tier struct {
	Type         string  `json:"type"`
	Label        string  `json:"label"`
	Description  string  `json:"description"`
	CapacityText string  `json:"capacity_text"`
	MaxLuggage   int     `json:"max_luggage"`
	Multiplier   float64 `json:"multiplier"`
}

var tiers = []Tier{
	{
		Type:         "sedan",
		Label:        "Comfort Sedan",
		Description:  "Up to 3 pieces of 24in luggage",
		CapacityText: "3 pieces",
		MaxLuggage:   3,
		Multiplier:   1.0,
	},
	{
		Type:         "suv",
		Label:        "Urban SUV",
		Description:  "Up to 5 pieces of 24in luggage",
		CapacityText: "5 pieces",
		MaxLuggage:   5,
		Multiplier:   1.25,
	},
	{
		Type:         "van",
		Label:        "7-seat Van",
		Description:  "Up to 7 pieces of 24in luggage",
		CapacityText: "7 pieces",
		MaxLuggage:   7,
		Multiplier:   1.5,
	},
}

// Tiers returns the vehicle catalog in display order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierByType looks up a tier; ok is false for unknown types.
func TierByType(vehicleType string) (Tier, bool) {
	for _, t := range tiers {
		if t.Type == vehicleType {
			return t, true
		}
	}
	return Tier{}, false
}

// RecommendVehicle picks a tier by total luggage count.
func RecommendVehicle(luggageCount int) string {
	switch {
	case luggageCount < 3:
		return "sedan"
	case luggageCount < 5:
		return "suv"
	default:
		return "van"
	}
}

// VehicleQuote applies the tier multiplier to a base price, rounded to
// whole currency units for display.
func VehicleQuote(basePrice float64, tier Tier) float64 {
	return math.Round(basePrice * tier.Multiplier)
}

// FallbackEstimate prices a leg from distance alone when no engine quote
// is available.
func FallbackEstimate(distanceKm float64) float64 {
	return math.Max(350.0, distanceKm*80)
}
