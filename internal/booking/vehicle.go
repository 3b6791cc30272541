// README: Vehicle selection sub-flow: tier options, route preview and final choice.
package booking

import (
	"context"
	"math"

	"go.uber.org/zap"

	"ebaggage/internal/geo"
	"ebaggage/internal/modules/pricing"
	"ebaggage/internal/modules/travel"
	"ebaggage/internal/types"
)

// Option is one selectable tier with its computed price.
type Option struct {
	pricing.Tier
	Price       float64 `json:"price"`
	Selected    bool    `json:"selected"`
	Recommended bool    `json:"recommended"`
}

// Choice is the outcome of a confirmed vehicle selection. The caller
// applies it to whichever session owns the trip.
type Choice struct {
	Type  string  `json:"type"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// MapContext is everything a route preview needs: polyline, center, zoom.
type MapContext struct {
	Polyline []types.Point `json:"polyline"`
	Center   types.Point   `json:"center"`
	Zoom     int           `json:"zoom"`
}

// Summary is the trip recap shown alongside the tier options.
type Summary struct {
	PickupDisplay  string  `json:"pickup_display"`
	DropoffDisplay string  `json:"dropoff_display"`
	LuggageNote    string  `json:"luggage_note,omitempty"`
	LuggageCount   int     `json:"luggage_count"`
	DistanceKm     float64 `json:"distance_km"`
	ETAMinutes     int     `json:"eta_minutes"`
}

// VehicleSelection presents the tier catalog priced against one trip. It
// receives the trip explicitly and hands the choice back the same way,
// never reaching into the owning session's state.
type VehicleSelection struct {
	router geo.Router
	log    *zap.Logger

	trip           *travel.Trip
	pickupDisplay  string
	dropoffDisplay string
	luggageNote    string
	luggageCount   int
	basePrice      float64
	distanceKm     float64
	etaMin         int
	polyline       []types.Point
	center         types.Point
	zoom           int

	selected    string
	recommended string
}

func NewVehicleSelection(router geo.Router, log *zap.Logger) *VehicleSelection {
	if log == nil {
		log = zap.NewNop()
	}
	return &VehicleSelection{router: router, log: log}
}

// PrepareFromTrip loads the trip, computes the base price, the route
// preview and the recommended tier, and pre-selects the recommendation.
func (v *VehicleSelection) PrepareFromTrip(ctx context.Context, trip *travel.Trip, pickupDisplay, dropoffDisplay, luggageNote string) error {
	if trip == nil {
		return travel.NewValidationError("no trip to price, please start over")
	}

	v.trip = trip
	v.pickupDisplay = pickupDisplay
	v.dropoffDisplay = dropoffDisplay
	v.luggageNote = luggageNote
	v.luggageCount = trip.LuggageCount()

	pickup := trip.PickupPoint()
	dropoff := trip.DropoffPoint()
	km := geo.DistanceKm(pickup, dropoff)
	v.distanceKm = math.Round(km*10) / 10

	v.etaMin = int(km * 2.2)
	if v.etaMin < 5 {
		v.etaMin = 5
	}

	v.basePrice = trip.Price
	if v.basePrice <= 0 {
		v.basePrice = pricing.FallbackEstimate(km)
	}

	v.polyline = geo.PolylineOrStraightLine(ctx, v.router, pickup, dropoff)
	v.center = geo.Center(pickup, dropoff)
	v.zoom = geo.ZoomLevel(pickup, dropoff)

	v.recommended = pricing.RecommendVehicle(v.luggageCount)
	v.selected = v.recommended

	v.log.Info("vehicle selection prepared",
		zap.String("trip_id", trip.ID),
		zap.Float64("base_price", v.basePrice),
		zap.String("recommended", v.recommended))
	return nil
}

// Options returns every tier priced against the base fare.
func (v *VehicleSelection) Options() []Option {
	catalog := pricing.Tiers()
	out := make([]Option, 0, len(catalog))
	for _, tier := range catalog {
		out = append(out, Option{
			Tier:        tier,
			Price:       pricing.VehicleQuote(v.basePrice, tier),
			Selected:    tier.Type == v.selected,
			Recommended: tier.Type == v.recommended,
		})
	}
	return out
}

// Select marks a tier as the current choice.
func (v *VehicleSelection) Select(vehicleType string) error {
	if _, ok := pricing.TierByType(vehicleType); !ok {
		return travel.NewValidationError("unknown vehicle type")
	}
	v.selected = vehicleType
	return nil
}

// Confirm finalizes the choice and returns it for the owning session to
// apply.
func (v *VehicleSelection) Confirm() (Choice, error) {
	if v.trip == nil {
		return Choice{}, travel.NewValidationError("no trip to price, please start over")
	}
	tier, ok := pricing.TierByType(v.selected)
	if !ok {
		return Choice{}, travel.NewValidationError("please select a vehicle first")
	}
	choice := Choice{
		Type:  tier.Type,
		Label: tier.Label,
		Price: pricing.VehicleQuote(v.basePrice, tier),
	}
	v.trip.VehicleType = choice.Type
	v.trip.Price = choice.Price
	return choice, nil
}

// MapContext returns the route preview for the map widget.
func (v *VehicleSelection) MapContext() MapContext {
	return MapContext{Polyline: v.polyline, Center: v.center, Zoom: v.zoom}
}

// Summary returns the trip recap for the selection screen.
func (v *VehicleSelection) Summary() Summary {
	return Summary{
		PickupDisplay:  v.pickupDisplay,
		DropoffDisplay: v.dropoffDisplay,
		LuggageNote:    v.luggageNote,
		LuggageCount:   v.luggageCount,
		DistanceKm:     v.distanceKm,
		ETAMinutes:     v.etaMin,
	}
}

// Reset clears the loaded trip.
func (v *VehicleSelection) Reset() {
	v.trip = nil
	v.pickupDisplay = ""
	v.dropoffDisplay = ""
	v.luggageNote = ""
	v.luggageCount = 0
	v.basePrice = 0
	v.distanceKm = 0
	v.etaMin = 0
	v.polyline = nil
	v.center = types.Point{}
	v.zoom = 0
	v.selected = ""
	v.recommended = ""
}
