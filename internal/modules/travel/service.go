// README: Trip pricing & generation engine: hotel contiguity validation and leg building.
package travel

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ebaggage/internal/geo"
	"ebaggage/internal/modules/pricing"
)

// Defaults are the time-of-day used for generated legs when the travel
// carries no override.
type Defaults struct {
	ArrivalTime   TimeOfDay // arrival transfer leg, on the travel start date
	CheckoutTime  TimeOfDay // inter-hotel legs, on the earlier hotel's checkout date
	DepartureTime TimeOfDay // departure transfer leg, on the travel end date
}

// StandardDefaults are 14:00 / 11:00 / 12:00.
func StandardDefaults() Defaults {
	return Defaults{
		ArrivalTime:   TimeOfDay{Hour: 14},
		CheckoutTime:  TimeOfDay{Hour: 11},
		DepartureTime: TimeOfDay{Hour: 12},
	}
}

// Endpoint is a labelled coordinate used when building a single leg.
type Endpoint struct {
	Label string
	Lat   float64
	Lng   float64
}

// Service converts travel plans into priced transport legs.
type Service struct {
	defaults Defaults
	log      *zap.Logger
}

func NewService(defaults Defaults, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{defaults: defaults, log: log}
}

// ValidateHotels sorts the travel's hotels by check-in date in place and
// verifies the stay plan covers the whole date range without gaps. Each
// failure names the violated rule.
func (s *Service) ValidateHotels(t *Travel) error {
	if len(t.Hotels) == 0 {
		return NewValidationError("at least one stay segment is required")
	}

	sort.SliceStable(t.Hotels, func(i, j int) bool {
		return t.Hotels[i].CheckInDate.Before(t.Hotels[j].CheckInDate)
	})

	if !sameDay(t.Hotels[0].CheckInDate, t.TotalStartDate) {
		return NewValidationError("the first stay must check in on the travel start date")
	}
	if !sameDay(t.Hotels[len(t.Hotels)-1].CheckOutDate, t.TotalEndDate) {
		return NewValidationError("the last stay must cover the travel end date")
	}
	for i := 0; i < len(t.Hotels)-1; i++ {
		if !sameDay(t.Hotels[i].CheckOutDate, t.Hotels[i+1].CheckInDate) {
			return NewValidationError("stay segments must be contiguous (checkout must equal the next check-in)")
		}
	}
	return nil
}

// GenerateTrips validates the travel and builds its legs in order: optional
// arrival transfer, one leg per consecutive hotel pair, optional departure
// transfer. It sets t.Trips and t.TotalPrice and returns the legs. On any
// validation failure no pricing work is done and the travel is untouched.
func (s *Service) GenerateTrips(t *Travel) ([]Trip, error) {
	if err := s.ValidateHotels(t); err != nil {
		return nil, err
	}

	items := t.LuggageItems
	if len(items) == 0 {
		qty := t.LuggageCount
		if qty < 1 {
			qty = 1
		}
		items = []LuggageItem{{Size: 24, Quantity: qty}}
	}

	trips := make([]Trip, 0, len(t.Hotels)+1)
	first := t.Hotels[0]
	last := t.Hotels[len(t.Hotels)-1]

	if t.ArrivalTransfer && t.ArrivalLocation != "" && t.ArrivalLat != 0 && t.ArrivalLng != 0 {
		at := s.defaults.ArrivalTime
		if t.ArrivalTime != nil {
			at = *t.ArrivalTime
		}
		trips = append(trips, s.buildTrip(
			t.ID,
			at.Combine(t.TotalStartDate),
			Endpoint{Label: t.ArrivalLocation, Lat: t.ArrivalLat, Lng: t.ArrivalLng},
			Endpoint{Label: first.HotelName, Lat: first.Lat, Lng: first.Lng},
			items,
		))
	}

	checkout := s.defaults.CheckoutTime
	if t.DefaultCheckoutTime != nil {
		checkout = *t.DefaultCheckoutTime
	}
	for i := 0; i < len(t.Hotels)-1; i++ {
		cur, next := t.Hotels[i], t.Hotels[i+1]
		trips = append(trips, s.buildTrip(
			t.ID,
			checkout.Combine(cur.CheckOutDate),
			Endpoint{Label: cur.HotelName, Lat: cur.Lat, Lng: cur.Lng},
			Endpoint{Label: next.HotelName, Lat: next.Lat, Lng: next.Lng},
			items,
		))
	}

	if t.DepartureTransfer && t.DepartureLocation != "" && t.DepartureLat != 0 && t.DepartureLng != 0 {
		dt := s.defaults.DepartureTime
		if t.DepartureTime != nil {
			dt = *t.DepartureTime
		}
		trips = append(trips, s.buildTrip(
			t.ID,
			dt.Combine(t.TotalEndDate),
			Endpoint{Label: last.HotelName, Lat: last.Lat, Lng: last.Lng},
			Endpoint{Label: t.DepartureLocation, Lat: t.DepartureLat, Lng: t.DepartureLng},
			items,
		))
	}

	total := 0.0
	for _, trip := range trips {
		total += trip.Price
	}
	t.Trips = trips
	t.TotalPrice = pricing.Round2(total)

	s.log.Info("generated trips",
		zap.String("travel_id", t.ID),
		zap.Int("trips", len(trips)),
		zap.Float64("total_price", t.TotalPrice))
	return trips, nil
}

// BuildManualTrip builds a single leg outside any generated travel, used by
// the instant booking flow. parentID may be empty.
func (s *Service) BuildManualTrip(start time.Time, pickup, dropoff Endpoint, items []LuggageItem, parentID string) Trip {
	return s.buildTrip(parentID, start, pickup, dropoff, items)
}

func (s *Service) buildTrip(parentID string, start time.Time, pickup, dropoff Endpoint, items []LuggageItem) Trip {
	distanceKm := geo.HaversineKm(pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng)
	price := pricing.Quote(distanceKm, toPricingLuggage(items))
	end := pricing.EstimateEnd(start, distanceKm)

	return Trip{
		ID:              uuid.NewString(),
		ParentTravelID:  parentID,
		StartTime:       start,
		EndTime:         &end,
		PickupLocation:  pickup.Label,
		PickupLat:       pickup.Lat,
		PickupLng:       pickup.Lng,
		DropoffLocation: dropoff.Label,
		DropoffLat:      dropoff.Lat,
		DropoffLng:      dropoff.Lng,
		Status:          TripPending,
		VehicleType:     "sedan",
		Price:           price,
		LuggageItems:    items,
	}
}

func toPricingLuggage(items []LuggageItem) []pricing.Luggage {
	out := make([]pricing.Luggage, 0, len(items))
	for _, item := range items {
		out = append(out, pricing.Luggage{SizeInches: item.Size, Quantity: item.Quantity})
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
