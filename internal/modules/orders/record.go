// README: Persisted record shapes: the order envelope, hotels and scan history.
package orders

import (
	"time"

	"ebaggage/internal/modules/travel"
)

// Order type discriminators. Legacy documents may also carry records with
// no order_type at all; readers tolerate them.
const (
	TypeTrip        = "trip"
	TypeTravelTrip  = "travel_trip"
	TypeTravel      = "travel"
	TypeInstantTrip = "instant_trip"
)

// Record is one entry in the orders array: a tagged union over OrderType
// with explicit optional fields. Unknown order types and missing fields
// decode to zero values; internal code never sees a loosely-shaped map.
type Record struct {
	ID        string `json:"id,omitempty"`
	OrderID   string `json:"order_id,omitempty"` // legacy alias for ID
	OrderType string `json:"order_type,omitempty"`
	Status    string `json:"status,omitempty"`
	UserEmail string `json:"user_email,omitempty"`

	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	Date        string     `json:"date,omitempty"` // legacy "2006/01/02" records

	// Trip fields (order_type trip / travel_trip / instant_trip).
	ParentTravelID  string               `json:"parent_travel_id,omitempty"`
	StartTime       *time.Time           `json:"start_time,omitempty"`
	EndTime         *time.Time           `json:"end_time,omitempty"`
	PickupLocation  string               `json:"pickup_location,omitempty"`
	PickupLat       float64              `json:"pickup_lat,omitempty"`
	PickupLng       float64              `json:"pickup_lon,omitempty"`
	DropoffLocation string               `json:"dropoff_location,omitempty"`
	DropoffLat      float64              `json:"dropoff_lat,omitempty"`
	DropoffLng      float64              `json:"dropoff_lon,omitempty"`
	VehicleType     string               `json:"vehicle_type,omitempty"`
	Price           float64              `json:"price,omitempty"`
	LuggageItems    []travel.LuggageItem `json:"luggage_items,omitempty"`

	// Instant-booking extras.
	PickupDisplay   string `json:"pickup_display,omitempty"`
	DropoffDisplay  string `json:"dropoff_display,omitempty"`
	LuggageNote     string `json:"luggage_note,omitempty"`
	SelectedVehicle string `json:"selected_vehicle,omitempty"`

	// Travel fields (order_type travel).
	TotalStartDate    *time.Time         `json:"total_start_date,omitempty"`
	TotalEndDate      *time.Time         `json:"total_end_date,omitempty"`
	ArrivalTransfer   bool               `json:"arrival_transfer,omitempty"`
	ArrivalLocation   string             `json:"arrival_location,omitempty"`
	ArrivalLat        float64            `json:"arrival_lat,omitempty"`
	ArrivalLng        float64            `json:"arrival_lon,omitempty"`
	DepartureTransfer bool               `json:"departure_transfer,omitempty"`
	DepartureLocation string             `json:"departure_location,omitempty"`
	DepartureLat      float64            `json:"departure_lat,omitempty"`
	DepartureLng      float64            `json:"departure_lon,omitempty"`
	Hotels            []travel.HotelStay `json:"hotels,omitempty"`
	Trips             []travel.Trip      `json:"trips,omitempty"`
	TripIDs           []string           `json:"trip_ids,omitempty"`
	TotalPrice        float64            `json:"total_price,omitempty"`
}

// Identifier returns the record's id, falling back to the legacy order_id.
func (r Record) Identifier() string {
	if r.ID != "" {
		return r.ID
	}
	return r.OrderID
}

// Trip reconstructs the leg carried by a trip-typed record.
func (r Record) Trip() travel.Trip {
	return travel.Trip{
		ID:              r.Identifier(),
		ParentTravelID:  r.ParentTravelID,
		StartTime:       derefTime(r.StartTime),
		EndTime:         r.EndTime,
		PickupLocation:  r.PickupLocation,
		PickupLat:       r.PickupLat,
		PickupLng:       r.PickupLng,
		DropoffLocation: r.DropoffLocation,
		DropoffLat:      r.DropoffLat,
		DropoffLng:      r.DropoffLng,
		Status:          travel.TripStatus(r.Status),
		VehicleType:     r.VehicleType,
		Price:           r.Price,
		LuggageItems:    r.LuggageItems,
	}
}

// sortTime is the ordering key for the orders array: start_time falling
// back to created_at, then the legacy date field.
func (r Record) sortTime() time.Time {
	if r.StartTime != nil {
		return *r.StartTime
	}
	if r.CreatedAt != nil {
		return *r.CreatedAt
	}
	if r.Date != "" {
		if t, err := time.Parse("2006/01/02", r.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// createdTime prefers created_at, used when interleaving a travel with its
// trips so the batch stays grouped.
func (r Record) createdTime() time.Time {
	if r.CreatedAt != nil {
		return *r.CreatedAt
	}
	return r.sortTime()
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// Hotel is an entry in the hotel lookup tables. Partner hotels carry
// pre-registered coordinates; others are resolved ad hoc via geocoding.
type Hotel struct {
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lon"`
}

// ScanRecord is one luggage-scan result kept for history.
type ScanRecord struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	ScannedBy string    `json:"scanned_by"` // "user" or "hotel"
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"timestamp"`
}
