// README: Travel aggregate: hotel stays, generated trips and luggage items.
package travel

import (
	"fmt"
	"strings"
	"time"

	"ebaggage/internal/types"
)

// LuggageItem is one size class of luggage and how many pieces of it.
type LuggageItem struct {
	Size     int    `json:"size"` // inches
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url,omitempty"`
}

// HotelStay is one contiguous stay segment within a Travel.
type HotelStay struct {
	HotelName    string    `json:"hotel_name"`
	Address      string    `json:"address"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lon"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	IsPartner    bool      `json:"is_partner,omitempty"`
}

// Nights returns the stay length in whole nights, never negative.
func (h HotelStay) Nights() int {
	n := int(h.CheckOutDate.Sub(h.CheckInDate).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// Trip is one priced point-to-point transport leg. After creation only
// Status, VehicleType and Price may change (vehicle selection, lifecycle).
type Trip struct {
	ID              string        `json:"id"`
	ParentTravelID  string        `json:"parent_travel_id,omitempty"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         *time.Time    `json:"end_time,omitempty"`
	PickupLocation  string        `json:"pickup_location"`
	PickupLat       float64       `json:"pickup_lat"`
	PickupLng       float64       `json:"pickup_lon"`
	DropoffLocation string        `json:"dropoff_location"`
	DropoffLat      float64       `json:"dropoff_lat"`
	DropoffLng      float64       `json:"dropoff_lon"`
	Status          TripStatus    `json:"status"`
	VehicleType     string        `json:"vehicle_type"`
	Price           float64       `json:"price"`
	LuggageItems    []LuggageItem `json:"luggage_items"`
}

func (t Trip) PickupPoint() types.Point {
	return types.Point{Lat: t.PickupLat, Lng: t.PickupLng}
}

func (t Trip) DropoffPoint() types.Point {
	return types.Point{Lat: t.DropoffLat, Lng: t.DropoffLng}
}

// LuggageCount is the total number of pieces across all items.
func (t Trip) LuggageCount() int {
	total := 0
	for _, item := range t.LuggageItems {
		total += item.Quantity
	}
	return total
}

// Travel is a multi-day plan of ordered hotel stays plus the trips derived
// from them.
type Travel struct {
	ID                 string        `json:"id"`
	TotalStartDate     time.Time     `json:"total_start_date"`
	TotalEndDate       time.Time     `json:"total_end_date"`
	Status             TravelStatus  `json:"status"`
	LuggageCount       int           `json:"luggage_count,omitempty"`
	LuggageItems       []LuggageItem `json:"luggage_items,omitempty"`
	ArrivalTransfer    bool          `json:"arrival_transfer"`
	ArrivalLocation    string        `json:"arrival_location,omitempty"`
	ArrivalLat         float64       `json:"arrival_lat,omitempty"`
	ArrivalLng         float64       `json:"arrival_lon,omitempty"`
	ArrivalTime        *TimeOfDay    `json:"arrival_time,omitempty"`
	DepartureTransfer  bool          `json:"departure_transfer"`
	DepartureLocation  string        `json:"departure_location,omitempty"`
	DepartureLat       float64       `json:"departure_lat,omitempty"`
	DepartureLng       float64       `json:"departure_lon,omitempty"`
	DepartureTime      *TimeOfDay    `json:"departure_time,omitempty"`
	DefaultCheckoutTime *TimeOfDay   `json:"default_checkout_time,omitempty"`
	Hotels             []HotelStay   `json:"hotels"`
	Trips              []Trip        `json:"trips"`
	TotalPrice         float64       `json:"total_price"`
	UserEmail          string        `json:"user_email,omitempty"`
}

// Title renders a short display name like "01/01-01/05 Grand Hotel".
func (t Travel) Title() string {
	primary := "trip"
	if len(t.Hotels) > 0 {
		primary = t.Hotels[0].HotelName
	}
	return fmt.Sprintf("%s-%s %s",
		t.TotalStartDate.Format("01/02"), t.TotalEndDate.Format("01/02"), primary)
}

// TimeOfDay is a wall-clock time used to schedule generated legs. It
// marshals as "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTimeOfDay(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Combine anchors the time-of-day onto a calendar date.
func (t TimeOfDay) Combine(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// ParseTimeOfDay parses "HH:MM" (seconds tolerated and ignored).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}
