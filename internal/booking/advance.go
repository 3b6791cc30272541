// README: Advance booking wizard: date range -> chained stay segments -> preview -> submit.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ebaggage/internal/geo"
	"ebaggage/internal/modules/orders"
	"ebaggage/internal/modules/travel"
)

// AdvanceStep is the wizard position.
type AdvanceStep int

const (
	AdvanceStepDates    AdvanceStep = 1
	AdvanceStepPlanning AdvanceStep = 2
	AdvanceStepConfirm  AdvanceStep = 3
)

// DefaultTransferHub is the airport used for arrival/departure transfers
// unless the user picks another location.
const DefaultTransferHub = "Taoyuan International Airport"

// Segment is one stay under construction. Once confirmed it is locked and
// its dates become immutable until it is removed again.
type Segment struct {
	CheckIn   time.Time
	CheckOut  time.Time
	HotelName string
	Locked    bool
}

// Complete reports whether all three fields are filled in.
func (s Segment) Complete() bool {
	return !s.CheckIn.IsZero() && !s.CheckOut.IsZero() && s.HotelName != ""
}

// missingFields names the unfilled fields for the user message.
func (s Segment) missingFields() string {
	var missing []string
	if s.CheckIn.IsZero() {
		missing = append(missing, "check-in date")
	}
	if s.CheckOut.IsZero() {
		missing = append(missing, "checkout date")
	}
	if s.HotelName == "" {
		missing = append(missing, "hotel name")
	}
	return strings.Join(missing, ", ")
}

// AdvanceSession drives a multi-day booking for one user.
type AdvanceSession struct {
	geocoder geo.Geocoder
	engine   *travel.Service
	store    *orders.Store
	log      *zap.Logger

	userEmail string

	step      AdvanceStep
	startDate time.Time
	endDate   time.Time
	segments  []Segment

	luggageCount      int
	needArrival       bool
	needDeparture     bool
	arrivalLocation   string
	departureLocation string

	hotelLookup map[string]orders.Hotel
	preview     *travel.Travel
}

func NewAdvanceSession(geocoder geo.Geocoder, engine *travel.Service, store *orders.Store, userEmail string, log *zap.Logger) *AdvanceSession {
	if log == nil {
		log = zap.NewNop()
	}
	s := &AdvanceSession{
		geocoder:          geocoder,
		engine:            engine,
		store:             store,
		log:               log,
		userEmail:         userEmail,
		step:              AdvanceStepDates,
		arrivalLocation:   DefaultTransferHub,
		departureLocation: DefaultTransferHub,
	}
	s.hotelLookup = loadHotelLookup(store)
	return s
}

func loadHotelLookup(store *orders.Store) map[string]orders.Hotel {
	lookup := make(map[string]orders.Hotel)
	for _, h := range store.Hotels() {
		if h.Name != "" {
			lookup[h.Name] = h
		}
	}
	for _, h := range store.PartnerHotels() {
		if h.Name != "" {
			lookup[h.Name] = h
		}
	}
	return lookup
}

func (s *AdvanceSession) Step() AdvanceStep       { return s.step }
func (s *AdvanceSession) Segments() []Segment     { return s.segments }
func (s *AdvanceSession) Preview() *travel.Travel { return s.preview }

// SetStartDate moves the travel start; an end date at or before the new
// start is bumped one day past it.
func (s *AdvanceSession) SetStartDate(d time.Time) {
	s.startDate = d
	if !s.endDate.IsZero() && !s.endDate.After(d) {
		s.endDate = d.AddDate(0, 0, 1)
	}
	s.preview = nil
}

func (s *AdvanceSession) SetEndDate(d time.Time) {
	s.endDate = d
	s.preview = nil
}

func (s *AdvanceSession) SetLuggageCount(count int) {
	if count < 0 {
		count = 0
	}
	s.luggageCount = count
}

func (s *AdvanceSession) SetTransfers(arrival, departure bool) {
	s.needArrival = arrival
	s.needDeparture = departure
	s.preview = nil
}

func (s *AdvanceSession) SetArrivalLocation(location string) {
	if location != "" {
		s.arrivalLocation = location
		s.preview = nil
	}
}

func (s *AdvanceSession) SetDepartureLocation(location string) {
	if location != "" {
		s.departureLocation = location
		s.preview = nil
	}
}

// BeginPlanning validates the date range and enters the segment-planning
// step, seeding the first segment with check-in on the travel start date.
func (s *AdvanceSession) BeginPlanning() error {
	if s.startDate.IsZero() || s.endDate.IsZero() {
		return travel.NewValidationError("please select the full travel date range first")
	}
	if !s.endDate.After(s.startDate) {
		return travel.NewValidationError("the end date must be after the start date")
	}
	if len(s.segments) == 0 {
		s.segments = []Segment{{CheckIn: s.startDate}}
	}
	s.step = AdvanceStepPlanning
	return nil
}

func (s *AdvanceSession) segmentAt(index int) (*Segment, error) {
	if index < 0 || index >= len(s.segments) {
		return nil, travel.NewValidationError("stay segment does not exist")
	}
	seg := &s.segments[index]
	if seg.Locked {
		return nil, travel.NewValidationError("this stay segment is confirmed and can no longer be edited")
	}
	return seg, nil
}

// SetSegmentCheckIn rejects edits to locked segments and check-ins that
// break the chain from the previous segment's checkout.
func (s *AdvanceSession) SetSegmentCheckIn(index int, d time.Time) error {
	seg, err := s.segmentAt(index)
	if err != nil {
		return err
	}
	if index > 0 {
		prev := s.segments[index-1]
		if !prev.CheckOut.IsZero() && d.Before(prev.CheckOut) {
			return travel.NewValidationError("the check-in date cannot be before the previous checkout")
		}
	}
	seg.CheckIn = d
	s.preview = nil
	return nil
}

func (s *AdvanceSession) SetSegmentCheckOut(index int, d time.Time) error {
	seg, err := s.segmentAt(index)
	if err != nil {
		return err
	}
	if !seg.CheckIn.IsZero() && !d.After(seg.CheckIn) {
		return travel.NewValidationError("the checkout date must be after the check-in date")
	}
	seg.CheckOut = d
	s.preview = nil
	return nil
}

func (s *AdvanceSession) SetSegmentHotel(index int, name string) error {
	seg, err := s.segmentAt(index)
	if err != nil {
		return err
	}
	seg.HotelName = name
	s.preview = nil
	return nil
}

// AddNextSegment confirms the last segment and, unless the plan already
// reaches the travel end date, appends the next one with its check-in
// chained to the previous checkout. Returns whether a segment was added.
func (s *AdvanceSession) AddNextSegment() (bool, error) {
	if len(s.segments) == 0 {
		return false, travel.NewValidationError("no stay segment to confirm")
	}
	last := &s.segments[len(s.segments)-1]
	if !last.Complete() {
		return false, travel.NewValidationError("please complete the current stay: " + last.missingFields())
	}
	last.Locked = true

	if !last.CheckOut.Before(s.endDate) {
		// Plan already covers the whole range; nothing to append.
		return false, nil
	}

	s.segments = append(s.segments, Segment{CheckIn: last.CheckOut})
	s.preview = nil
	s.log.Info("stay segment added", zap.Int("segments", len(s.segments)))
	return true, nil
}

// RemoveLastSegment drops the newest segment and unlocks the one before
// it. The first segment is never removed.
func (s *AdvanceSession) RemoveLastSegment() {
	if len(s.segments) <= 1 {
		return
	}
	s.segments = s.segments[:len(s.segments)-1]
	s.segments[len(s.segments)-1].Locked = false
	s.preview = nil
}

// ProceedToConfirm runs the final validations, builds the priced travel
// preview through the engine (nothing is persisted) and enters the
// confirmation step. On an engine rejection the last segment is unlocked
// again so the user can fix it.
func (s *AdvanceSession) ProceedToConfirm(ctx context.Context) (*travel.Travel, error) {
	if len(s.segments) == 0 {
		return nil, travel.NewValidationError("at least one stay segment is required")
	}
	last := &s.segments[len(s.segments)-1]
	if !last.Complete() {
		return nil, travel.NewValidationError("please complete the last stay: " + last.missingFields())
	}
	if last.CheckOut.Before(s.endDate) {
		return nil, travel.NewValidationError(
			fmt.Sprintf("the stay plan does not cover the travel end date (%s)", s.endDate.Format("2006-01-02")))
	}
	last.Locked = true

	preview, err := s.buildTravel(ctx)
	if err != nil {
		last.Locked = false
		return nil, err
	}
	if _, err := s.engine.GenerateTrips(preview); err != nil {
		last.Locked = false
		return nil, err
	}

	s.preview = preview
	s.step = AdvanceStepConfirm
	return preview, nil
}

// Submit persists the previewed travel with all its trips. On a store
// failure the preview is kept so the user can retry.
func (s *AdvanceSession) Submit(ctx context.Context) (orders.Record, []orders.Record, error) {
	t := s.preview
	if t == nil {
		built, err := s.buildTravel(ctx)
		if err != nil {
			return orders.Record{}, nil, err
		}
		if _, err := s.engine.GenerateTrips(built); err != nil {
			return orders.Record{}, nil, err
		}
		t = built
	}

	t.Status = travel.TravelPending
	t.UserEmail = s.userEmail

	travelRec, tripRecs, err := s.store.SaveTravelWithTrips(*t, s.userEmail)
	if err != nil {
		s.log.Error("advance booking save failed", zap.Error(err))
		return orders.Record{}, nil, fmt.Errorf("save failed, please try again: %w", err)
	}

	s.Reset()
	return travelRec, tripRecs, nil
}

// Reset clears the whole wizard.
func (s *AdvanceSession) Reset() {
	s.step = AdvanceStepDates
	s.startDate = time.Time{}
	s.endDate = time.Time{}
	s.segments = nil
	s.luggageCount = 0
	s.needArrival = false
	s.needDeparture = false
	s.arrivalLocation = DefaultTransferHub
	s.departureLocation = DefaultTransferHub
	s.preview = nil
}

// buildTravel turns the wizard state into a Travel, resolving each hotel
// through the partner table first and geocoding unknown names. A hotel
// that cannot be resolved at all is kept with zero coordinates rather than
// blocking the flow.
func (s *AdvanceSession) buildTravel(ctx context.Context) (*travel.Travel, error) {
	if s.startDate.IsZero() || s.endDate.IsZero() {
		return nil, travel.NewValidationError("please select the travel dates first")
	}
	if len(s.segments) == 0 {
		return nil, travel.NewValidationError("at least one stay segment is required")
	}

	hotels := make([]travel.HotelStay, 0, len(s.segments))
	for _, seg := range s.segments {
		if !seg.Complete() {
			return nil, travel.NewValidationError("please complete all stay segments")
		}
		stay := s.resolveHotel(ctx, seg.HotelName)
		stay.CheckInDate = seg.CheckIn
		stay.CheckOutDate = seg.CheckOut
		hotels = append(hotels, stay)
	}

	t := &travel.Travel{
		ID:                uuid.NewString(),
		TotalStartDate:    s.startDate,
		TotalEndDate:      s.endDate,
		Status:            travel.TravelDraft,
		LuggageCount:      s.luggageCount,
		ArrivalTransfer:   s.needArrival,
		ArrivalLocation:   s.arrivalLocation,
		DepartureTransfer: s.needDeparture,
		DepartureLocation: s.departureLocation,
		Hotels:            hotels,
	}

	if s.needArrival {
		if loc := s.geocodeQuiet(ctx, s.arrivalLocation); loc != nil {
			t.ArrivalLat, t.ArrivalLng = loc.Lat, loc.Lng
		}
	}
	if s.needDeparture {
		if loc := s.geocodeQuiet(ctx, s.departureLocation); loc != nil {
			t.DepartureLat, t.DepartureLng = loc.Lat, loc.Lng
		}
	}
	return t, nil
}

func (s *AdvanceSession) resolveHotel(ctx context.Context, name string) travel.HotelStay {
	if h, ok := s.hotelLookup[name]; ok {
		return travel.HotelStay{
			HotelName: name,
			Address:   h.Address,
			Lat:       h.Lat,
			Lng:       h.Lng,
			IsPartner: true,
		}
	}
	if loc := s.geocodeQuiet(ctx, name); loc != nil {
		address := loc.FormattedAddress
		if address == "" {
			address = name
		}
		return travel.HotelStay{HotelName: name, Address: address, Lat: loc.Lat, Lng: loc.Lng}
	}
	return travel.HotelStay{HotelName: name, Address: name}
}

func (s *AdvanceSession) geocodeQuiet(ctx context.Context, address string) *geo.Location {
	if address == "" {
		return nil
	}
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.log.Warn("geocode failed", zap.String("address", address), zap.Error(err))
		return nil
	}
	return loc
}
