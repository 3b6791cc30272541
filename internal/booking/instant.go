// README: Instant booking wizard: details -> vehicle selection -> final confirm -> persist.
package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ebaggage/internal/geo"
	"ebaggage/internal/modules/orders"
	"ebaggage/internal/modules/travel"
	"ebaggage/internal/types"
)

// InstantStep is the wizard position. The vehicle-selection sub-flow sits
// between the two steps and is driven by VehicleSelection.
type InstantStep int

const (
	InstantStepDetails InstantStep = 1
	InstantStepConfirm InstantStep = 2
)

// InstantSession drives an on-demand booking for one user. Single-writer:
// one session serves one wizard run and is never shared across users.
type InstantSession struct {
	geocoder geo.Geocoder
	engine   *travel.Service
	store    *orders.Store
	log      *zap.Logger

	userEmail string
	mapCenter types.Point

	step          InstantStep
	pickup        string
	dropoff       string
	luggageCount  int
	luggageNote   string
	scanConfirmed bool
	scannedItems  []travel.LuggageItem

	pendingTrip  *travel.Trip
	vehicleType  string
	vehicleLabel string
	vehiclePrice float64
}

func NewInstantSession(geocoder geo.Geocoder, engine *travel.Service, store *orders.Store, userEmail string, mapCenter types.Point, log *zap.Logger) *InstantSession {
	if log == nil {
		log = zap.NewNop()
	}
	return &InstantSession{
		geocoder:     geocoder,
		engine:       engine,
		store:        store,
		log:          log,
		userEmail:    userEmail,
		mapCenter:    mapCenter,
		step:         InstantStepDetails,
		luggageCount: 1,
	}
}

func (s *InstantSession) Step() InstantStep          { return s.step }
func (s *InstantSession) PendingTrip() *travel.Trip  { return s.pendingTrip }
func (s *InstantSession) SelectedVehicle() string    { return s.vehicleType }
func (s *InstantSession) Pickup() string             { return s.pickup }
func (s *InstantSession) Dropoff() string            { return s.dropoff }
func (s *InstantSession) LuggageNote() string        { return s.luggageNote }
func (s *InstantSession) UserEmail() string          { return s.userEmail }

func (s *InstantSession) SetPickup(location string) {
	s.pickup = location
	s.pendingTrip = nil
}

func (s *InstantSession) SetDropoff(location string) {
	s.dropoff = location
	s.pendingTrip = nil
}

// SetLuggageCount clamps to 1-10 pieces.
func (s *InstantSession) SetLuggageCount(count int) {
	if count < 1 {
		count = 1
	}
	if count > 10 {
		count = 10
	}
	s.luggageCount = count
}

func (s *InstantSession) SetLuggageNote(note string) {
	s.luggageNote = note
}

// ConfirmScan records the scanned luggage items and unlocks the confirm
// transition. items may be empty; the default item is derived at build time.
func (s *InstantSession) ConfirmScan(items []travel.LuggageItem) {
	s.scannedItems = items
	s.scanConfirmed = true
}

// ProceedToVehicle validates the collected input, geocodes both endpoints
// and builds the pending trip, ready for the vehicle-selection sub-flow.
// Any validation failure keeps the session on the details step.
func (s *InstantSession) ProceedToVehicle(ctx context.Context) (*travel.Trip, error) {
	if s.pickup == "" {
		return nil, travel.NewValidationError("please select a pickup location")
	}
	if s.dropoff == "" {
		return nil, travel.NewValidationError("please select a dropoff location")
	}
	if !s.scanConfirmed {
		return nil, travel.NewValidationError("please scan your luggage first")
	}

	pickupPoint, err := s.resolve(ctx, s.pickup)
	if err != nil || pickupPoint == nil {
		// The map center stands in for the rider's current position.
		pickupPoint = &geo.Location{Lat: s.mapCenter.Lat, Lng: s.mapCenter.Lng, FormattedAddress: s.pickup}
	}
	dropoffPoint, err := s.resolve(ctx, s.dropoff)
	if err != nil {
		return nil, travel.NewValidationError("cannot resolve the dropoff address, please try again")
	}
	if dropoffPoint == nil {
		return nil, travel.NewValidationError("cannot resolve the dropoff address")
	}

	items := s.scannedItems
	if len(items) == 0 {
		items = []travel.LuggageItem{{Size: 24, Quantity: s.luggageCount}}
	}

	trip := s.engine.BuildManualTrip(
		time.Now(),
		travel.Endpoint{Label: s.pickup, Lat: pickupPoint.Lat, Lng: pickupPoint.Lng},
		travel.Endpoint{Label: s.dropoff, Lat: dropoffPoint.Lat, Lng: dropoffPoint.Lng},
		items,
		"",
	)
	s.pendingTrip = &trip
	s.clearVehicleSelection()

	s.log.Info("instant trip computed",
		zap.String("trip_id", trip.ID),
		zap.String("pickup", s.pickup),
		zap.String("dropoff", s.dropoff),
		zap.Float64("price", trip.Price))
	return s.pendingTrip, nil
}

// ApplyVehicle records the vehicle-selection outcome on the pending trip
// and advances to the final confirmation step.
func (s *InstantSession) ApplyVehicle(vehicleType, label string, price float64) error {
	if s.pendingTrip == nil {
		return travel.NewValidationError("no pending trip, please start over")
	}
	s.vehicleType = vehicleType
	s.vehicleLabel = label
	s.vehiclePrice = price
	s.pendingTrip.VehicleType = vehicleType
	s.pendingTrip.Price = price
	s.step = InstantStepConfirm
	return nil
}

// Finalize persists the confirmed trip. On a store failure the in-memory
// state is preserved so the user can retry without re-entering data.
func (s *InstantSession) Finalize(ctx context.Context) (orders.Record, error) {
	if s.pendingTrip == nil {
		return orders.Record{}, travel.NewValidationError("booking details are incomplete, please start over")
	}
	if s.vehicleType == "" {
		return orders.Record{}, travel.NewValidationError("please select a vehicle first")
	}

	rec, err := s.store.SaveSingleTrip(*s.pendingTrip, s.userEmail, orders.TypeInstantTrip, &orders.Extra{
		PickupDisplay:   s.pickup,
		DropoffDisplay:  s.dropoff,
		LuggageNote:     s.luggageNote,
		SelectedVehicle: s.vehicleType,
	})
	if err != nil {
		s.log.Error("instant booking save failed", zap.Error(err))
		return orders.Record{}, fmt.Errorf("save failed, please try again: %w", err)
	}

	s.Reset()
	return rec, nil
}

// Back returns from the confirmation step without re-validating.
func (s *InstantSession) Back() {
	if s.step > InstantStepDetails {
		s.step = InstantStepDetails
	}
}

// Reset clears all collected fields and returns to the first step.
func (s *InstantSession) Reset() {
	s.step = InstantStepDetails
	s.pickup = ""
	s.dropoff = ""
	s.luggageCount = 1
	s.luggageNote = ""
	s.scanConfirmed = false
	s.scannedItems = nil
	s.pendingTrip = nil
	s.clearVehicleSelection()
}

func (s *InstantSession) clearVehicleSelection() {
	s.vehicleType = ""
	s.vehicleLabel = ""
	s.vehiclePrice = 0
}

func (s *InstantSession) resolve(ctx context.Context, address string) (*geo.Location, error) {
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.log.Warn("geocode failed", zap.String("address", address), zap.Error(err))
		return nil, err
	}
	return loc, nil
}
