package booking

import (
	"context"
	"testing"
	"time"

	"ebaggage/internal/modules/travel"
	"ebaggage/internal/types"
)

func preparedSelection(t *testing.T, trip *travel.Trip) *VehicleSelection {
	t.Helper()
	v := NewVehicleSelection(nil, nil)
	if err := v.PrepareFromTrip(context.Background(), trip, "Taipei 101", "Grand Hotel", "fragile"); err != nil {
		t.Fatalf("PrepareFromTrip() error = %v", err)
	}
	return v
}

func pricedTrip(price float64, luggage int) *travel.Trip {
	return &travel.Trip{
		ID:           "trip-1",
		StartTime:    time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC),
		PickupLat:    25.0340, PickupLng: 121.5645,
		DropoffLat:   25.0795, DropoffLng: 121.5262,
		Price:        price,
		LuggageItems: []travel.LuggageItem{{Size: 24, Quantity: luggage}},
	}
}

func TestVehicleSelection_OptionsAndRecommendation(t *testing.T) {
	v := preparedSelection(t, pricedTrip(400, 4))

	opts := v.Options()
	if len(opts) != 3 {
		t.Fatalf("got %d options, want 3", len(opts))
	}
	if opts[0].Price != 400 || opts[1].Price != 500 || opts[2].Price != 600 {
		t.Errorf("option prices = %f/%f/%f, want 400/500/600",
			opts[0].Price, opts[1].Price, opts[2].Price)
	}

	// Four pieces of luggage recommend the SUV, and the recommendation is
	// pre-selected.
	for _, opt := range opts {
		wantSUV := opt.Type == "suv"
		if opt.Recommended != wantSUV {
			t.Errorf("tier %s recommended = %v", opt.Type, opt.Recommended)
		}
		if opt.Selected != wantSUV {
			t.Errorf("tier %s selected = %v", opt.Type, opt.Selected)
		}
	}
}

func TestVehicleSelection_FallbackEstimateWhenUnpriced(t *testing.T) {
	v := preparedSelection(t, pricedTrip(0, 1))

	opts := v.Options()
	// Short hop floors at the 350 fallback.
	if opts[0].Price != 350 {
		t.Errorf("sedan price = %f, want 350 fallback", opts[0].Price)
	}
}

func TestVehicleSelection_SelectAndConfirm(t *testing.T) {
	v := preparedSelection(t, pricedTrip(400, 1))

	if err := v.Select("helicopter"); err == nil {
		t.Error("Select(helicopter) accepted")
	}
	if err := v.Select("van"); err != nil {
		t.Fatalf("Select(van) error = %v", err)
	}

	choice, err := v.Confirm()
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if choice.Type != "van" || choice.Label != "7-seat Van" || choice.Price != 600 {
		t.Errorf("Confirm() = %+v", choice)
	}
}

func TestVehicleSelection_ConfirmWithoutTrip(t *testing.T) {
	v := NewVehicleSelection(nil, nil)
	if _, err := v.Confirm(); err == nil {
		t.Error("Confirm() without a trip accepted")
	}
	if err := v.PrepareFromTrip(context.Background(), nil, "", "", ""); err == nil {
		t.Error("PrepareFromTrip(nil) accepted")
	}
}

func TestVehicleSelection_SummaryAndMap(t *testing.T) {
	v := preparedSelection(t, pricedTrip(400, 2))

	sum := v.Summary()
	if sum.PickupDisplay != "Taipei 101" || sum.DropoffDisplay != "Grand Hotel" {
		t.Errorf("summary displays = %q -> %q", sum.PickupDisplay, sum.DropoffDisplay)
	}
	if sum.LuggageCount != 2 || sum.LuggageNote != "fragile" {
		t.Errorf("summary luggage = %d / %q", sum.LuggageCount, sum.LuggageNote)
	}
	if sum.DistanceKm <= 0 || sum.ETAMinutes < 5 {
		t.Errorf("summary distance/eta = %f / %d", sum.DistanceKm, sum.ETAMinutes)
	}

	m := v.MapContext()
	// No router wired: the polyline is the straight line.
	if len(m.Polyline) != 2 {
		t.Errorf("polyline has %d points, want 2", len(m.Polyline))
	}
	if m.Zoom < 8 || m.Zoom > 17 {
		t.Errorf("zoom = %d out of range", m.Zoom)
	}
	if (m.Center == types.Point{}) {
		t.Error("map center not set")
	}
}
