package orders

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"ebaggage/internal/modules/travel"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "db.json"), nil)
}

func sampleTrip(id string, start time.Time) travel.Trip {
	end := start.Add(time.Hour)
	return travel.Trip{
		ID:              id,
		StartTime:       start,
		EndTime:         &end,
		PickupLocation:  "Taoyuan International Airport",
		PickupLat:       25.0797, PickupLng: 121.2342,
		DropoffLocation: "Grand Hotel",
		DropoffLat:      25.0795, DropoffLng: 121.5262,
		Status:          travel.TripPending,
		VehicleType:     "sedan",
		Price:           1123.5,
		LuggageItems:    []travel.LuggageItem{{Size: 24, Quantity: 2}},
	}
}

func TestStore_SaveSingleTripRoundTrip(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC)

	saved, err := store.SaveSingleTrip(sampleTrip("trip-1", start), "user@example.com", TypeInstantTrip, &Extra{
		PickupDisplay:   "Airport Terminal 1",
		DropoffDisplay:  "Grand Hotel Lobby",
		LuggageNote:     "fragile",
		SelectedVehicle: "suv",
	})
	if err != nil {
		t.Fatalf("SaveSingleTrip() error = %v", err)
	}
	if saved.ID != "trip-1" {
		t.Errorf("saved record id = %q, want trip-1", saved.ID)
	}

	rec, ok := store.OrderByID("trip-1")
	if !ok {
		t.Fatal("OrderByID() did not find the saved trip")
	}
	if rec.OrderType != TypeInstantTrip {
		t.Errorf("order type = %q, want %q", rec.OrderType, TypeInstantTrip)
	}
	if rec.UserEmail != "user@example.com" {
		t.Errorf("user email = %q", rec.UserEmail)
	}
	if rec.PickupDisplay != "Airport Terminal 1" || rec.SelectedVehicle != "suv" {
		t.Errorf("instant extras not persisted: %+v", rec)
	}
	if rec.CreatedAt == nil {
		t.Error("created_at not stamped")
	}

	got := rec.Trip()
	if got.ID != "trip-1" || got.Price != 1123.5 || got.Status != travel.TripPending {
		t.Errorf("reconstructed trip = %+v", got)
	}
	if len(got.LuggageItems) != 1 || got.LuggageItems[0].Quantity != 2 {
		t.Errorf("luggage items lost: %+v", got.LuggageItems)
	}
}

func TestStore_SaveTravelWithTrips(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	trav := travel.Travel{
		ID:             "travel-1",
		TotalStartDate: start,
		TotalEndDate:   end,
		Status:         travel.TravelPending,
		Hotels: []travel.HotelStay{
			{HotelName: "Grand Hotel", CheckInDate: start, CheckOutDate: end},
		},
		Trips: []travel.Trip{
			sampleTrip("leg-1", start.Add(14*time.Hour)),
			sampleTrip("leg-2", end.Add(12*time.Hour)),
		},
		TotalPrice: 2247.0,
	}

	travelRec, tripRecs, err := store.SaveTravelWithTrips(trav, "user@example.com")
	if err != nil {
		t.Fatalf("SaveTravelWithTrips() error = %v", err)
	}
	if travelRec.OrderType != TypeTravel {
		t.Errorf("travel record type = %q", travelRec.OrderType)
	}
	if len(travelRec.TripIDs) != 2 || travelRec.TripIDs[0] != "leg-1" {
		t.Errorf("trip ids = %v", travelRec.TripIDs)
	}
	if len(tripRecs) != 2 {
		t.Fatalf("got %d trip records, want 2", len(tripRecs))
	}
	for _, rec := range tripRecs {
		if rec.OrderType != TypeTravelTrip {
			t.Errorf("trip record type = %q, want %q", rec.OrderType, TypeTravelTrip)
		}
	}

	all := store.AllOrders()
	if len(all) != 3 {
		t.Errorf("store holds %d orders, want 3", len(all))
	}
}

func TestStore_SaveTravelWithTrips_GroupsTravelFirst(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)

	// Both legs start in the future, well after the save happens; a
	// start-time ordering would push them above their travel.
	trav := travel.Travel{
		ID:             "travel-1",
		TotalStartDate: start,
		TotalEndDate:   end,
		Status:         travel.TravelPending,
		Hotels: []travel.HotelStay{
			{HotelName: "Grand Hotel", CheckInDate: start, CheckOutDate: end},
		},
		Trips: []travel.Trip{
			sampleTrip("leg-1", start.Add(14*time.Hour)),
			sampleTrip("leg-2", end.Add(12*time.Hour)),
		},
	}
	if _, _, err := store.SaveTravelWithTrips(trav, "u@e.com"); err != nil {
		t.Fatal(err)
	}

	got := store.AllOrders()
	if len(got) != 3 {
		t.Fatalf("store holds %d orders, want 3", len(got))
	}
	wantOrder := []string{"travel-1", "leg-1", "leg-2"}
	for i, want := range wantOrder {
		if got[i].Identifier() != want {
			t.Fatalf("persisted order = [%s %s %s], want %v",
				got[0].Identifier(), got[1].Identifier(), got[2].Identifier(), wantOrder)
		}
	}
}

func TestStore_UpdateOrderStatus(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC)
	if _, err := store.SaveSingleTrip(sampleTrip("trip-1", start), "u@e.com", TypeTrip, nil); err != nil {
		t.Fatal(err)
	}

	ok, err := store.UpdateOrderStatus("trip-1", string(travel.TripCancelled))
	if err != nil || !ok {
		t.Fatalf("UpdateOrderStatus() = %v, %v", ok, err)
	}

	rec, _ := store.OrderByID("trip-1")
	if rec.Status != string(travel.TripCancelled) {
		t.Errorf("status = %q, want CANCELLED", rec.Status)
	}
	if rec.UpdatedAt == nil {
		t.Error("updated_at not stamped")
	}
	if rec.CancelledAt == nil {
		t.Error("cancelled_at not stamped on cancellation")
	}

	ok, err = store.UpdateOrderStatus("missing", "CONFIRMED")
	if err != nil {
		t.Fatalf("UpdateOrderStatus(missing) error = %v", err)
	}
	if ok {
		t.Error("UpdateOrderStatus(missing) = true, want false")
	}
}

func TestStore_UpdateOrderStatusIdempotent(t *testing.T) {
	store := newTestStore(t)
	fixed := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	start := time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC)
	if _, err := store.SaveSingleTrip(sampleTrip("trip-1", start), "u@e.com", TypeTrip, nil); err != nil {
		t.Fatal(err)
	}

	if ok, err := store.UpdateOrderStatus("trip-1", string(travel.TripCancelled)); err != nil || !ok {
		t.Fatalf("first UpdateOrderStatus() = %v, %v", ok, err)
	}
	first, _ := store.OrderByID("trip-1")

	if ok, err := store.UpdateOrderStatus("trip-1", string(travel.TripCancelled)); err != nil || !ok {
		t.Fatalf("second UpdateOrderStatus() = %v, %v", ok, err)
	}
	second, _ := store.OrderByID("trip-1")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated status update changed the record:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if second.Status != string(travel.TripCancelled) || second.CancelledAt == nil {
		t.Errorf("final record = %+v", second)
	}
}

func TestStore_SelfHealsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, nil)
	if got := store.AllOrders(); len(got) != 0 {
		t.Errorf("corrupt file read as %d orders, want 0", len(got))
	}

	// A write through the store replaces the corrupt document.
	start := time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC)
	if _, err := store.SaveSingleTrip(sampleTrip("trip-1", start), "u@e.com", TypeTrip, nil); err != nil {
		t.Fatalf("SaveSingleTrip() after corruption error = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("rewritten file is not valid json: %v", err)
	}
	if len(doc.Orders) != 1 {
		t.Errorf("rewritten document has %d orders, want 1", len(doc.Orders))
	}
}

func TestStore_MissingFileReadsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"), nil)
	if got := store.AllOrders(); len(got) != 0 {
		t.Errorf("missing file read as %d orders", len(got))
	}
	if _, ok := store.OrderByID("anything"); ok {
		t.Error("OrderByID() found a record in an empty store")
	}
}

func TestStore_OrdersSortedNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new", "mid"} {
		offsets := []time.Duration{0, 48 * time.Hour, 24 * time.Hour}
		if _, err := store.SaveSingleTrip(sampleTrip(id, base.Add(offsets[i])), "u@e.com", TypeTrip, nil); err != nil {
			t.Fatal(err)
		}
	}

	got := store.AllOrders()
	if got[0].Identifier() != "new" || got[1].Identifier() != "mid" || got[2].Identifier() != "old" {
		t.Errorf("unexpected order: %s, %s, %s",
			got[0].Identifier(), got[1].Identifier(), got[2].Identifier())
	}

	asc := store.OrdersSortedByDate(false)
	if asc[0].Identifier() != "old" || asc[2].Identifier() != "new" {
		t.Errorf("ascending sort wrong: %s ... %s", asc[0].Identifier(), asc[2].Identifier())
	}
}

func TestStore_SortFallsBackToLegacyDate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	legacy := `{"orders":[
		{"order_id":"legacy-old","date":"2025/01/01"},
		{"order_id":"legacy-new","date":"2025/06/01"}
	]}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, nil)
	got := store.OrdersSortedByDate(true)
	if got[0].Identifier() != "legacy-new" || got[1].Identifier() != "legacy-old" {
		t.Errorf("legacy date sort wrong: %s, %s", got[0].Identifier(), got[1].Identifier())
	}
}

func TestStore_OrdersByUser(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	if _, err := store.SaveSingleTrip(sampleTrip("a", start), "alice@e.com", TypeTrip, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSingleTrip(sampleTrip("b", start.Add(time.Hour)), "bob@e.com", TypeTrip, nil); err != nil {
		t.Fatal(err)
	}

	got := store.OrdersByUser("alice@e.com")
	if len(got) != 1 || got[0].Identifier() != "a" {
		t.Errorf("OrdersByUser(alice) = %v", got)
	}
	if got := store.OrdersByUser("nobody@e.com"); len(got) != 0 {
		t.Errorf("OrdersByUser(nobody) returned %d records", len(got))
	}
}

func TestStore_AppendScan(t *testing.T) {
	store := newTestStore(t)
	rec, err := store.AppendScan("u@e.com", "user", "2 x 24in suitcases")
	if err != nil {
		t.Fatalf("AppendScan() error = %v", err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Errorf("scan record not stamped: %+v", rec)
	}

	// Orders must be untouched by scan history writes.
	if got := store.AllOrders(); len(got) != 0 {
		t.Errorf("scan write created %d orders", len(got))
	}
}

func TestStore_PreservesOpaqueSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	seed := `{"orders":[],"users":[{"email":"u@e.com","name":"U"}],"drivers":[{"id":"d1"}]}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, nil)
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	if _, err := store.SaveSingleTrip(sampleTrip("t", start), "u@e.com", TypeTrip, nil); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["users"]; !ok {
		t.Error("users section dropped on rewrite")
	}
	if _, ok := doc["drivers"]; !ok {
		t.Error("drivers section dropped on rewrite")
	}
}
