// README: JSON-document order store: whole-file read/overwrite, self-healing on corruption.
package orders

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ebaggage/internal/modules/travel"
)

// Document is the single persisted JSON file. Users and Drivers are opaque
// to this core; they are preserved byte-for-byte across rewrites.
type Document struct {
	Orders        []Record        `json:"orders"`
	Users         json.RawMessage `json:"users,omitempty"`
	Scans         []ScanRecord    `json:"scans"`
	Drivers       json.RawMessage `json:"drivers,omitempty"`
	Hotels        []Hotel         `json:"hotels,omitempty"`
	PartnerHotels []Hotel         `json:"partner_hotels,omitempty"`
}

// Store persists orders into one JSON document with whole-file overwrite
// semantics. A missing or corrupt file reads as an empty store. Writes are
// not atomic across processes (accepted for the single-user demo scope);
// a process-wide mutex serializes writers in this process.
type Store struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
	now  func() time.Time
}

func NewStore(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log, now: time.Now}
}

func (s *Store) load() Document {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("store read failed, starting empty", zap.Error(err))
		}
		return Document{Orders: []Record{}}
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn("store document corrupt, starting empty", zap.Error(err))
		return Document{Orders: []Record{}}
	}
	if doc.Orders == nil {
		doc.Orders = []Record{}
	}
	return doc
}

func (s *Store) save(doc Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write store document: %w", err)
	}
	return nil
}

func sortOrdersDesc(orders []Record) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].sortTime().After(orders[j].sortTime())
	})
}

// sortOrdersByCreatedDesc orders by creation time so a submitted travel
// stays grouped above its own trips, whose start times lie in the future.
func sortOrdersByCreatedDesc(orders []Record) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].createdTime().After(orders[j].createdTime())
	})
}

func (s *Store) tripRecord(trip travel.Trip, userEmail, orderType string) Record {
	created := s.now()
	start := trip.StartTime
	return Record{
		ID:              trip.ID,
		OrderType:       orderType,
		Status:          string(trip.Status),
		UserEmail:       userEmail,
		CreatedAt:       &created,
		ParentTravelID:  trip.ParentTravelID,
		StartTime:       &start,
		EndTime:         trip.EndTime,
		PickupLocation:  trip.PickupLocation,
		PickupLat:       trip.PickupLat,
		PickupLng:       trip.PickupLng,
		DropoffLocation: trip.DropoffLocation,
		DropoffLat:      trip.DropoffLat,
		DropoffLng:      trip.DropoffLng,
		VehicleType:     trip.VehicleType,
		Price:           trip.Price,
		LuggageItems:    trip.LuggageItems,
	}
}

// Extra carries instant-booking display fields merged onto the trip record.
type Extra struct {
	PickupDisplay   string
	DropoffDisplay  string
	LuggageNote     string
	SelectedVehicle string
}

// SaveSingleTrip appends one trip to the orders array, re-sorts the whole
// array by start time descending and rewrites the file.
func (s *Store) SaveSingleTrip(trip travel.Trip, userEmail, orderType string, extra *Extra) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	rec := s.tripRecord(trip, userEmail, orderType)
	if extra != nil {
		rec.PickupDisplay = extra.PickupDisplay
		rec.DropoffDisplay = extra.DropoffDisplay
		rec.LuggageNote = extra.LuggageNote
		rec.SelectedVehicle = extra.SelectedVehicle
	}
	doc.Orders = append(doc.Orders, rec)
	sortOrdersDesc(doc.Orders)

	if err := s.save(doc); err != nil {
		return Record{}, err
	}
	s.log.Info("trip saved", zap.String("trip_id", trip.ID), zap.String("order_type", orderType))
	return rec, nil
}

// SaveTravelWithTrips appends the travel record (carrying its trip ids)
// plus one record per generated trip, re-sorts and rewrites.
func (s *Store) SaveTravelWithTrips(t travel.Travel, userEmail string) (Record, []Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	created := s.now()
	start, end := t.TotalStartDate, t.TotalEndDate

	tripIDs := make([]string, 0, len(t.Trips))
	for _, trip := range t.Trips {
		tripIDs = append(tripIDs, trip.ID)
	}

	travelRec := Record{
		ID:                t.ID,
		OrderType:         TypeTravel,
		Status:            string(t.Status),
		UserEmail:         userEmail,
		CreatedAt:         &created,
		TotalStartDate:    &start,
		TotalEndDate:      &end,
		ArrivalTransfer:   t.ArrivalTransfer,
		ArrivalLocation:   t.ArrivalLocation,
		ArrivalLat:        t.ArrivalLat,
		ArrivalLng:        t.ArrivalLng,
		DepartureTransfer: t.DepartureTransfer,
		DepartureLocation: t.DepartureLocation,
		DepartureLat:      t.DepartureLat,
		DepartureLng:      t.DepartureLng,
		Hotels:            t.Hotels,
		Trips:             t.Trips,
		TripIDs:           tripIDs,
		TotalPrice:        t.TotalPrice,
	}

	tripRecs := make([]Record, 0, len(t.Trips))
	for _, trip := range t.Trips {
		rec := s.tripRecord(trip, userEmail, TypeTravelTrip)
		// One timestamp for the whole batch keeps the group stable.
		rec.CreatedAt = &created
		tripRecs = append(tripRecs, rec)
	}

	doc.Orders = append(doc.Orders, travelRec)
	doc.Orders = append(doc.Orders, tripRecs...)
	sortOrdersByCreatedDesc(doc.Orders)

	if err := s.save(doc); err != nil {
		return Record{}, nil, err
	}
	s.log.Info("travel saved",
		zap.String("travel_id", t.ID), zap.Int("trips", len(tripRecs)))
	return travelRec, tripRecs, nil
}

// UpdateOrderStatus sets the status of the matching record and stamps
// updated_at (and cancelled_at for cancellations). Returns false when no
// record matches; the file is rewritten only on success.
func (s *Store) UpdateOrderStatus(orderID, newStatus string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	now := s.now()
	for i := range doc.Orders {
		if doc.Orders[i].Identifier() != orderID {
			continue
		}
		doc.Orders[i].Status = newStatus
		doc.Orders[i].UpdatedAt = &now
		if newStatus == "cancelled" || newStatus == string(travel.TripCancelled) {
			doc.Orders[i].CancelledAt = &now
		}
		if err := s.save(doc); err != nil {
			return false, err
		}
		s.log.Info("order status updated",
			zap.String("order_id", orderID), zap.String("status", newStatus))
		return true, nil
	}
	s.log.Warn("order not found for status update", zap.String("order_id", orderID))
	return false, nil
}

// AllOrders returns every order record as stored.
func (s *Store) AllOrders() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Orders
}

// OrderByID finds one record by id (or legacy order_id).
func (s *Store) OrderByID(orderID string) (Record, bool) {
	for _, rec := range s.AllOrders() {
		if rec.Identifier() == orderID {
			return rec, true
		}
	}
	return Record{}, false
}

// OrdersByUser filters orders by the owning user email.
func (s *Store) OrdersByUser(userEmail string) []Record {
	all := s.AllOrders()
	out := make([]Record, 0, len(all))
	for _, rec := range all {
		if rec.UserEmail == userEmail {
			out = append(out, rec)
		}
	}
	return out
}

// OrdersSortedByDate returns all orders sorted by their date key;
// reverse=true puts the newest first.
func (s *Store) OrdersSortedByDate(reverse bool) []Record {
	out := s.AllOrders()
	sort.SliceStable(out, func(i, j int) bool {
		if reverse {
			return out[i].sortTime().After(out[j].sortTime())
		}
		return out[i].sortTime().Before(out[j].sortTime())
	})
	return out
}

// Hotels returns the full hotel lookup table.
func (s *Store) Hotels() []Hotel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Hotels
}

// PartnerHotels returns hotels with pre-registered coordinates.
func (s *Store) PartnerHotels() []Hotel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().PartnerHotels
}

// AppendScan adds a luggage-scan result to the scan history.
func (s *Store) AppendScan(userEmail, scannedBy, result string) (ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	rec := ScanRecord{
		ID:        uuid.NewString(),
		UserEmail: userEmail,
		ScannedBy: scannedBy,
		Result:    result,
		CreatedAt: s.now(),
	}
	doc.Scans = append(doc.Scans, rec)
	if err := s.save(doc); err != nil {
		return ScanRecord{}, err
	}
	return rec, nil
}
