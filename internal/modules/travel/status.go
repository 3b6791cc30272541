// README: Trip and travel status definitions with the allowed transition table.
package travel

// TripStatus is the lifecycle state of a single leg.
type TripStatus string

const (
	TripPending   TripStatus = "PENDING"
	TripConfirmed TripStatus = "CONFIRMED"
	TripCompleted TripStatus = "COMPLETED"
	TripCancelled TripStatus = "CANCELLED"
)

var tripTransitions = map[TripStatus][]TripStatus{
	TripPending:   {TripConfirmed, TripCancelled},
	TripConfirmed: {TripCompleted, TripCancelled},
	TripCompleted: {},
	TripCancelled: {},
}

// CanTransition reports whether a trip may move between the two states.
func CanTransition(from, to TripStatus) bool {
	next, ok := tripTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Known reports whether the value is one of the defined trip states.
// Order records may carry travel-level or legacy statuses instead.
func (s TripStatus) Known() bool {
	_, ok := tripTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s TripStatus) IsTerminal() bool {
	next, ok := tripTransitions[s]
	if !ok {
		return true
	}
	return len(next) == 0
}

// TravelStatus is the lifecycle state of a whole plan.
type TravelStatus string

const (
	TravelDraft     TravelStatus = "DRAFT"
	TravelPending   TravelStatus = "PENDING"
	TravelConfirmed TravelStatus = "CONFIRMED"
	TravelCompleted TravelStatus = "COMPLETED"
	TravelCancelled TravelStatus = "CANCELLED"
)
