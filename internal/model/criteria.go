package model

import "time"

// Default guest counts applied when a search session starts.
const (
	DefaultAdults   = 2
	DefaultChildren = 0
	DefaultRooms    = 1
)

// Lower bounds for the guest counters.  Decrements that would cross
// them are ignored by the criteria store.
const (
	MinAdults   = 1
	MinChildren = 0
	MinRooms    = 1
)

// SearchCriteria holds what the guest picked in the booking widget.
// It lives only as long as the guest session that owns it.
//
// Fields:
//  LocationID – selected property location; nil means "all locations".
//  CheckIn    – arrival date (date only, UTC midnight), nil when unset.
//  CheckOut   – departure date, strictly after CheckIn when both are set.
//  Adults     – adult guests, never below MinAdults.
//  Children   – child guests, never below MinChildren.
//  Rooms      – rooms requested, never below MinRooms.
type SearchCriteria struct {
	LocationID *int64     `json:"location_id"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Adults     int        `json:"adults"`
	Children   int        `json:"children"`
	Rooms      int        `json:"rooms"`
}

// NewSearchCriteria returns criteria with the session defaults.
func NewSearchCriteria() SearchCriteria {
	return SearchCriteria{
		Adults:   DefaultAdults,
		Children: DefaultChildren,
		Rooms:    DefaultRooms,
	}
}

// Occupancy is the number of people the selected unit must hold.
func (c SearchCriteria) Occupancy() int { return c.Adults + c.Children }

// HasDates reports whether both stay dates are selected.
func (c SearchCriteria) HasDates() bool { return c.CheckIn != nil && c.CheckOut != nil }

// Clone returns a deep copy so callers can hold on to a snapshot while
// the store keeps mutating.
func (c SearchCriteria) Clone() SearchCriteria {
	out := c
	if c.LocationID != nil {
		v := *c.LocationID
		out.LocationID = &v
	}
	if c.CheckIn != nil {
		v := *c.CheckIn
		out.CheckIn = &v
	}
	if c.CheckOut != nil {
		v := *c.CheckOut
		out.CheckOut = &v
	}
	return out
}
