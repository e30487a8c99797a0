// Package criteria holds the guest's search criteria for one session.
// Every mutation is total: out-of-range input leaves the criteria
// unchanged instead of returning an error.
package criteria

import (
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hospitality-booking/internal/model"
)

// GuestField names one of the guest counters.
type GuestField string

const (
	Adults   GuestField = "adults"
	Children GuestField = "children"
	Rooms    GuestField = "rooms"
)

// ParseGuestField accepts the counter name in any case.
func ParseGuestField(s string) (GuestField, bool) {
	switch f := GuestField(strings.ToLower(strings.TrimSpace(s))); f {
	case Adults, Children, Rooms:
		return f, true
	}
	return "", false
}

// Store is safe for concurrent use.
type Store struct {
	mu              sync.RWMutex
	c               model.SearchCriteria
	requireLocation bool
}

// NewStore returns a store holding the session defaults.  When
// requireLocation is true CanSearch stays false until a location is set.
func NewStore(requireLocation bool) *Store {
	return &Store{c: model.NewSearchCriteria(), requireLocation: requireLocation}
}

// Snapshot returns a copy of the current criteria.
func (s *Store) Snapshot() model.SearchCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Clone()
}

// CanSearch reports whether the criteria are complete enough to search.
func (s *Store) CanSearch() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.requireLocation || s.c.LocationID != nil
}

// SetLocation selects a location, or all locations when id is nil.
func (s *Store) SetLocation(id *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == nil {
		s.c.LocationID = nil
		return
	}
	v := *id
	s.c.LocationID = &v
}

// SetCheckIn selects the arrival date.  A check-out that is no longer
// after the new check-in is cleared so the guest picks it again.
func (s *Store) SetCheckIn(d time.Time) {
	d = truncateDay(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.CheckIn = &d
	if s.c.CheckOut != nil && !s.c.CheckOut.After(d) {
		s.c.CheckOut = nil
	}
}

// SetCheckOut selects the departure date.  It returns false and keeps
// the previous value when d is not strictly after the check-in.
func (s *Store) SetCheckOut(d time.Time) bool {
	d = truncateDay(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c.CheckIn != nil && !d.After(*s.c.CheckIn) {
		return false
	}
	s.c.CheckOut = &d
	return true
}

// ClearDates drops both stay dates.
func (s *Store) ClearDates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.CheckIn = nil
	s.c.CheckOut = nil
}

// SetGuests adds delta to the named counter.  A change that would take
// the counter below its floor is a no-op; the returned value is the
// counter after the call.
func (s *Store) SetGuests(field GuestField, delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch field {
	case Adults:
		s.c.Adults = bump(s.c.Adults, delta, model.MinAdults)
		return s.c.Adults
	case Children:
		s.c.Children = bump(s.c.Children, delta, model.MinChildren)
		return s.c.Children
	case Rooms:
		s.c.Rooms = bump(s.c.Rooms, delta, model.MinRooms)
		return s.c.Rooms
	}
	return 0
}

// Reset restores the session defaults.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = model.NewSearchCriteria()
}

func bump(cur, delta, floor int) int {
	if next := cur + delta; next >= floor {
		return next
	}
	return cur
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
