// Package session keeps per-guest search state.  Each guest session
// owns its own criteria, search orchestrator and result pager; nothing
// is shared between sessions.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/hospitality-booking/internal/booking"
	"github.com/iliyamo/hospitality-booking/internal/criteria"
	"github.com/iliyamo/hospitality-booking/internal/model"
	"github.com/iliyamo/hospitality-booking/internal/pagination"
	"github.com/iliyamo/hospitality-booking/internal/search"
)

var (
	ErrLocationRequired = errors.New("select a location before searching")
	ErrUnitNotFound     = errors.New("room is not in the current results")
)

// Session is one guest's browsing state.
type Session struct {
	ID        string
	CreatedAt time.Time
	Criteria  *criteria.Store

	search     *search.Orchestrator
	pager      *pagination.Pager
	dispatcher search.Dispatcher
	listener   search.IntentListener
	log        *slog.Logger

	mu       sync.Mutex
	lastSeen time.Time
}

// Search runs a search with the current criteria.  The pager is loaded
// by the orchestrator whenever its snapshot changes, so it always holds
// the items of the latest search and starts again from page one.
func (s *Session) Search(ctx context.Context) (search.Snapshot, error) {
	if !s.Criteria.CanSearch() {
		return search.Snapshot{}, ErrLocationRequired
	}
	return s.search.Search(ctx, s.Criteria.Snapshot()), nil
}

// Results returns the current search state together with page n of its
// results.  n is clamped to the available pages; n <= 0 keeps the
// current page.
func (s *Session) Results(n int) (search.Snapshot, model.SearchResultPage) {
	if n > 0 {
		s.pager.SetPage(n)
	}
	return s.search.Snapshot(), s.pager.Page()
}

// CancelSearch abandons an in-flight search and empties the pager.
func (s *Session) CancelSearch() bool {
	return s.search.Cancel()
}

// Book dispatches the guest to the booking target for unitID, which
// must be among the current results.
func (s *Session) Book(ctx context.Context, unitID string) (booking.Intent, error) {
	unit, ok := s.pager.Find(unitID)
	if !ok {
		return booking.Intent{}, ErrUnitNotFound
	}
	c := s.Criteria.Snapshot()
	in := s.dispatcher.Dispatch(unit, c)
	s.log.Info("booking intent", "unit", unitID, "kind", in.Kind)
	if s.listener != nil {
		s.listener.IntentDispatched(ctx, in, c)
	}
	return in, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() {
	s.search.Close()
}
