// Package search runs room availability searches for one guest session.
//
// Only the most recently started search may publish its outcome: each
// call bumps a generation counter and cancels the request it replaces,
// and a response whose generation is no longer current is dropped.
package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/hospitality-booking/internal/booking"
	"github.com/iliyamo/hospitality-booking/internal/model"
	"github.com/iliyamo/hospitality-booking/internal/normalize"
	"github.com/iliyamo/hospitality-booking/internal/roomapi"
)

// State is the lifecycle state of the orchestrator.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateSuccess   State = "success"
	StateEmpty     State = "empty"
	StateError     State = "error"
)

// Defaults applied by New for zero Options fields.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultFetchSize = 100
)

// Searcher issues the HTTP request; *roomapi.Client implements it.
type Searcher interface {
	SearchRooms(ctx context.Context, q roomapi.Query) ([]byte, error)
}

// Dispatcher turns a selected unit into a booking intent.
type Dispatcher interface {
	Dispatch(unit model.BookableUnit, c model.SearchCriteria) booking.Intent
}

// IntentListener is told about intents the orchestrator dispatched on
// its own.  Implementations must not block.
type IntentListener interface {
	IntentDispatched(ctx context.Context, in booking.Intent, c model.SearchCriteria)
}

// Recorder observes finished searches; metrics.Metrics satisfies it.
type Recorder interface {
	SearchFinished(state string, took time.Duration)
}

type Options struct {
	Timeout   time.Duration
	FetchSize int
	// AutoDispatch books straight away when exactly one unit matches.
	AutoDispatch bool
	Listener     IntentListener
	Recorder     Recorder
	Logger       *slog.Logger
	// OnResult receives the item list every time the current snapshot
	// changes.  It runs with the orchestrator locked, so whatever it
	// loads always matches Snapshot and must not call back into the
	// orchestrator.
	OnResult func(items []model.BookableUnit)
}

// Snapshot is a point-in-time copy of the orchestrator state.
type Snapshot struct {
	State      State                `json:"state"`
	Items      []model.BookableUnit `json:"-"`
	TotalItems int                  `json:"total_items"`
	Shape      string               `json:"-"`
	Err        string               `json:"error,omitempty"`
	Intent     *booking.Intent      `json:"intent,omitempty"`
	Generation uint64               `json:"-"`
	// Superseded is set on the value returned to a caller whose search
	// was replaced before it finished.  That caller's result was dropped.
	Superseded bool `json:"-"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Items != nil {
		out.Items = append([]model.BookableUnit(nil), s.Items...)
	}
	if s.Intent != nil {
		in := *s.Intent
		out.Intent = &in
	}
	return out
}

// ErrTimeout is recorded when the search API does not answer in time.
var ErrTimeout = errors.New("room search timed out")

// BuildQuery maps criteria to API parameters.  Unset criteria are left
// out; minOccupancy is adults plus children when positive.
func BuildQuery(c model.SearchCriteria, size int) roomapi.Query {
	q := roomapi.Query{
		PropertyType: roomapi.PropertyTypeHotel,
		Page:         0,
		Size:         size,
	}
	if c.LocationID != nil {
		v := *c.LocationID
		q.LocationID = &v
	}
	if c.CheckIn != nil {
		v := *c.CheckIn
		q.CheckIn = &v
	}
	if c.CheckOut != nil {
		v := *c.CheckOut
		q.CheckOut = &v
	}
	if occ := c.Occupancy(); occ > 0 {
		q.MinOccupancy = occ
	}
	return q
}

type Orchestrator struct {
	searcher   Searcher
	dispatcher Dispatcher
	opts       Options
	log        *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	snap   Snapshot
}

func New(searcher Searcher, dispatcher Dispatcher, opts Options) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.FetchSize <= 0 {
		opts.FetchSize = DefaultFetchSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Orchestrator{
		searcher:   searcher,
		dispatcher: dispatcher,
		opts:       opts,
		log:        opts.Logger.With("component", "search"),
		snap:       Snapshot{State: StateIdle},
	}
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap.clone()
}

// Search runs one search with c and returns the resulting snapshot.  It
// never returns an error: failures become StateError with Err set.  If a
// newer search or Cancel replaced this one while it ran, the returned
// snapshot is the current state with Superseded set.
func (o *Orchestrator) Search(ctx context.Context, c model.SearchCriteria) Snapshot {
	o.mu.Lock()
	o.gen++
	gen := o.gen
	if o.cancel != nil {
		o.cancel()
	}
	reqCtx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	o.cancel = cancel
	o.setSnapshot(Snapshot{State: StateSearching, Generation: gen})
	o.mu.Unlock()
	defer cancel()

	start := time.Now()
	body, err := o.searcher.SearchRooms(reqCtx, BuildQuery(c, o.opts.FetchSize))
	if err != nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = ErrTimeout
	}
	var res normalize.Result
	if err == nil {
		res = normalize.Normalize(body)
	}
	took := time.Since(start)

	o.mu.Lock()
	if gen != o.gen {
		cur := o.snap.clone()
		o.mu.Unlock()
		o.log.Debug("dropping superseded search result", "generation", gen, "current", cur.Generation)
		cur.Superseded = true
		return cur
	}
	o.cancel = nil
	next := Snapshot{Generation: gen}
	switch {
	case err != nil:
		next.State = StateError
		next.Err = err.Error()
	case len(res.Items) == 0:
		next.State = StateEmpty
	default:
		next.State = StateSuccess
		next.Items = res.Items
		next.TotalItems = res.TotalItems
		next.Shape = res.Shape.String()
	}
	if next.State == StateSuccess && len(res.Items) == 1 && o.opts.AutoDispatch && o.dispatcher != nil {
		in := o.dispatcher.Dispatch(res.Items[0], c)
		in.Auto = true
		next.Intent = &in
	}
	o.setSnapshot(next)
	out := next.clone()
	o.mu.Unlock()

	if err != nil {
		o.log.Warn("room search failed", "err", err, "took", took)
	} else {
		o.log.Info("room search finished", "state", next.State, "items", len(next.Items), "shape", next.Shape, "took", took)
	}
	if o.opts.Recorder != nil {
		o.opts.Recorder.SearchFinished(string(next.State), took)
	}
	if out.Intent != nil && o.opts.Listener != nil {
		o.opts.Listener.IntentDispatched(context.WithoutCancel(ctx), *out.Intent, c)
	}
	return out
}

// Cancel abandons the in-flight search, if any, and returns to idle.  The
// abandoned request can no longer change the state.  It reports whether a
// search was running.
func (o *Orchestrator) Cancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.snap.State != StateSearching {
		return false
	}
	o.gen++
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.setSnapshot(Snapshot{State: StateIdle, Generation: o.gen})
	return true
}

// setSnapshot must be called with o.mu held.
func (o *Orchestrator) setSnapshot(next Snapshot) {
	o.snap = next
	if o.opts.OnResult != nil {
		o.opts.OnResult(next.clone().Items)
	}
}

// Close cancels any in-flight search.  The orchestrator stays usable.
func (o *Orchestrator) Close() {
	o.Cancel()
}
