package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hospitality-booking/internal/booking"
	"github.com/iliyamo/hospitality-booking/internal/criteria"
	"github.com/iliyamo/hospitality-booking/internal/model"
	"github.com/iliyamo/hospitality-booking/internal/pagination"
	"github.com/iliyamo/hospitality-booking/internal/search"
)

// DefaultIdleTTL ends sessions nobody touched for this long.
const DefaultIdleTTL = 30 * time.Minute

var ErrNotFound = errors.New("session not found")

// Listener receives every booking intent taken in any session, whether
// the guest picked the room or a single-result search picked it.
type Listener interface {
	IntentTaken(ctx context.Context, sessionID string, in booking.Intent, c model.SearchCriteria)
}

type boundListener struct {
	sessionID string
	next      Listener
}

func (b boundListener) IntentDispatched(ctx context.Context, in booking.Intent, c model.SearchCriteria) {
	b.next.IntentTaken(ctx, b.sessionID, in, c)
}

// Config holds what every new session is built from.
type Config struct {
	Searcher        search.Searcher
	Dispatcher      search.Dispatcher
	Listener        Listener
	Search          search.Options
	RequireLocation bool
	PageSize        int
	IdleTTL         time.Duration
	Clock           func() time.Time
	Logger          *slog.Logger
}

type Manager struct {
	cfg Config
	log *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(cfg Config) *Manager {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = pagination.PageSize
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{
		cfg:      cfg,
		log:      cfg.Logger.With("component", "session"),
		sessions: make(map[string]*Session),
	}
}

// Create starts a session with default criteria.
func (m *Manager) Create() *Session {
	now := m.cfg.Clock()
	id := uuid.NewString()
	log := m.log.With("session", id)

	var listener search.IntentListener
	if m.cfg.Listener != nil {
		listener = boundListener{sessionID: id, next: m.cfg.Listener}
	}
	pager := pagination.NewPager(m.cfg.PageSize)
	opts := m.cfg.Search
	opts.Listener = listener
	opts.Logger = log
	opts.OnResult = pager.SetItems
	s := &Session{
		ID:         id,
		CreatedAt:  now,
		Criteria:   criteria.NewStore(m.cfg.RequireLocation),
		search:     search.New(m.cfg.Searcher, m.cfg.Dispatcher, opts),
		pager:      pager,
		dispatcher: m.cfg.Dispatcher,
		listener:   listener,
		log:        log,
		lastSeen:   now,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	log.Info("session started")
	return s
}

// Get returns the live session for id and marks it as used.  A session
// idle for longer than the TTL is ended here and reported as not found.
func (m *Manager) Get(id string) (*Session, error) {
	now := m.cfg.Clock()
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok && s.idleSince(now) > m.cfg.IdleTTL {
		delete(m.sessions, id)
		m.mu.Unlock()
		s.close()
		m.log.Info("session expired", "session", id)
		return nil, ErrNotFound
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(now)
	return s, nil
}

// End removes the session and cancels its in-flight search.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.close()
	m.log.Info("session ended", "session", id)
	return nil
}

// Sweep ends every idle session and returns how many it removed.
func (m *Manager) Sweep() int {
	now := m.cfg.Clock()
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idleSince(now) > m.cfg.IdleTTL {
			delete(m.sessions, id)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()
	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		m.log.Info("swept idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is done.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}

// Len reports the number of tracked sessions, expired or not.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close ends all sessions.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
