package pending

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Action is the attendance operation a user asked for by text.
type Action string

const (
	ActionClockIn  Action = "clock in"
	ActionClockOut Action = "clock out"
)

// StaffSnapshot freezes the roster fields at command time so that the
// location step works against what the user was when they asked.
type StaffSnapshot struct {
	Name           string
	Department     string
	AllowedOffices []string
}

// AllowsOffice reports whether the snapshot permits the given office. An
// empty allow-list permits nothing.
func (s StaffSnapshot) AllowsOffice(officeID string) bool {
	for _, id := range s.AllowedOffices {
		if id == officeID {
			return true
		}
	}
	return false
}

// Request is the awaiting-location half of the two-message conversation.
type Request struct {
	Phone     string
	Action    Action
	Staff     StaffSnapshot
	CreatedAt time.Time
	// Zero when no expiry window is configured.
	ExpiresAt time.Time
}

// Expired reports whether the request's window has passed. Requests without
// a window never expire.
func (r Request) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// Store holds at most one in-flight request per phone number. A new Put for
// the same phone overwrites unconditionally (last command wins).
type Store struct {
	mu       sync.RWMutex
	requests map[string]Request

	ttl time.Duration
	now func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewStore builds a store. ttl zero disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		requests: make(map[string]Request),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (s *Store) Put(phone string, action Action, staff StaffSnapshot) {
	now := s.now()
	req := Request{
		Phone:     phone,
		Action:    action,
		Staff:     staff,
		CreatedAt: now,
	}
	if s.ttl > 0 {
		req.ExpiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.requests[phone] = req
	s.mu.Unlock()
}

// Get returns the stored request even when expired; the caller decides how
// to answer an expired one.
func (s *Store) Get(phone string) (Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[phone]
	return req, ok
}

// Remove is idempotent.
func (s *Store) Remove(phone string) {
	s.mu.Lock()
	delete(s.requests, phone)
	s.mu.Unlock()
}

// Len is used by tests and the sweeper log line.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}

// StartSweeper evicts expired requests on an interval so abandoned
// conversations do not accumulate. Expiry is still checked lazily on read;
// the sweep only reclaims memory.
func (s *Store) StartSweeper(interval time.Duration, logger *zap.Logger) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}

	log := logger.Named("pending.sweeper")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if evicted := s.sweep(); evicted > 0 {
					log.Debug("evicted expired pending requests",
						zap.Int("evicted", evicted),
						zap.Int("remaining", s.Len()),
					)
				}
			}
		}
	}()
}

// Stop terminates the sweeper. Safe to call more than once.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for phone, req := range s.requests {
		if req.Expired(now) {
			delete(s.requests, phone)
			evicted++
		}
	}
	return evicted
}
