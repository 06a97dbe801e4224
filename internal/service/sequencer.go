package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Sequencer hands out strictly increasing generation tokens. Tokens are
// derived from the wall clock so they keep increasing across restarts.
type Sequencer struct {
	last atomic.Int64
	now  func() time.Time
}

// NewSequencer returns a Sequencer reading time.Now.
func NewSequencer() *Sequencer {
	return &Sequencer{now: time.Now}
}

// Next returns a token greater than every token returned before.
func (s *Sequencer) Next() int64 {
	for {
		prev := s.last.Load()
		next := s.now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if s.last.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// inFlight tracks users with an outstanding generation.
type inFlight struct {
	mu    sync.Mutex
	users map[uuid.UUID]struct{}
}

func newInFlight() *inFlight {
	return &inFlight{users: make(map[uuid.UUID]struct{})}
}

// acquire marks userID busy. It returns false when the user already is.
func (f *inFlight) acquire(userID uuid.UUID) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.users[userID]; busy {
		return nil, false
	}
	f.users[userID] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.users, userID)
		f.mu.Unlock()
	}, true
}
