package player

import (
	"sync"
	"time"

	"github.com/llehouerou/gallery/internal/media"
)

type periodicObserver struct {
	interval time.Duration
	fn       func(time.Duration)
	stop     chan struct{} // closed on removal; nil when no goroutine is attached
}

// observerSet is the token bookkeeping shared by transports.
type observerSet struct {
	mu       sync.Mutex
	next     Token
	periodic map[Token]*periodicObserver
	end      map[Token]func(media.ID)
}

func newObserverSet() *observerSet {
	return &observerSet{
		periodic: make(map[Token]*periodicObserver),
		end:      make(map[Token]func(media.ID)),
	}
}

func (s *observerSet) addPeriodic(o *periodicObserver) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.periodic[s.next] = o
	return s.next
}

func (s *observerSet) addEnd(fn func(media.ID)) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.end[s.next] = fn
	return s.next
}

// remove drops the observer; unknown tokens are ignored.
func (s *observerSet) remove(token Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.periodic[token]; ok {
		if o.stop != nil {
			close(o.stop)
		}
		delete(s.periodic, token)
	}
	delete(s.end, token)
}

func (s *observerSet) removeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, o := range s.periodic {
		if o.stop != nil {
			close(o.stop)
		}
		delete(s.periodic, token)
	}
	clear(s.end)
}

func (s *observerSet) periodicFuncs() []func(time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fns := make([]func(time.Duration), 0, len(s.periodic))
	for _, o := range s.periodic {
		fns = append(fns, o.fn)
	}
	return fns
}

func (s *observerSet) endFuncs() []func(media.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fns := make([]func(media.ID), 0, len(s.end))
	for _, fn := range s.end {
		fns = append(fns, fn)
	}
	return fns
}

func (s *observerSet) counts() (periodic, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.periodic), len(s.end)
}
