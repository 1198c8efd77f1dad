// internal/player/mock.go
package player

import (
	"sync"
	"time"

	"github.com/llehouerou/gallery/internal/media"
)

// Call records one transport command issued to a Mock.
type Call struct {
	Op string // "play", "pause", "seek"
	To time.Duration
}

type pendingSeek struct {
	to   time.Duration
	done func(bool)
}

// Mock is a counting test double for a transport.
//
// Seeks complete synchronously unless SetManualSeeks(true) is called, in
// which case they wait for CompleteSeek.
type Mock struct {
	mu          sync.Mutex
	state       State
	position    time.Duration
	duration    time.Duration
	rate        float64
	volume      float64
	muted       bool
	item        media.ID
	calls       []Call
	manualSeeks bool
	pending     []pendingSeek
	observers   *observerSet
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		state:     Stopped,
		rate:      1,
		volume:    1,
		observers: newObserverSet(),
	}
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "play"})
	m.state = m.state.Next(OnPlay)
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "pause"})
	m.state = m.state.Next(OnPause)
}

func (m *Mock) Seek(to time.Duration, done func(ok bool)) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Op: "seek", To: to})
	if m.manualSeeks {
		m.pending = append(m.pending, pendingSeek{to: to, done: done})
		m.mu.Unlock()
		return
	}
	m.position = to
	m.mu.Unlock()

	if done != nil {
		done(true)
	}
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *Mock) SetRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = rate
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

func (m *Mock) CurrentItem() media.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.item
}

func (m *Mock) AddPeriodicObserver(interval time.Duration, fn func(pos time.Duration)) Token {
	return m.observers.addPeriodic(&periodicObserver{interval: interval, fn: fn})
}

func (m *Mock) AddEndObserver(fn func(item media.ID)) Token {
	return m.observers.addEnd(fn)
}

func (m *Mock) RemoveObserver(token Token) {
	m.observers.remove(token)
}

// Test helpers

// Load sets the current item and its duration, leaving the mock paused at 0.
func (m *Mock) Load(item media.ID, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.item = item
	m.duration = duration
	m.position = 0
	m.state = m.state.Next(OnLoad)
}

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetCurrentItem(item media.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.item = item
}

// SetManualSeeks makes seeks wait for CompleteSeek.
func (m *Mock) SetManualSeeks(manual bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manualSeeks = manual
}

// CompleteSeek completes the oldest pending seek. Returns false if none is pending.
func (m *Mock) CompleteSeek(ok bool) bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	s := m.pending[0]
	m.pending = m.pending[1:]
	if ok {
		m.position = s.to
	}
	m.mu.Unlock()

	if s.done != nil {
		s.done(ok)
	}
	return true
}

// PendingSeeks returns the number of seeks waiting for completion.
func (m *Mock) PendingSeeks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Calls returns the transport commands in issue order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// SeekCalls returns the targets of all seeks in issue order.
func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var seeks []time.Duration
	for _, c := range m.calls {
		if c.Op == "seek" {
			seeks = append(seeks, c.To)
		}
	}
	return seeks
}

// CountCalls returns how many times op was issued.
func (m *Mock) CountCalls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (m *Mock) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// ObserverCounts returns the number of live periodic and end observers.
func (m *Mock) ObserverCounts() (periodic, end int) {
	return m.observers.counts()
}

// SimulateTick moves the position and fires all periodic observers.
func (m *Mock) SimulateTick(pos time.Duration) {
	m.SetPosition(pos)
	for _, fn := range m.observers.periodicFuncs() {
		fn(pos)
	}
}

// SimulateEnd moves the position to the end and fires all end observers
// for the current item.
func (m *Mock) SimulateEnd() {
	m.mu.Lock()
	m.position = m.duration
	m.state = m.state.Next(OnEnd)
	item := m.item
	m.mu.Unlock()
	m.SimulateEndFor(item)
}

// SimulateEndFor fires all end observers with the given item, without
// touching the transport state.
func (m *Mock) SimulateEndFor(item media.ID) {
	for _, fn := range m.observers.endFuncs() {
		fn(item)
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
