package app

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/gallery/internal/mpris"
	"github.com/llehouerou/gallery/internal/playback"
)

// link connects goroutines outside the program to its Update loop.
//
// As a playback.Dispatcher it queues callbacks and wakes Update with a
// dispatchMsg; Update then runs them in posting order, so sessions are
// only ever touched on the UI goroutine. As an mpris.Navigator it turns
// next/previous requests into navigateMsg.
type link struct {
	mu       sync.Mutex
	send     func(tea.Msg)
	queue    []func()
	signaled bool

	index atomic.Int64
	count atomic.Int64
}

var (
	_ playback.Dispatcher = (*link)(nil)
	_ mpris.Navigator     = (*link)(nil)
)

func newLink() *link {
	return &link{}
}

// attach sets the program sender and wakes Update for anything queued
// before the program existed.
func (l *link) attach(send func(tea.Msg)) {
	l.mu.Lock()
	l.send = send
	wake := len(l.queue) > 0 && !l.signaled
	if wake {
		l.signaled = true
	}
	l.mu.Unlock()
	if wake && send != nil {
		go send(dispatchMsg{})
	}
}

func (l *link) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	if l.signaled || l.send == nil {
		l.mu.Unlock()
		return
	}
	l.signaled = true
	send := l.send
	l.mu.Unlock()

	// Send blocks until Update reads it, and Post may run on the UI
	// goroutine itself.
	go send(dispatchMsg{})
}

// drain runs the queued callbacks. Must be called from Update.
func (l *link) drain() {
	l.mu.Lock()
	q := l.queue
	l.queue = nil
	l.signaled = false
	l.mu.Unlock()

	for _, fn := range q {
		fn()
	}
}

func (l *link) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *link) setPosition(index, count int) {
	l.index.Store(int64(index))
	l.count.Store(int64(count))
}

func (l *link) Next() error {
	return l.navigate(1)
}

func (l *link) Previous() error {
	return l.navigate(-1)
}

func (l *link) HasNext() bool {
	return l.index.Load() < l.count.Load()-1
}

func (l *link) HasPrevious() bool {
	return l.index.Load() > 0 && l.count.Load() > 0
}

func (l *link) navigate(delta int) error {
	l.mu.Lock()
	send := l.send
	l.mu.Unlock()
	if send == nil {
		return errNotRunning
	}
	go send(navigateMsg{Delta: delta})
	return nil
}
