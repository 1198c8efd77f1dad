package playback

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/player"
)

type fakeItem struct {
	id       media.ID
	kind     media.Kind
	duration time.Duration
	durErr   error
	meta     media.Metadata
	metaErr  error

	// durGate, if set, blocks Duration until closed (ignoring ctx) so the
	// result arrives late.
	durGate   chan struct{}
	durCalled chan struct{}

	metaCalls atomic.Int32
}

func (f *fakeItem) ID() media.ID     { return f.id }
func (f *fakeItem) Kind() media.Kind { return f.kind }
func (f *fakeItem) Source() string   { return "/media/" + string(f.id) + ".mp4" }

func (f *fakeItem) Duration(_ context.Context) (time.Duration, error) {
	if f.durCalled != nil {
		close(f.durCalled)
	}
	if f.durGate != nil {
		<-f.durGate
	}
	return f.duration, f.durErr
}

func (f *fakeItem) Metadata(_ context.Context) (media.Metadata, error) {
	f.metaCalls.Add(1)
	return f.meta, f.metaErr
}

// inlineDispatcher runs posted work on the posting goroutine. Only tests
// whose players call back synchronously on the test goroutine use it.
type inlineDispatcher struct{}

func (inlineDispatcher) Post(fn func()) { fn() }

// queueDispatcher holds posted work until Drain runs it on the test
// goroutine.
type queueDispatcher struct {
	mu    sync.Mutex
	queue []func()
}

func (q *queueDispatcher) Post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = append(q.queue, fn)
}

func (q *queueDispatcher) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

func (q *queueDispatcher) Drain() {
	for {
		q.mu.Lock()
		if len(q.queue) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()
		fn()
	}
}

var alwaysCached = media.CacheFunc(func(media.Item) bool { return true })

// loadedSession creates a session for a video of dur with the given saved
// position and loads a mock player holding the item. Without a dispatcher
// in opts, callbacks run inline.
func loadedSession(dur time.Duration, saved Position, opts Options) (*Session, *player.Mock, *MemoryBinding, error) {
	item := &fakeItem{id: "clip", kind: media.KindVideo, duration: dur}
	return loadedSessionFor(item, saved, opts)
}

func loadedSessionFor(item *fakeItem, saved Position, opts Options) (*Session, *player.Mock, *MemoryBinding, error) {
	if opts.Dispatcher == nil {
		opts.Dispatcher = inlineDispatcher{}
	}
	b := NewMemoryBinding(saved)
	s, err := NewSession(item, b, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	p := player.NewMock()
	p.Load(item.id, item.duration)
	if err := s.Load(p); err != nil {
		return nil, nil, nil, err
	}
	return s, p, b, nil
}

func seekCall(to time.Duration) player.Call { return player.Call{Op: "seek", To: to} }

var (
	playCall  = player.Call{Op: "play"}
	pauseCall = player.Call{Op: "pause"}
)
