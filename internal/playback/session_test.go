package playback

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/player"
)

func TestNewSession_RejectsUntimedKinds(t *testing.T) {
	for _, kind := range []media.Kind{media.KindImage, media.KindAnimatedImage} {
		_, err := NewSession(&fakeItem{id: "x", kind: kind}, nil, Options{Dispatcher: inlineDispatcher{}})
		assert.ErrorIs(t, err, ErrUnsupportedKind)
	}
}

func TestNewSession_RequiresDispatcher(t *testing.T) {
	_, err := NewSession(&fakeItem{id: "x", kind: media.KindAudio}, nil, Options{})
	assert.ErrorIs(t, err, ErrNoDispatcher)
}

func TestSession_LifecycleErrors(t *testing.T) {
	s, err := NewSession(&fakeItem{id: "x", kind: media.KindAudio}, nil, Options{Dispatcher: &queueDispatcher{}})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Activate(true), ErrNoPlayer)
	assert.ErrorIs(t, s.Seek(time.Second), ErrNoPlayer)
	assert.ErrorIs(t, s.Load(nil), ErrNoPlayer)
	assert.NoError(t, s.Deactivate())

	require.NoError(t, s.Load(player.NewMock()))
	assert.ErrorIs(t, s.Load(player.NewMock()), ErrAlreadyLoaded)

	s.Teardown()
	assert.ErrorIs(t, s.Activate(true), ErrTornDown)
	assert.ErrorIs(t, s.Load(player.NewMock()), ErrTornDown)
	assert.ErrorIs(t, s.Deactivate(), ErrTornDown)
	_, err = s.ManualPlayToggle()
	assert.ErrorIs(t, err, ErrTornDown)
}

func TestSession_LongFormResumesFromSavedPosition(t *testing.T) {
	s, p, _, err := loadedSession(600*time.Second, Position{Elapsed: 300 * time.Second}, Options{})
	require.NoError(t, err)

	require.NoError(t, s.Activate(true))

	assert.Equal(t, []player.Call{seekCall(300 * time.Second), playCall}, p.Calls())
	assert.NotContains(t, p.SeekCalls(), time.Duration(0))
	assert.Equal(t, Resume, s.Decision())
	assert.Equal(t, StateActive, s.State())
}

func TestSession_ShortFormRestartsFromZero(t *testing.T) {
	s, p, b, err := loadedSession(30*time.Second, Position{Elapsed: 15 * time.Second}, Options{})
	require.NoError(t, err)

	require.NoError(t, s.Activate(true))

	assert.Equal(t, []player.Call{seekCall(0), playCall}, p.Calls())
	assert.Equal(t, Position{}, b.Load())
	assert.False(t, s.ReachedEnd())
}

func TestSession_PlayWaitsForPendingSeek(t *testing.T) {
	item := &fakeItem{id: "clip", kind: media.KindVideo, duration: 30 * time.Second}
	s, err := NewSession(item, NewMemoryBinding(Position{Elapsed: 15 * time.Second}), Options{Dispatcher: inlineDispatcher{}})
	require.NoError(t, err)
	p := player.NewMock()
	p.Load(item.id, item.duration)
	p.SetManualSeeks(true)
	require.NoError(t, s.Load(p))

	require.NoError(t, s.Activate(true))
	assert.Equal(t, []player.Call{seekCall(0)}, p.Calls(), "play must not race the seek")
	assert.True(t, s.Playing())

	require.True(t, p.CompleteSeek(true))
	assert.Equal(t, []player.Call{seekCall(0), playCall}, p.Calls())
	s.Teardown()
}

func TestSession_LoopRestartAlwaysRestarts(t *testing.T) {
	s, p, b, err := loadedSession(600*time.Second, Position{Elapsed: 300 * time.Second}, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Activate(true))
	p.SimulateEnd()
	require.True(t, s.ReachedEnd())
	p.ResetCalls()

	assert.True(t, s.NotifyLoopRestart())

	assert.Equal(t, []player.Call{seekCall(0), playCall}, p.Calls())
	assert.False(t, s.ReachedEnd())
	assert.Equal(t, Position{}, b.Load())
}

func TestSession_LoopRestartIgnoredWhenNotAutoplaying(t *testing.T) {
	s, p, _, err := loadedSession(600*time.Second, Position{Elapsed: 300 * time.Second}, Options{})
	require.NoError(t, err)

	assert.False(t, s.NotifyLoopRestart(), "loaded, not active")

	require.NoError(t, s.Activate(false))
	p.ResetCalls()
	assert.False(t, s.NotifyLoopRestart(), "active without autoplay")
	assert.Empty(t, p.Calls())
}

func TestSession_ActivateTwiceKeepsOneObserverEach(t *testing.T) {
	s, p, _, err := loadedSession(time.Minute, Position{}, Options{})
	require.NoError(t, err)

	require.NoError(t, s.Activate(false))
	require.NoError(t, s.Activate(true))
	require.NoError(t, s.Activate(true))

	periodic, end := p.ObserverCounts()
	assert.Equal(t, 1, periodic)
	assert.Equal(t, 1, end)
}

func TestSession_DeactivateKeepsPosition(t *testing.T) {
	s, p, b, err := loadedSession(time.Hour, Position{}, Options{})
	require.NoError(t, err)
	sub := s.Subscribe()
	require.NoError(t, s.Activate(true))

	p.SimulateTick(20 * time.Second)
	tick := <-sub.Ticks
	assert.Equal(t, 20*time.Second, tick.Position)
	assert.Equal(t, time.Hour, tick.Duration)
	assert.True(t, tick.Playing)
	assert.Equal(t, 20*time.Second, b.Load().Elapsed)

	p.ResetCalls()
	require.NoError(t, s.Deactivate())

	assert.Equal(t, StateSuspended, s.State())
	assert.Equal(t, []player.Call{pauseCall}, p.Calls())
	assert.Equal(t, 20*time.Second, b.Load().Elapsed)
	periodic, end := p.ObserverCounts()
	assert.Zero(t, periodic)
	assert.Zero(t, end)

	// Long-form resumes where it left off without seeking.
	p.ResetCalls()
	require.NoError(t, s.Activate(true))
	assert.Equal(t, []player.Call{playCall}, p.Calls())
}

func TestSession_ReactivatingFinishedItemRestarts(t *testing.T) {
	s, p, b, err := loadedSession(time.Hour, Position{}, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Activate(true))

	p.SimulateEnd()
	require.True(t, s.ReachedEnd())
	assert.True(t, b.Load().ReachedEnd)

	require.NoError(t, s.Deactivate())
	p.ResetCalls()
	require.NoError(t, s.Activate(true))

	assert.Equal(t, []player.Call{seekCall(0), playCall}, p.Calls())
	assert.False(t, s.ReachedEnd())
}

func TestSession_ReachedEndSurvivesRecreation(t *testing.T) {
	item := &fakeItem{id: "clip", kind: media.KindVideo, duration: time.Hour}
	s, p, b, err := loadedSessionFor(item, Position{}, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Activate(true))
	p.SimulateEnd()
	s.Teardown()

	next, err := NewSession(item, b, Options{Dispatcher: inlineDispatcher{}})
	require.NoError(t, err)
	p2 := player.NewMock()
	p2.Load(item.id, item.duration)
	require.NoError(t, next.Load(p2))
	require.NoError(t, next.Activate(true))

	assert.Equal(t, []player.Call{seekCall(0), playCall}, p2.Calls())
}

func TestSession_EndIgnoredWhenSuspended(t *testing.T) {
	q := &queueDispatcher{}
	s, p, _, err := loadedSession(time.Minute, Position{}, Options{Dispatcher: q})
	require.NoError(t, err)
	q.Drain()
	require.NoError(t, s.Activate(true))
	q.Drain()

	p.SimulateEnd()
	require.NoError(t, s.Deactivate())
	q.Drain()

	assert.False(t, s.ReachedEnd())
}

func TestSession_ManualSeekClearsReachedEnd(t *testing.T) {
	s, p, b, err := loadedSession(time.Minute, Position{}, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Activate(true))
	p.SimulateEnd()
	require.True(t, s.ReachedEnd())

	require.NoError(t, s.Seek(5*time.Second))

	assert.False(t, s.ReachedEnd())
	assert.Equal(t, Position{Elapsed: 5 * time.Second}, b.Load())
	assert.Equal(t, 5*time.Second, p.Position())
}

func TestSession_SeekClampsToDuration(t *testing.T) {
	s, p, _, err := loadedSession(time.Minute, Position{}, Options{})
	require.NoError(t, err)

	require.NoError(t, s.Seek(2*time.Minute))
	require.NoError(t, s.Seek(-time.Second))

	assert.Equal(t, []time.Duration{time.Minute, 0}, p.SeekCalls())
}

func TestSession_ManualPlayToggle(t *testing.T) {
	s, p, _, err := loadedSession(time.Minute, Position{}, Options{})
	require.NoError(t, err)
	sub := s.Subscribe()

	res, err := s.ManualPlayToggle()
	require.NoError(t, err)
	assert.Equal(t, TogglePlayed, res)
	assert.True(t, res.ManuallyStarted())
	assert.Equal(t, StateActive, s.State(), "manual play activates a loaded session")
	assert.Equal(t, player.Playing, p.State())
	mp := <-sub.ManualPlay
	assert.False(t, mp.Restarted)

	res, err = s.ManualPlayToggle()
	require.NoError(t, err)
	assert.Equal(t, TogglePaused, res)
	assert.Equal(t, player.Paused, p.State())
}

func TestSession_ManualPlayNearEndRestarts(t *testing.T) {
	s, p, _, err := loadedSession(time.Hour, Position{}, Options{})
	require.NoError(t, err)
	sub := s.Subscribe()
	require.NoError(t, s.Activate(false))

	p.SetPosition(time.Hour - 500*time.Millisecond)
	p.ResetCalls()

	res, err := s.ManualPlayToggle()
	require.NoError(t, err)

	assert.Equal(t, ToggleRestarted, res)
	assert.Equal(t, []player.Call{seekCall(0), playCall}, p.Calls())
	mp := <-sub.ManualPlay
	assert.True(t, mp.Restarted)
}

func TestSession_ManualPlayOutsideWindowResumes(t *testing.T) {
	s, p, _, err := loadedSession(time.Hour, Position{}, Options{ManualRestartWindow: time.Second})
	require.NoError(t, err)
	require.NoError(t, s.Activate(false))

	p.SetPosition(time.Hour - 2*time.Second)
	p.ResetCalls()

	res, err := s.ManualPlayToggle()
	require.NoError(t, err)
	assert.Equal(t, TogglePlayed, res)
	assert.Equal(t, []player.Call{playCall}, p.Calls())
}

func TestSession_FailedSeekDoesNotBlockPlay(t *testing.T) {
	s, p, _, err := loadedSession(time.Minute, Position{}, Options{})
	require.NoError(t, err)
	sub := s.Subscribe()
	require.NoError(t, s.Activate(true))
	p.SetManualSeeks(true)
	p.ResetCalls()

	require.True(t, s.NotifyLoopRestart())
	require.True(t, p.CompleteSeek(false))

	assert.Equal(t, []player.Call{seekCall(0), playCall}, p.Calls())
	ev := <-sub.Error
	assert.Equal(t, "seek", ev.Operation)
	assert.ErrorIs(t, ev.Err, ErrSeekFailed)
	assert.Equal(t, StateActive, s.State())
}

func TestSession_SeekTimeoutReleasesPendingPlay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := &queueDispatcher{}
		s, p, _, err := loadedSession(time.Minute, Position{}, Options{Dispatcher: q, SeekTimeout: time.Second})
		require.NoError(t, err)
		require.NoError(t, s.Activate(true))
		q.Drain()
		p.SetManualSeeks(true)
		p.ResetCalls()

		require.True(t, s.NotifyLoopRestart())
		q.Drain()
		assert.Equal(t, 0, p.CountCalls("play"))

		time.Sleep(time.Second + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 0, p.CountCalls("play"), "timeout runs on the dispatcher")
		q.Drain()

		assert.Equal(t, 1, p.CountCalls("play"))

		// The late completion is ignored.
		require.True(t, p.CompleteSeek(true))
		q.Drain()
		assert.Equal(t, 1, p.CountCalls("play"))
		s.Teardown()
	})
}

func TestSession_DeactivateCancelsPendingPlay(t *testing.T) {
	s, p, _, err := loadedSession(time.Minute, Position{}, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Activate(true))
	p.SetManualSeeks(true)
	require.True(t, s.NotifyLoopRestart())

	require.NoError(t, s.Deactivate())
	p.ResetCalls()
	require.True(t, p.CompleteSeek(true))

	assert.Zero(t, p.CountCalls("play"))
	s.Teardown()
}

func TestSession_Teardown(t *testing.T) {
	s, p, b, err := loadedSession(time.Hour, Position{}, Options{})
	require.NoError(t, err)
	sub := s.Subscribe()
	require.NoError(t, s.Activate(true))
	p.SimulateTick(42 * time.Second)

	s.Teardown()
	s.Teardown()

	assert.Equal(t, StateTornDown, s.State())
	assert.Nil(t, s.Player())
	assert.Equal(t, player.Paused, p.State())
	assert.Equal(t, 42*time.Second, b.Load().Elapsed)
	periodic, end := p.ObserverCounts()
	assert.Zero(t, periodic)
	assert.Zero(t, end)
	<-sub.Done

	late := s.Subscribe()
	<-late.Done
}

func TestSession_LateDurationAfterTeardownIsDiscarded(t *testing.T) {
	q := &queueDispatcher{}
	item := &fakeItem{
		id:        "clip",
		kind:      media.KindVideo,
		duration:  90 * time.Second,
		durGate:   make(chan struct{}),
		durCalled: make(chan struct{}),
	}
	s, err := NewSession(item, nil, Options{Dispatcher: q})
	require.NoError(t, err)
	p := player.NewMock()
	p.Load(item.id, 0)
	require.NoError(t, s.Load(p))
	<-item.durCalled

	s.Teardown()
	close(item.durGate)
	require.Eventually(t, func() bool { return q.Len() > 0 }, time.Second, time.Millisecond)
	q.Drain()

	assert.Zero(t, s.Duration())
	assert.Equal(t, StateTornDown, s.State())
}

func TestSession_LoadsDurationWhenPlayerHasNone(t *testing.T) {
	q := &queueDispatcher{}
	item := &fakeItem{id: "clip", kind: media.KindVideo, duration: 90 * time.Second}
	s, err := NewSession(item, nil, Options{Dispatcher: q})
	require.NoError(t, err)
	p := player.NewMock()
	p.Load(item.id, 0)
	require.NoError(t, s.Load(p))

	require.Eventually(t, func() bool { return q.Len() > 0 }, time.Second, time.Millisecond)
	q.Drain()

	assert.Equal(t, 90*time.Second, s.Duration())
}

func TestSession_DurationErrorIsReported(t *testing.T) {
	q := &queueDispatcher{}
	boom := errors.New("decode failed")
	item := &fakeItem{id: "clip", kind: media.KindAudio, durErr: boom}
	s, err := NewSession(item, nil, Options{Dispatcher: q})
	require.NoError(t, err)
	sub := s.Subscribe()
	p := player.NewMock()
	p.Load(item.id, 0)
	require.NoError(t, s.Load(p))

	require.Eventually(t, func() bool { return q.Len() > 0 }, time.Second, time.Millisecond)
	q.Drain()

	assert.Zero(t, s.Duration())
	ev := <-sub.Error
	assert.Equal(t, "duration", ev.Operation)
	assert.ErrorIs(t, ev.Err, boom)
}

func TestSession_StateChangesArePublished(t *testing.T) {
	item := &fakeItem{id: "clip", kind: media.KindVideo, duration: time.Minute}
	s, err := NewSession(item, nil, Options{Dispatcher: inlineDispatcher{}})
	require.NoError(t, err)
	sub := s.Subscribe()

	p := player.NewMock()
	p.Load(item.id, item.duration)
	require.NoError(t, s.Load(p))
	require.NoError(t, s.Activate(false))
	require.NoError(t, s.Deactivate())
	s.Teardown()

	want := []StateChange{
		{StateIdle, StateLoaded},
		{StateLoaded, StateActive},
		{StateActive, StateSuspended},
		{StateSuspended, StateTornDown},
	}
	for _, w := range want {
		assert.Equal(t, w, <-sub.StateChanged)
	}
}
