// Package playback implements the lifecycle of timed media playback: the
// resume policy, observer management and the per-item session state
// machine that the view layer drives.
//
// All session state is owned by one goroutine. Player callbacks, seek
// completions, asynchronous loads and remote commands are funneled onto it
// through a Dispatcher.
package playback

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/llehouerou/gallery/internal/bridge"
	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/metrics"
	"github.com/llehouerou/gallery/internal/player"
)

var (
	// ErrTornDown is returned by lifecycle calls on a torn-down session.
	ErrTornDown = errors.New("session torn down")
	// ErrNoPlayer is returned when an operation needs a loaded player.
	ErrNoPlayer = errors.New("no player loaded")
	// ErrAlreadyLoaded is returned by Load on a session that has a player.
	ErrAlreadyLoaded = errors.New("player already loaded")
	// ErrUnsupportedKind is returned for items without a timeline.
	ErrUnsupportedKind = errors.New("media kind has no playback")
	// ErrSeekTimeout is reported when a seek does not complete in time.
	ErrSeekTimeout = errors.New("seek timed out")
	// ErrSeekFailed is reported when the transport rejects a seek.
	ErrSeekFailed = errors.New("seek failed")
)

// Session defaults.
const (
	DefaultManualRestartWindow = time.Second
	DefaultSeekTimeout         = 2 * time.Second
)

// ExternalPlayback is the bridge surface a session drives.
// *bridge.Bridge implements it.
type ExternalPlayback interface {
	Register(p player.Interface, id media.ID, kind media.Kind, target bridge.Target)
	Unregister(p player.Interface, id media.ID) bool
	ReleaseTarget(p player.Interface, target bridge.Target)
	UpdatePosition(p player.Interface, pos, dur time.Duration, playing bool) bool
	InitNowPlaying(p player.Interface, id media.ID, meta media.Metadata) bool
	IsCurrent(kind media.Kind, p player.Interface) bool
}

var _ ExternalPlayback = (*bridge.Bridge)(nil)

// Options configures a Session.
type Options struct {
	// Dispatcher is required.
	Dispatcher Dispatcher
	Policy     Policy

	TickInterval      time.Duration
	VideoEndTolerance time.Duration
	// ManualRestartWindow: a manual play this close to the end restarts.
	ManualRestartWindow time.Duration
	// SeekTimeout bounds how long a pending play waits for its seek.
	SeekTimeout time.Duration

	// External and Cache together decide background eligibility: a session
	// registers with External only if Cache reports its item as local.
	External ExternalPlayback
	Cache    media.CacheChecker
	// Shared marks the player as the process-wide background player.
	// Teardown then leaves it playing and registered.
	Shared bool

	Logger *zerolog.Logger
}

// Session owns one player for one media item within one view's lifetime.
//
// Session is not safe for concurrent use: all methods except HandleRemote
// and the Remote* helpers must be called on the dispatcher's goroutine.
type Session struct {
	item      media.Item
	id        media.ID
	kind      media.Kind
	binding   Binding
	opts      Options
	disp      Dispatcher
	observers *Registry
	external  ExternalPlayback // nil unless eligible
	log       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	state           State
	player          player.Interface
	reachedEnd      bool
	autoplay        bool
	decision        Decision
	duration        time.Duration // from the item, while the player has none
	activation      uint64
	registered      bool
	nowPlayingReady bool

	seekSeq     uint64
	seekPending bool
	seekTarget  time.Duration
	seekTimer   *time.Timer
	afterSeek   func()

	subsMu sync.RWMutex
	subs   []*Subscription
}

// NewSession creates an idle session for item. binding may be nil, in
// which case the position only lives as long as the session.
func NewSession(item media.Item, binding Binding, opts Options) (*Session, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: nil item", media.ErrNotPlayable)
	}
	if !item.Kind().IsTimed() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, item.Kind())
	}
	if binding == nil {
		binding = NewMemoryBinding(Position{})
	}
	if opts.Dispatcher == nil {
		return nil, ErrNoDispatcher
	}
	if opts.ManualRestartWindow <= 0 {
		opts.ManualRestartWindow = DefaultManualRestartWindow
	}
	if opts.SeekTimeout <= 0 {
		opts.SeekTimeout = DefaultSeekTimeout
	}

	id := item.ID()
	kind := item.Kind()
	l := log.Derive(func(c *zerolog.Context) {
		*c = c.Str(log.FieldComponent, "session").
			Str(log.FieldMediaID, string(id)).
			Str(log.FieldKind, kind.String())
	})
	if opts.Logger != nil {
		l = *opts.Logger
	}

	observers, err := NewRegistry(opts.Dispatcher, RegistryOptions{
		TickInterval:      opts.TickInterval,
		VideoEndTolerance: opts.VideoEndTolerance,
		Logger:            &l,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		item:      item,
		id:        id,
		kind:      kind,
		binding:   binding,
		opts:      opts,
		disp:      opts.Dispatcher,
		log:       l,
		observers: observers,
	}
	if opts.External != nil && opts.Cache != nil && opts.Cache.IsCached(item) {
		s.external = opts.External
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

// Load assigns the player and applies the resume policy once.
func (s *Session) Load(p player.Interface) error {
	switch s.state {
	case StateTornDown:
		return ErrTornDown
	case StateIdle:
	default:
		return ErrAlreadyLoaded
	}
	if p == nil {
		return ErrNoPlayer
	}

	s.player = p
	saved := s.binding.Load()
	s.reachedEnd = saved.ReachedEnd
	s.setState(StateLoaded)

	if p.Duration() <= 0 {
		s.loadDuration()
	}
	s.applyPolicy(saved.Elapsed)
	return nil
}

// Activate gives the session the visible slot: observers are attached, the
// player is registered for external control when eligible and, with
// autoplay, playback starts. Calling it again while active only reattaches
// observers and honors a changed autoplay flag.
func (s *Session) Activate(autoplay bool) error {
	if err := s.requirePlayer(); err != nil {
		return err
	}
	s.autoplay = autoplay
	s.activate()
	if autoplay {
		s.startPlayback()
	}
	return nil
}

// Deactivate detaches observers and pauses, keeping the position.
func (s *Session) Deactivate() error {
	if s.state == StateTornDown {
		return ErrTornDown
	}
	if s.state != StateActive {
		return nil
	}

	s.observers.Detach()
	s.afterSeek = nil
	s.player.Pause()
	s.savePosition()
	s.autoplay = false
	s.nowPlayingReady = false
	s.activation++
	s.setState(StateSuspended)
	return nil
}

// Teardown releases the player and ends the session. In-flight loads are
// canceled and their results discarded. Safe to call more than once.
func (s *Session) Teardown() {
	if s.state == StateTornDown {
		return
	}

	s.cancel()
	s.observers.Detach()
	s.afterSeek = nil
	s.clearSeek()

	if p := s.player; p != nil {
		s.savePosition()
		switch {
		case s.opts.Shared:
			if s.registered {
				s.external.ReleaseTarget(p, s)
			}
		default:
			p.Pause()
			if s.registered {
				s.external.Unregister(p, s.id)
			}
		}
	}
	s.player = nil
	s.registered = false
	s.setState(StateTornDown)

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
}

// ManualPlayToggle pauses if playing, otherwise plays. A play at or within
// the manual restart window of the end restarts from zero.
func (s *Session) ManualPlayToggle() (ToggleResult, error) {
	if err := s.requirePlayer(); err != nil {
		return TogglePaused, err
	}
	if s.isPlaying() {
		s.pause()
		return TogglePaused, nil
	}

	s.activate()
	result := TogglePlayed
	if s.nearEnd() {
		s.restart()
		result = ToggleRestarted
	} else {
		s.startPlayback()
	}

	s.log.Debug().Stringer("result", result).Msg("manual play")
	s.publish(func(sub *Subscription) {
		sub.sendManualPlay(ManualPlay{Restarted: result == ToggleRestarted})
	})
	return result, nil
}

// Seek moves to an absolute position and clears the reached-end flag.
func (s *Session) Seek(to time.Duration) error {
	if err := s.requirePlayer(); err != nil {
		return err
	}
	if dur := s.Duration(); dur > 0 {
		to = lo.Clamp(to, 0, dur)
	} else {
		to = max(to, 0)
	}

	s.reachedEnd = false
	s.binding.Store(Position{Elapsed: to})
	s.seek(to)
	return nil
}

// NotifyLoopRestart restarts from zero when a looping host replays the
// item. It only acts on an active session with autoplay and reports
// whether it did.
func (s *Session) NotifyLoopRestart() bool {
	if s.state != StateActive || !s.autoplay || s.player == nil {
		return false
	}
	s.restart()
	return true
}

// Subscribe creates a new event subscription. Subscriptions are closed on
// teardown.
func (s *Session) Subscribe() *Subscription {
	sub := newSubscription()
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.state == StateTornDown {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

func (s *Session) State() State       { return s.state }
func (s *Session) MediaID() media.ID  { return s.id }
func (s *Session) Kind() media.Kind   { return s.kind }
func (s *Session) IsActive() bool     { return s.state == StateActive }
func (s *Session) ReachedEnd() bool   { return s.reachedEnd }
func (s *Session) Autoplay() bool     { return s.autoplay }
func (s *Session) Decision() Decision { return s.decision }

// Player returns the session's player, or nil once torn down.
func (s *Session) Player() player.Interface { return s.player }

// Registered reports whether the session registered its player for
// external control.
func (s *Session) Registered() bool { return s.registered }

// Playing reports whether the player is playing or about to after a seek.
func (s *Session) Playing() bool {
	return s.player != nil && s.isPlaying()
}

// Duration returns the best known duration: the player's when it has one,
// otherwise the one loaded from the item. 0 means unknown.
func (s *Session) Duration() time.Duration {
	if s.player != nil {
		if d := s.player.Duration(); d > 0 {
			return d
		}
	}
	return s.duration
}

// Position returns the transport position, or the saved one without a
// player.
func (s *Session) Position() time.Duration {
	if s.player == nil {
		return s.binding.Load().Elapsed
	}
	return s.transportPosition()
}

func (s *Session) requirePlayer() error {
	switch {
	case s.state == StateTornDown:
		return ErrTornDown
	case s.player == nil:
		return ErrNoPlayer
	}
	return nil
}

// activate moves to Active, applying the policy on entry, and (re)attaches
// observers and the external registration.
func (s *Session) activate() {
	if s.state != StateActive {
		s.activation++
		s.applyPolicy(s.binding.Load().Elapsed)
		s.setState(StateActive)
	}
	s.observers.Attach(s.player, s.id, s.kind, s.handleTick, s.handleEnd)
	if s.external != nil {
		s.external.Register(s.player, s.id, s.kind, s)
		s.registered = true
	}
}

// applyPolicy decides between resuming at saved and restarting, and issues
// the seek that decision implies.
func (s *Session) applyPolicy(saved time.Duration) {
	eps := s.opts.Policy.epsilon()
	d := s.opts.Policy.Decide(s.Duration(), saved, s.reachedEnd, s.kind)
	s.decision = d

	s.log.Debug().
		Str(log.FieldDecision, d.String()).
		Dur(log.FieldPosition, saved).
		Dur(log.FieldDuration, s.Duration()).
		Bool("reached_end", s.reachedEnd).
		Msg("resume policy")

	switch d {
	case Restart:
		s.reachedEnd = false
		s.binding.Store(Position{})
		s.seek(0)
	case Resume:
		if saved > eps && absDuration(s.transportPosition()-saved) > eps {
			s.seek(saved)
		}
	}
}

// restart seeks to zero and plays once the seek settles.
func (s *Session) restart() {
	s.reachedEnd = false
	s.binding.Store(Position{})
	s.afterSeek = s.playNow
	s.seek(0)
}

// startPlayback plays now, or after the pending seek.
func (s *Session) startPlayback() {
	if s.seekPending {
		s.afterSeek = s.playNow
		return
	}
	s.playNow()
}

func (s *Session) playNow() {
	if s.state != StateActive || s.player == nil {
		return
	}
	s.player.Play()
	s.initNowPlaying()
	s.reportPosition(s.transportPosition(), true)
}

func (s *Session) pause() {
	s.afterSeek = nil
	s.player.Pause()
	s.savePosition()
	s.reportPosition(s.transportPosition(), false)
}

func (s *Session) isPlaying() bool {
	return s.player.State() == player.Playing || s.afterSeek != nil
}

func (s *Session) nearEnd() bool {
	if s.reachedEnd {
		return true
	}
	dur := s.Duration()
	if dur <= 0 {
		return false
	}
	return s.transportPosition() >= dur-s.opts.ManualRestartWindow
}

// transportPosition is the position the transport is at or heading to.
func (s *Session) transportPosition() time.Duration {
	if s.seekPending {
		return s.seekTarget
	}
	return s.player.Position()
}

func (s *Session) savePosition() {
	s.binding.Store(Position{Elapsed: s.transportPosition(), ReachedEnd: s.reachedEnd})
}

func (s *Session) reportPosition(pos time.Duration, playing bool) {
	if !s.registered {
		return
	}
	s.external.UpdatePosition(s.player, pos, s.Duration(), playing)
}

// seek issues an asynchronous seek. Completion, failure or timeout runs
// afterSeek; a newer seek supersedes an older one.
func (s *Session) seek(to time.Duration) {
	s.clearSeek()
	s.seekSeq++
	seq := s.seekSeq
	s.seekPending = true
	s.seekTarget = to

	s.seekTimer = time.AfterFunc(s.opts.SeekTimeout, func() {
		s.disp.Post(func() { s.finishSeek(seq, ErrSeekTimeout) })
	})
	s.player.Seek(to, func(ok bool) {
		var err error
		if !ok {
			err = ErrSeekFailed
		}
		s.disp.Post(func() { s.finishSeek(seq, err) })
	})
}

func (s *Session) finishSeek(seq uint64, err error) {
	if seq != s.seekSeq || !s.seekPending {
		return
	}
	to := s.seekTarget
	s.clearSeek()

	if err != nil {
		reason := "failed"
		if errors.Is(err, ErrSeekTimeout) {
			reason = "timeout"
		}
		metrics.SeekFailuresTotal.WithLabelValues(reason).Inc()
		s.log.Warn().Err(err).Dur(log.FieldPosition, to).Msg("seek did not complete")
		s.emitError("seek", err)
	}

	if then := s.afterSeek; then != nil {
		s.afterSeek = nil
		then()
	}
}

func (s *Session) clearSeek() {
	s.seekPending = false
	if s.seekTimer != nil {
		s.seekTimer.Stop()
		s.seekTimer = nil
	}
}

func (s *Session) handleTick(pos time.Duration) {
	if s.state != StateActive || s.player == nil {
		return
	}
	dur := s.Duration()
	playing := s.player.State() == player.Playing
	if !s.seekPending {
		s.binding.Store(Position{Elapsed: pos, ReachedEnd: s.reachedEnd})
	}
	s.publish(func(sub *Subscription) {
		sub.sendTick(Tick{Position: pos, Duration: dur, Playing: playing})
	})
	s.reportPosition(pos, playing)
}

func (s *Session) handleEnd() {
	if s.state != StateActive || s.player == nil {
		return
	}
	s.reachedEnd = true
	pos := s.player.Position()
	s.binding.Store(Position{Elapsed: pos, ReachedEnd: true})
	s.log.Debug().Dur(log.FieldPosition, pos).Msg("reached end")

	s.publish(func(sub *Subscription) {
		sub.sendEnded(Ended{MediaID: s.id})
	})
	s.reportPosition(pos, false)
}

// loadDuration resolves the item's duration in the background.
func (s *Session) loadDuration() {
	ctx := s.ctx
	item := s.item
	go func() {
		d, err := item.Duration(ctx)
		s.disp.Post(func() {
			if s.state == StateTornDown || ctx.Err() != nil {
				metrics.StaleEventsTotal.WithLabelValues("async").Inc()
				return
			}
			if err != nil {
				if !errors.Is(err, media.ErrUnknownDuration) {
					s.emitError("duration", err)
				}
				s.log.Debug().Err(err).Msg("duration unavailable")
				return
			}
			s.duration = d
		})
	}()
}

// initNowPlaying publishes metadata once per activation that plays.
func (s *Session) initNowPlaying() {
	if !s.registered || s.nowPlayingReady {
		return
	}
	s.nowPlayingReady = true

	ctx := s.ctx
	item := s.item
	p := s.player
	activation := s.activation
	go func() {
		meta, err := item.Metadata(ctx)
		s.disp.Post(func() {
			if s.state == StateTornDown || ctx.Err() != nil || s.activation != activation {
				metrics.StaleEventsTotal.WithLabelValues("async").Inc()
				return
			}
			if err != nil {
				s.emitError("metadata", err)
				meta = media.Metadata{Title: filepath.Base(item.Source())}
			}
			if meta.Duration <= 0 {
				meta.Duration = s.Duration()
			}
			meta.IsVideo = s.kind == media.KindVideo
			s.external.InitNowPlaying(p, s.id, meta)
		})
	}()
}

func (s *Session) setState(next State) {
	prev := s.state
	if prev == next {
		return
	}
	s.state = next

	metrics.SessionTransitionsTotal.WithLabelValues(prev.String(), next.String()).Inc()
	if next == StateActive {
		metrics.ActiveSessions.Inc()
	} else if prev == StateActive {
		metrics.ActiveSessions.Dec()
	}
	s.log.Debug().
		Stringer(log.FieldOldState, prev).
		Stringer(log.FieldNewState, next).
		Msg("state changed")

	s.publish(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: next})
	})
}

func (s *Session) emitError(op string, err error) {
	s.publish(func(sub *Subscription) {
		sub.sendError(ErrorEvent{Operation: op, MediaID: s.id, Err: err})
	})
}

func (s *Session) publish(send func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		send(sub)
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
