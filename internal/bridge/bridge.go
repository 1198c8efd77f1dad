// Package bridge mediates between playback sessions and the operating
// system's media controls. It keeps one registered player per media kind,
// the now-playing description and the last reported position.
//
// Registration is last-writer-wins: the session that activated most
// recently owns the slot for its kind. Unregistration and position updates
// are identity-checked, so a stale session cannot clear or overwrite a
// newer registration.
package bridge

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/metrics"
	"github.com/llehouerou/gallery/internal/player"
)

// NowPlaying is the description shown by external controls.
type NowPlaying struct {
	MediaID media.ID
	Kind    media.Kind
	media.Metadata
}

// PositionInfo is the last position reported by the registered player.
type PositionInfo struct {
	Kind      media.Kind
	Position  time.Duration
	Duration  time.Duration
	Playing   bool
	UpdatedAt time.Time
}

// Estimate extrapolates the position to now while playing.
func (p PositionInfo) Estimate(now time.Time) time.Duration {
	if !p.Playing || p.UpdatedAt.IsZero() {
		return p.Position
	}
	pos := p.Position + now.Sub(p.UpdatedAt)
	if p.Duration > 0 && pos > p.Duration {
		return p.Duration
	}
	return pos
}

type slot struct {
	player  player.Interface
	mediaID media.ID
	target  Target
}

// Options configures a Bridge.
type Options struct {
	Logger *zerolog.Logger
	Now    func() time.Time
}

// Bridge is safe for concurrent use. Commands are delivered outside the
// lock so targets may call back into the bridge.
type Bridge struct {
	mu         sync.RWMutex
	slots      map[media.Kind]slot
	enabled    bool
	activeKind media.Kind
	hasActive  bool
	nowPlaying NowPlaying
	hasNow     bool
	position   PositionInfo

	now func() time.Time
	log zerolog.Logger

	subsMu sync.RWMutex
	subs   []*Subscription
}

// New creates an empty bridge. Remote controls stay disabled until the
// first registration.
func New(opts Options) *Bridge {
	l := log.WithComponent("bridge")
	if opts.Logger != nil {
		l = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Bridge{
		slots: make(map[media.Kind]slot),
		now:   now,
		log:   l,
	}
}

// Register makes p the current player for kind. Remote controls are
// enabled on first registration and stay enabled.
func (b *Bridge) Register(p player.Interface, id media.ID, kind media.Kind, target Target) {
	b.mu.Lock()
	prev, had := b.slots[kind]
	b.slots[kind] = slot{player: p, mediaID: id, target: target}
	b.enabled = true
	b.activeKind = kind
	b.hasActive = true
	b.mu.Unlock()

	metrics.BridgeRegistrationsTotal.WithLabelValues(kind.String()).Inc()
	ev := b.log.Debug().
		Str(log.FieldMediaID, string(id)).
		Str(log.FieldKind, kind.String())
	if had && prev.player != p {
		ev = ev.Str("replaced", string(prev.mediaID))
	}
	ev.Msg("player registered")
}

// Unregister clears the slot holding p. It does nothing if another player
// has been registered since, and reports whether a slot was cleared.
func (b *Bridge) Unregister(p player.Interface, id media.ID) bool {
	b.mu.Lock()
	kind, ok := b.kindOfLocked(p)
	if !ok {
		b.mu.Unlock()
		b.log.Debug().Str(log.FieldMediaID, string(id)).Msg("unregister ignored: player not current")
		return false
	}
	delete(b.slots, kind)
	cleared := false
	if b.hasNow && b.nowPlaying.Kind == kind {
		b.nowPlaying = NowPlaying{}
		b.hasNow = false
		cleared = true
	}
	if b.hasActive && b.activeKind == kind {
		b.position = PositionInfo{}
		b.hasActive = false
		for k := range b.slots {
			b.activeKind = k
			b.hasActive = true
		}
	}
	b.mu.Unlock()

	b.log.Debug().
		Str(log.FieldMediaID, string(id)).
		Str(log.FieldKind, kind.String()).
		Msg("player unregistered")
	if cleared {
		b.publishNowPlaying(NowPlayingChange{Cleared: true})
	}
	return true
}

// ReleaseTarget detaches target from p's slot while keeping p registered.
// Commands for that kind then drive p directly.
func (b *Bridge) ReleaseTarget(p player.Interface, target Target) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kind, ok := b.kindOfLocked(p)
	if !ok {
		return
	}
	s := b.slots[kind]
	if s.target == target {
		s.target = nil
		b.slots[kind] = s
	}
}

// UpdatePosition records the position of p. Updates from a player that is
// not registered are ignored.
func (b *Bridge) UpdatePosition(p player.Interface, pos, dur time.Duration, playing bool) bool {
	b.mu.Lock()
	kind, ok := b.kindOfLocked(p)
	if !ok {
		b.mu.Unlock()
		metrics.StaleEventsTotal.WithLabelValues("position").Inc()
		return false
	}
	info := PositionInfo{
		Kind:      kind,
		Position:  pos,
		Duration:  dur,
		Playing:   playing,
		UpdatedAt: b.now(),
	}
	b.position = info
	b.activeKind = kind
	b.hasActive = true
	b.mu.Unlock()

	b.publishPosition(info)
	return true
}

// InitNowPlaying sets the now-playing description for p's media. Ignored
// unless p is registered.
func (b *Bridge) InitNowPlaying(p player.Interface, id media.ID, meta media.Metadata) bool {
	b.mu.Lock()
	kind, ok := b.kindOfLocked(p)
	if !ok || b.slots[kind].mediaID != id {
		b.mu.Unlock()
		metrics.StaleEventsTotal.WithLabelValues("now_playing").Inc()
		return false
	}
	np := NowPlaying{MediaID: id, Kind: kind, Metadata: meta}
	b.nowPlaying = np
	b.hasNow = true
	b.activeKind = kind
	b.hasActive = true
	b.mu.Unlock()

	b.log.Debug().
		Str(log.FieldMediaID, string(id)).
		Str("title", meta.Title).
		Msg("now playing")
	b.publishNowPlaying(NowPlayingChange{NowPlaying: np})
	return true
}

// Current returns the player registered for kind.
func (b *Bridge) Current(kind media.Kind) (player.Interface, media.ID, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.slots[kind]
	return s.player, s.mediaID, ok
}

// IsCurrent reports whether p is the player registered for kind.
func (b *Bridge) IsCurrent(kind media.Kind, p player.Interface) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.slots[kind]
	return ok && s.player == p
}

// Enabled reports whether remote controls have been enabled.
func (b *Bridge) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// NowPlaying returns the current now-playing description.
func (b *Bridge) NowPlaying() (NowPlaying, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nowPlaying, b.hasNow
}

// Position returns the last reported position.
func (b *Bridge) Position() PositionInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.position
}

// ActiveKind returns the kind that registered or reported most recently.
func (b *Bridge) ActiveKind() (media.Kind, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.activeKind, b.hasActive
}

// Subscribe returns a new subscription for bridge events.
func (b *Bridge) Subscribe() *Subscription {
	sub := newSubscription()
	b.subsMu.Lock()
	b.subs = append(b.subs, sub)
	b.subsMu.Unlock()
	return sub
}

// Close signals all subscribers.
func (b *Bridge) Close() {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	for _, sub := range b.subs {
		sub.close()
	}
	b.subs = nil
}

func (b *Bridge) kindOfLocked(p player.Interface) (media.Kind, bool) {
	if p == nil {
		return 0, false
	}
	for kind, s := range b.slots {
		if s.player == p {
			return kind, true
		}
	}
	return 0, false
}

func (b *Bridge) publishNowPlaying(e NowPlayingChange) {
	b.subsMu.RLock()
	defer b.subsMu.RUnlock()
	for _, sub := range b.subs {
		sub.sendNowPlaying(e)
	}
}

func (b *Bridge) publishPosition(e PositionInfo) {
	b.subsMu.RLock()
	defer b.subsMu.RUnlock()
	for _, sub := range b.subs {
		sub.sendPosition(e)
	}
}

func (b *Bridge) publishDropped(e CommandDropped) {
	b.subsMu.RLock()
	defer b.subsMu.RUnlock()
	for _, sub := range b.subs {
		sub.sendDropped(e)
	}
}
