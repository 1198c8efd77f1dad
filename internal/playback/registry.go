package playback

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/metrics"
	"github.com/llehouerou/gallery/internal/player"
)

// Registry defaults.
const (
	DefaultTickInterval      = 500 * time.Millisecond
	DefaultVideoEndTolerance = time.Second
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	TickInterval time.Duration
	// VideoEndTolerance bounds |duration - position| for an accepted video
	// end signal. Audio end signals are trusted without a position check.
	VideoEndTolerance time.Duration
	Logger            *zerolog.Logger
}

// attachment is the pair of observer handles installed on one player.
type attachment struct {
	player player.Interface
	item   media.ID
	kind   media.Kind
	tick   player.Token
	end    player.Token
}

// Registry owns at most one periodic observer and one end observer.
//
// Observer callbacks are posted to the dispatcher and checked against the
// attach epoch there, so a callback from a detached or replaced attachment
// is dropped. Attach, Detach and Attached must be called on the
// dispatcher's goroutine.
type Registry struct {
	disp    Dispatcher
	opts    RegistryOptions
	log     zerolog.Logger
	current mo.Option[attachment]
	epoch   uint64
}

// NewRegistry creates a registry delivering callbacks through disp.
func NewRegistry(disp Dispatcher, opts RegistryOptions) (*Registry, error) {
	if disp == nil {
		return nil, ErrNoDispatcher
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.VideoEndTolerance <= 0 {
		opts.VideoEndTolerance = DefaultVideoEndTolerance
	}
	l := log.WithComponent("observers")
	if opts.Logger != nil {
		l = *opts.Logger
	}
	return &Registry{disp: disp, opts: opts, log: l}, nil
}

// Attach detaches any previous observers, then installs one periodic
// observer and one end observer on p for item.
func (r *Registry) Attach(p player.Interface, item media.ID, kind media.Kind, onTick func(time.Duration), onEnd func()) {
	r.Detach()

	r.epoch++
	epoch := r.epoch

	a := attachment{player: p, item: item, kind: kind}
	a.tick = p.AddPeriodicObserver(r.opts.TickInterval, func(pos time.Duration) {
		r.disp.Post(func() {
			if r.epoch != epoch || r.current.IsAbsent() {
				metrics.StaleEventsTotal.WithLabelValues("tick").Inc()
				return
			}
			onTick(pos)
		})
	})
	a.end = p.AddEndObserver(func(notified media.ID) {
		r.disp.Post(func() {
			if r.epoch != epoch || r.current.IsAbsent() {
				metrics.StaleEventsTotal.WithLabelValues("end").Inc()
				return
			}
			if !r.acceptEnd(notified) {
				metrics.StaleEventsTotal.WithLabelValues("end").Inc()
				return
			}
			onEnd()
		})
	})
	r.current = mo.Some(a)

	r.log.Debug().
		Str(log.FieldMediaID, string(item)).
		Str(log.FieldKind, kind.String()).
		Msg("observers attached")
}

// Detach removes both observers. Safe to call when nothing is attached.
func (r *Registry) Detach() {
	a, ok := r.current.Get()
	if !ok {
		return
	}
	a.player.RemoveObserver(a.tick)
	a.player.RemoveObserver(a.end)
	r.current = mo.None[attachment]()
	r.epoch++

	r.log.Debug().Str(log.FieldMediaID, string(a.item)).Msg("observers detached")
}

// Attached reports whether observers are installed.
func (r *Registry) Attached() bool {
	return r.current.IsPresent()
}

// acceptEnd validates an end notification against the attached item.
func (r *Registry) acceptEnd(notified media.ID) bool {
	a := r.current.MustGet()
	if notified != a.item || a.player.CurrentItem() != a.item {
		r.log.Debug().
			Str(log.FieldMediaID, string(notified)).
			Str("attached", string(a.item)).
			Msg("end ignored: not the current item")
		return false
	}
	if a.kind == media.KindAudio {
		return true
	}

	dur := a.player.Duration()
	pos := a.player.Position()
	if dur <= 0 {
		r.log.Debug().Str(log.FieldMediaID, string(a.item)).Msg("end ignored: duration unknown")
		return false
	}
	diff := dur - pos
	if diff < 0 {
		diff = -diff
	}
	if diff > r.opts.VideoEndTolerance {
		r.log.Debug().
			Str(log.FieldMediaID, string(a.item)).
			Dur(log.FieldPosition, pos).
			Dur(log.FieldDuration, dur).
			Msg("end ignored: position not at end")
		return false
	}
	return true
}
