package notify

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/gallery/internal/bridge"
	"github.com/llehouerou/gallery/internal/log"
)

const announceExpire = 4 * time.Second

// FromNowPlaying builds the notification for a now-playing entry. Body is
// "Artist - Album" with empty parts left out.
func FromNowPlaying(np bridge.NowPlaying) Notification {
	var parts []string
	for _, s := range []string{np.Artist, np.Album} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return Notification{
		Summary:   np.Title,
		Body:      strings.Join(parts, " - "),
		Image:     np.ArtworkPath,
		Expire:    announceExpire,
		Urgency:   UrgencyLow,
		Transient: true,
	}
}

// Announcer shows one notification per now-playing change, replacing the
// previous one.
type Announcer struct {
	n      Notifier
	log    zerolog.Logger
	lastID uint32
}

// NewAnnouncer creates an announcer sending through n.
func NewAnnouncer(n Notifier) *Announcer {
	return &Announcer{n: n, log: log.WithComponent("notify")}
}

// Announce shows np. Video entries are not announced.
func (a *Announcer) Announce(np bridge.NowPlaying) {
	if np.IsVideo || np.Title == "" {
		return
	}
	notif := FromNowPlaying(np)
	notif.Replaces = a.lastID
	id, err := a.n.Notify(notif)
	if err != nil {
		a.log.Debug().Err(err).Msg("notify failed")
		return
	}
	a.lastID = id
}

// Clear closes the last notification.
func (a *Announcer) Clear() {
	if a.lastID == 0 {
		return
	}
	if err := a.n.Close(a.lastID); err != nil {
		a.log.Debug().Err(err).Msg("close notification failed")
	}
	a.lastID = 0
}

// Run announces changes from sub until ctx is done or sub is closed.
func (a *Announcer) Run(ctx context.Context, sub *bridge.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.NowPlayingChanged:
			if e.Cleared {
				a.Clear()
				continue
			}
			a.Announce(e.NowPlaying)
		}
	}
}
