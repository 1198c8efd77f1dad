//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/gallery/internal/log"
)

const (
	busName    = "org.freedesktop.Notifications"
	busPath    = "/org/freedesktop/Notifications"
	appName    = "Gallery"
	appIcon    = "multimedia-player"
	desktopID  = "gallery"
	categoryID = "x-gallery.playback"
)

type busNotifier struct {
	obj dbus.BusObject
}

// New returns a notifier on the session bus. Without a session bus the
// returned notifier drops everything.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		l := log.WithComponent("notify")
		l.Debug().Err(err).Msg("session bus unavailable")
		return discard{}, nil
	}
	return &busNotifier{obj: conn.Object(busName, busPath)}, nil
}

func (b *busNotifier) Notify(n Notification) (uint32, error) {
	var id uint32
	err := b.obj.Call(busName+".Notify", 0,
		appName,
		n.Replaces,
		appIcon,
		n.Summary,
		n.Body,
		[]string{},
		hints(n),
		expireMillis(n.Expire),
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (b *busNotifier) Close(id uint32) error {
	return b.obj.Call(busName+".CloseNotification", 0, id).Err
}

func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopID),
		"category":      dbus.MakeVariant(categoryID),
	}
	if n.Image != "" {
		h["image-path"] = dbus.MakeVariant(n.Image)
	}
	if n.Transient {
		h["transient"] = dbus.MakeVariant(true)
	}
	return h
}
