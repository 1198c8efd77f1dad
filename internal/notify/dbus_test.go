//go:build linux

package notify

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestHints(t *testing.T) {
	h := hints(Notification{Urgency: UrgencyCritical})
	if got := h["urgency"].Value(); got != byte(2) {
		t.Errorf("urgency = %v, want 2", got)
	}
	if _, ok := h["image-path"]; ok {
		t.Error("image-path should be omitted without an image")
	}
	if _, ok := h["transient"]; ok {
		t.Error("transient should be omitted by default")
	}

	h = hints(Notification{Image: "/cover.jpg", Transient: true})
	if got := h["image-path"]; got != dbus.MakeVariant("/cover.jpg") {
		t.Errorf("image-path = %v", got)
	}
	if got := h["transient"].Value(); got != true {
		t.Errorf("transient = %v, want true", got)
	}
}
