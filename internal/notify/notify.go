// Package notify shows desktop notifications for what the gallery plays.
package notify

import (
	"math"
	"time"
)

// Urgency is the freedesktop urgency level.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is one desktop notification.
type Notification struct {
	Summary   string
	Body      string
	Image     string        // artwork path, sent as the image-path hint
	Expire    time.Duration // 0 leaves it to the server
	Replaces  uint32        // id of the notification to update in place
	Urgency   Urgency
	Transient bool // keep out of the notification history
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its id. A notifier without a service
	// returns 0 and no error.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// discard drops every notification.
type discard struct{}

func (discard) Notify(Notification) (uint32, error) { return 0, nil }
func (discard) Close(uint32) error                  { return nil }

// expireMillis converts an expiry to the protocol timeout, where -1 asks
// for the server default.
func expireMillis(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	return int32(min(d.Milliseconds(), math.MaxInt32))
}
