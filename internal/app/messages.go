package app

import (
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/playback"
)

// scanDoneMsg carries the result of scanning the gallery folder.
type scanDoneMsg struct {
	Folder string
	Items  []*media.FileItem
	Err    error
}

// dispatchMsg asks Update to run the callbacks posted to the dispatcher.
type dispatchMsg struct{}

// navigateMsg moves the cursor by Delta items. Sent by external controls.
type navigateMsg struct {
	Delta int
}

// slideTickMsg advances the slideshow past a still item. Stale versions
// are ignored.
type slideTickMsg struct {
	Version int
}

// animTickMsg steps the zoom animation by one frame.
type animTickMsg struct{}

// metadataMsg carries the description of a timed item.
type metadataMsg struct {
	ID   media.ID
	Meta media.Metadata
	Err  error
}

// sessionEventMsg carries one event from a playback session subscription.
type sessionEventMsg struct {
	ID    media.ID
	sub   *playback.Subscription
	Event any
}

// sessionClosedMsg is sent when a session subscription is closed.
type sessionClosedMsg struct {
	ID media.ID
}

// clearStatusMsg clears the status line if it still shows the message it
// was scheduled for.
type clearStatusMsg struct {
	Version int
}
