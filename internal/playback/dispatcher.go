package playback

import "errors"

// ErrNoDispatcher is returned when a session or registry is built without
// a dispatcher.
var ErrNoDispatcher = errors.New("playback: nil dispatcher")

// Dispatcher funnels work onto the single goroutine that owns session
// state. Player callbacks, seek completions, asynchronous loads and remote
// commands all reach a Session through Post.
//
// Post may be called from any goroutine. It must not run fn inline unless
// the caller is already on the owning goroutine.
type Dispatcher interface {
	Post(fn func())
}
