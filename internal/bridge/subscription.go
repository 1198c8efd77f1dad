package bridge

const eventBufferSize = 16

// NowPlayingChange is emitted when the now-playing entry is set or cleared.
type NowPlayingChange struct {
	NowPlaying NowPlaying
	Cleared    bool
}

// CommandDropped is emitted when a remote command finds no registered player.
type CommandDropped struct {
	Command Command
	Kind    string
}

// Subscription provides event channels for a subscriber.
type Subscription struct {
	NowPlayingChanged <-chan NowPlayingChange
	PositionChanged   <-chan PositionInfo
	CommandDropped    <-chan CommandDropped
	Done              <-chan struct{}

	nowPlayingCh chan NowPlayingChange
	positionCh   chan PositionInfo
	droppedCh    chan CommandDropped
	doneCh       chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		nowPlayingCh: make(chan NowPlayingChange, eventBufferSize),
		positionCh:   make(chan PositionInfo, eventBufferSize),
		droppedCh:    make(chan CommandDropped, eventBufferSize),
		doneCh:       make(chan struct{}),
	}
	s.NowPlayingChanged = s.nowPlayingCh
	s.PositionChanged = s.positionCh
	s.CommandDropped = s.droppedCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendNowPlaying(e NowPlayingChange) {
	select {
	case s.nowPlayingCh <- e:
	default:
	}
}

func (s *Subscription) sendPosition(e PositionInfo) {
	select {
	case s.positionCh <- e:
	default:
	}
}

func (s *Subscription) sendDropped(e CommandDropped) {
	select {
	case s.droppedCh <- e:
	default:
	}
}
