package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged <-chan StateChange
	Ticks        <-chan Tick
	Ended        <-chan Ended
	ManualPlay   <-chan ManualPlay
	Error        <-chan ErrorEvent
	Done         <-chan struct{}

	// Internal write channels
	stateCh  chan StateChange
	tickCh   chan Tick
	endedCh  chan Ended
	manualCh chan ManualPlay
	errorCh  chan ErrorEvent
	doneCh   chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:  make(chan StateChange, eventBufferSize),
		tickCh:   make(chan Tick, eventBufferSize),
		endedCh:  make(chan Ended, eventBufferSize),
		manualCh: make(chan ManualPlay, eventBufferSize),
		errorCh:  make(chan ErrorEvent, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.Ticks = s.tickCh
	s.Ended = s.endedCh
	s.ManualPlay = s.manualCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendTick(e Tick) {
	select {
	case s.tickCh <- e:
	default:
	}
}

func (s *Subscription) sendEnded(e Ended) {
	select {
	case s.endedCh <- e:
	default:
	}
}

func (s *Subscription) sendManualPlay(e ManualPlay) {
	select {
	case s.manualCh <- e:
	default:
	}
}

func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
