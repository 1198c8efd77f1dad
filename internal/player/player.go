package player

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/gallery/internal/media"
)

const outputSampleRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10))
	})
	return speakerErr
}

type seekRequest struct {
	to   time.Duration
	done func(bool)
}

// AudioPlayer is a beep-backed transport for local audio files.
type AudioPlayer struct {
	mu        sync.Mutex
	state     State
	item      media.ID
	streamer  beep.StreamSeekCloser
	format    beep.Format
	ctrl      *beep.Ctrl
	resampler *beep.Resampler
	volume    *effects.Volume
	queued    bool // the stream is currently in the speaker mixer

	rate        float64
	volumeLevel float64
	muted       bool

	observers *observerSet
	seekCh    chan seekRequest
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewAudioPlayer creates a stopped player. The speaker is initialized on the
// first Load.
func NewAudioPlayer() *AudioPlayer {
	p := &AudioPlayer{
		state:       Stopped,
		rate:        1,
		volumeLevel: 1,
		observers:   newObserverSet(),
		seekCh:      make(chan seekRequest, 1),
		done:        make(chan struct{}),
	}
	p.wg.Add(1)
	go p.seekLoop()
	return p
}

// Load replaces the current media with the file at path, paused at 0.
func (p *AudioPlayer) Load(item media.ID, path string) error {
	streamer, format, err := media.OpenAudio(path)
	if err != nil {
		return err
	}
	if err := initSpeaker(); err != nil {
		streamer.Close()
		return err
	}

	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.item = item
	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: streamer, Paused: true}
	p.resampler = beep.Resample(4, format.SampleRate, outputSampleRate, p.ctrl)
	p.resampler.SetRatio(p.baseRatio() * p.rate)
	p.volume = &effects.Volume{
		Streamer: p.resampler,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.muted,
	}
	p.state = p.state.Next(OnLoad)
	return nil
}

func (p *AudioPlayer) baseRatio() float64 {
	return float64(p.format.SampleRate) / float64(outputSampleRate)
}

// enqueue hands the stream to the speaker. Caller holds p.mu.
func (p *AudioPlayer) enqueue() {
	if p.queued || p.volume == nil {
		return
	}
	item := p.item
	p.queued = true
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		// Runs under the speaker lock; observers must not be called inline.
		go p.finished(item)
	})))
}

func (p *AudioPlayer) finished(item media.ID) {
	p.mu.Lock()
	if p.item != item || p.state == Stopped {
		p.mu.Unlock()
		return
	}
	p.queued = false
	p.state = p.state.Next(OnEnd)
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
	p.mu.Unlock()

	for _, fn := range p.observers.endFuncs() {
		fn(item)
	}
}

func (p *AudioPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil || p.state == Playing {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.enqueue()
	p.state = p.state.Next(OnPlay)
}

func (p *AudioPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = p.state.Next(OnPause)
}

// Stop unloads the media and releases the file.
func (p *AudioPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Stopped {
		return
	}

	speaker.Clear()
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.resampler = nil
	p.volume = nil
	p.queued = false
	p.item = ""
	p.state = p.state.Next(OnStop)
}

// Close stops playback, removes every observer and ends background goroutines.
func (p *AudioPlayer) Close() error {
	p.Stop()
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.observers.removeAll()
	p.wg.Wait()
	return nil
}

func (p *AudioPlayer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *AudioPlayer) CurrentItem() media.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.item
}

func (p *AudioPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	return pos
}

func (p *AudioPlayer) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

func (p *AudioPlayer) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

func (p *AudioPlayer) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rate = rate
	if p.resampler != nil {
		speaker.Lock()
		p.resampler.SetRatio(p.baseRatio() * rate)
		speaker.Unlock()
	}
}

// Seek is non-blocking: a newer request replaces a pending one, whose done
// callback then reports false.
func (p *AudioPlayer) Seek(to time.Duration, done func(ok bool)) {
	select {
	case <-p.done:
		if done != nil {
			done(false)
		}
		return
	default:
	}

	req := seekRequest{to: to, done: done}
	select {
	case p.seekCh <- req:
		return
	default:
	}

	select {
	case old := <-p.seekCh:
		if old.done != nil {
			old.done(false)
		}
	default:
	}
	select {
	case p.seekCh <- req:
	default:
		if done != nil {
			done(false)
		}
	}
}

func (p *AudioPlayer) seekLoop() {
	defer p.wg.Done()
	for {
		select {
		case req := <-p.seekCh:
			ok := p.doSeek(req.to)
			if req.done != nil {
				req.done(ok)
			}
		case <-p.done:
			select {
			case req := <-p.seekCh:
				if req.done != nil {
					req.done(false)
				}
			default:
			}
			return
		}
	}
}

func (p *AudioPlayer) doSeek(to time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil || p.state == Stopped {
		return false
	}

	target := p.format.SampleRate.N(to)
	target = max(0, min(target, p.streamer.Len()-1))

	speaker.Lock()
	err := p.streamer.Seek(target)
	speaker.Unlock()
	if err != nil {
		return false
	}

	// A finished stream left the mixer; rejoin it so play can resume.
	if p.state == Playing {
		p.enqueue()
	}
	return true
}

// AddPeriodicObserver fires fn every interval while playing.
func (p *AudioPlayer) AddPeriodicObserver(interval time.Duration, fn func(pos time.Duration)) Token {
	stop := make(chan struct{})
	token := p.observers.addPeriodic(&periodicObserver{interval: interval, fn: fn, stop: stop})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if p.State() == Playing {
					fn(p.Position())
				}
			case <-stop:
				return
			case <-p.done:
				return
			}
		}
	}()
	return token
}

func (p *AudioPlayer) AddEndObserver(fn func(item media.ID)) Token {
	return p.observers.addEnd(fn)
}

func (p *AudioPlayer) RemoveObserver(token Token) {
	p.observers.remove(token)
}
