package playback

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"
)

func TestNewSubscription_ChannelsReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendState(StateChange{Previous: StateLoaded, Current: StateActive})
		sub.sendTick(Tick{Position: 30 * time.Second, Duration: time.Minute, Playing: true})
		sub.sendEnded(Ended{MediaID: "clip"})
		sub.sendManualPlay(ManualPlay{Restarted: true})
		sub.sendError(ErrorEvent{Operation: "seek", Err: errors.New("boom")})

		e := <-sub.StateChanged
		if e.Current != StateActive {
			t.Errorf("StateChanged.Current = %v, want Active", e.Current)
		}

		tick := <-sub.Ticks
		if tick.Position != 30*time.Second {
			t.Errorf("Ticks.Position = %v, want 30s", tick.Position)
		}

		ended := <-sub.Ended
		if ended.MediaID != "clip" {
			t.Errorf("Ended.MediaID = %q, want clip", ended.MediaID)
		}

		mp := <-sub.ManualPlay
		if !mp.Restarted {
			t.Error("ManualPlay.Restarted = false, want true")
		}

		ev := <-sub.Error
		if ev.Operation != "seek" {
			t.Errorf("Error.Operation = %q, want seek", ev.Operation)
		}
	})
}

func TestSubscription_Close_SignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSubscription_NonBlocking_DropsWhenFull(t *testing.T) {
	sub := newSubscription()

	// Fill buffer
	for range eventBufferSize + 5 {
		sub.sendTick(Tick{})
	}

	count := 0
	for {
		select {
		case <-sub.Ticks:
			count++
		default:
			goto done
		}
	}
done:
	if count != eventBufferSize {
		t.Errorf("received %d events, want %d (buffer size)", count, eventBufferSize)
	}
}
