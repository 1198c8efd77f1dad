package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/playback"
)

const (
	metadataTimeout = 5 * time.Second
	statusTimeout   = 4 * time.Second
	animFrame       = time.Second / 60
)

// ScanCmd scans folder for gallery items.
func ScanCmd(folder string) tea.Cmd {
	return func() tea.Msg {
		items, err := media.Scan(context.Background(), folder)
		return scanDoneMsg{Folder: folder, Items: items, Err: err}
	}
}

// SlideTickCmd returns a command that sends slideTickMsg after d.
func SlideTickCmd(d time.Duration, version int) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return slideTickMsg{Version: version}
	})
}

// AnimTickCmd returns a command that sends animTickMsg after one frame.
func AnimTickCmd() tea.Cmd {
	return tea.Tick(animFrame, func(_ time.Time) tea.Msg {
		return animTickMsg{}
	})
}

// ClearStatusCmd returns a command that sends clearStatusMsg after a few seconds.
func ClearStatusCmd(version int) tea.Cmd {
	return tea.Tick(statusTimeout, func(_ time.Time) tea.Msg {
		return clearStatusMsg{Version: version}
	})
}

// MetadataCmd reads the description of item.
func MetadataCmd(item media.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), metadataTimeout)
		defer cancel()
		meta, err := item.Metadata(ctx)
		return metadataMsg{ID: item.ID(), Meta: meta, Err: err}
	}
}

// WatchSessionEvents returns a command that waits for the next event of a
// playback session. It listens on all subscription channels and converts
// events to tea.Msg.
func WatchSessionEvents(id media.ID, sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		wrap := func(e any) tea.Msg {
			return sessionEventMsg{ID: id, sub: sub, Event: e}
		}
		select {
		case e := <-sub.StateChanged:
			return wrap(e)
		case e := <-sub.Ticks:
			return wrap(e)
		case e := <-sub.Ended:
			return wrap(e)
		case e := <-sub.ManualPlay:
			return wrap(e)
		case e := <-sub.Error:
			return wrap(e)
		case <-sub.Done:
			return sessionClosedMsg{ID: id}
		}
	}
}
