package app

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/llehouerou/gallery/internal/errmsg"
	"github.com/llehouerou/gallery/internal/keymap"
	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/playback"
)

const (
	seekStep     = 5 * time.Second
	seekStepLong = 30 * time.Second
	volumeStep   = 0.05
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.syncViewport()
		return m, nil
	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case dispatchMsg:
		m.link.drain()
		return m, nil
	case scanDoneMsg:
		return m, m.handleScanDone(msg)
	case navigateMsg:
		return m, m.step(msg.Delta)
	case slideTickMsg:
		if !m.slideshow || msg.Version != m.slideVersion {
			return m, nil
		}
		// Timed items advance when they end.
		if item := m.current(); item != nil && m.playsInSlideshow(item) {
			return m, nil
		}
		return m, m.advance()
	case animTickMsg:
		return m, m.stepAnimation()
	case metadataMsg:
		if e, ok := m.sessions[msg.ID]; ok {
			if msg.Err != nil {
				m.log.Debug().Err(msg.Err).Str(log.FieldMediaID, string(msg.ID)).Msg("metadata")
			}
			e.meta = msg.Meta
			e.hasMeta = true
		}
		return m, nil
	case sessionEventMsg:
		return m, m.handleSessionEvent(msg)
	case sessionClosedMsg:
		return m, nil
	case clearStatusMsg:
		if msg.Version == m.statusVersion {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSessionEvent(msg sessionEventMsg) tea.Cmd {
	watch := WatchSessionEvents(msg.ID, msg.sub)
	switch e := msg.Event.(type) {
	case playback.Ended:
		item := m.current()
		if m.slideshow && item != nil && item.ID() == e.MediaID {
			return tea.Batch(watch, m.advance())
		}
	case playback.ErrorEvent:
		name := string(e.MediaID)
		if item := m.current(); item != nil && item.ID() == e.MediaID {
			name = item.Name()
		}
		return tea.Batch(watch, m.setStatus(errmsg.FormatWith(errmsg.ForPlayback(e.Operation), name, e.Err)))
	}
	return watch
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.help.HandleKey(msg.String()) {
			m.showHelp = false
		}
		return m, nil
	}

	action := m.keys.Resolve(msg.String())

	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = true
		return m, nil

	case keymap.ActionNextItem:
		if m.zoom.IsZoomed() {
			return m, m.pan(1, 0)
		}
		return m, m.step(1)
	case keymap.ActionPrevItem:
		if m.zoom.IsZoomed() {
			return m, m.pan(-1, 0)
		}
		return m, m.step(-1)
	case keymap.ActionFirstItem:
		return m, m.focus(0)
	case keymap.ActionLastItem:
		return m, m.focus(len(m.items) - 1)
	case keymap.ActionRescan:
		if m.scanning {
			return m, nil
		}
		m.scanning = true
		return m, tea.Batch(ScanCmd(m.folder), m.spinner.Tick)

	case keymap.ActionPlayPause:
		return m, m.togglePlay()
	case keymap.ActionSeekForward:
		return m, m.seekBy(seekStep)
	case keymap.ActionSeekBack:
		return m, m.seekBy(-seekStep)
	case keymap.ActionSeekForwardLong:
		return m, m.seekBy(seekStepLong)
	case keymap.ActionSeekBackLong:
		return m, m.seekBy(-seekStepLong)
	case keymap.ActionVolumeUp:
		return m, m.setVolume(m.volume + volumeStep)
	case keymap.ActionVolumeDown:
		return m, m.setVolume(m.volume - volumeStep)
	case keymap.ActionToggleMute:
		m.muted = !m.muted
		if e := m.currentEntry(); e != nil {
			e.player.SetMuted(m.muted)
		}
		return m, m.saveVolume()
	case keymap.ActionSlideshow:
		return m, m.toggleSlideshow()

	case keymap.ActionZoomIn:
		return m, m.pinch(zoomStep)
	case keymap.ActionZoomOut:
		return m, m.pinch(1 / zoomStep)
	case keymap.ActionZoomReset:
		return m, m.resetZoomAnimated()
	case keymap.ActionZoomTap:
		return m, m.doubleTap()
	case keymap.ActionPanLeft:
		return m, m.pan(-1, 0)
	case keymap.ActionPanRight:
		return m, m.pan(1, 0)
	case keymap.ActionPanUp:
		return m, m.pan(0, -1)
	case keymap.ActionPanDown:
		return m, m.pan(0, 1)
	}
	return m, nil
}

func (m *Model) togglePlay() tea.Cmd {
	e := m.currentEntry()
	if e == nil {
		return nil
	}
	res, err := e.session.ManualPlayToggle()
	if err != nil {
		return m.setStatus(errmsg.FormatWith(errmsg.OpPlaybackStart, m.current().Name(), err))
	}
	if m.slideshow && res.ManuallyStarted() {
		// The user took over; the item keeps playing.
		m.slideshow = false
		m.slideVersion++
		m.loops = 0
		return m.setStatus("Slideshow stopped")
	}
	return nil
}

func (m *Model) seekBy(delta time.Duration) tea.Cmd {
	e := m.currentEntry()
	if e == nil {
		return nil
	}
	if err := e.session.Seek(e.session.Position() + delta); err != nil {
		return m.setStatus(errmsg.FormatWith(errmsg.OpPlaybackSeek, m.current().Name(), err))
	}
	return nil
}

func (m *Model) setVolume(level float64) tea.Cmd {
	m.volume = lo.Clamp(level, 0, 1)
	if e := m.currentEntry(); e != nil {
		e.player.SetVolume(m.volume)
	}
	return m.saveVolume()
}
