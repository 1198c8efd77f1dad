package app

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/llehouerou/gallery/internal/errmsg"
	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/playback"
	"github.com/llehouerou/gallery/internal/state"
	"github.com/llehouerou/gallery/internal/zoom"
)

// retainDistance is how far from the cursor a session survives. Sessions
// within it are only suspended, so coming back resumes without reloading.
const retainDistance = 1

// current returns the focused item, or nil for an empty gallery.
func (m *Model) current() *media.FileItem {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return m.items[m.cursor]
}

// currentEntry returns the session of the focused item, if any.
func (m *Model) currentEntry() *entry {
	item := m.current()
	if item == nil {
		return nil
	}
	return m.sessions[item.ID()]
}

func (m *Model) handleScanDone(msg scanDoneMsg) tea.Cmd {
	if msg.Folder != m.folder {
		return nil
	}
	m.scanning = false
	if msg.Err != nil {
		return m.setStatus(errmsg.FormatWith(errmsg.OpScanFolder, m.folder, msg.Err))
	}

	prevID := media.ID("")
	if item := m.current(); item != nil {
		prevID = item.ID()
	}

	m.items = msg.Items
	index := 0
	switch {
	case m.restoreName != "":
		_, idx, ok := lo.FindIndexOf(m.items, func(it *media.FileItem) bool {
			return it.Name() == m.restoreName
		})
		if ok {
			index = idx
		}
		m.restoreName = ""
	case prevID != "":
		_, idx, ok := lo.FindIndexOf(m.items, func(it *media.FileItem) bool {
			return it.ID() == prevID
		})
		if ok {
			index = idx
		}
	}
	if e := m.currentEntry(); e != nil {
		if err := e.session.Deactivate(); err != nil {
			m.log.Debug().Err(err).Msg("deactivate")
		}
	}
	m.cursor = -1
	m.evict(index)
	if len(m.items) == 0 {
		m.link.setPosition(0, 0)
		return nil
	}
	return m.focus(index)
}

// step moves the cursor by delta, clamped to the gallery.
func (m *Model) step(delta int) tea.Cmd {
	if len(m.items) == 0 {
		return nil
	}
	return m.focus(lo.Clamp(m.cursor+delta, 0, len(m.items)-1))
}

// focus makes item i the visible one. The previous session is suspended,
// sessions that moved out of range are torn down, and a timed item gets
// its session created or reactivated.
func (m *Model) focus(i int) tea.Cmd {
	if i < 0 || i >= len(m.items) {
		return nil
	}
	if i == m.cursor {
		return nil
	}

	if e := m.currentEntry(); e != nil {
		if err := e.session.Deactivate(); err != nil {
			m.log.Debug().Err(err).Msg("deactivate")
		}
	}
	m.cursor = i
	m.status = ""
	m.evict(i)
	m.link.setPosition(i, len(m.items))
	m.slideVersion++
	m.resetZoom()

	item := m.items[i]
	m.saveNavigation(item)

	var cmds []tea.Cmd
	switch item.Kind() {
	case media.KindImage, media.KindAnimatedImage:
		if m.images != nil {
			if err := m.images.Load(item.Source()); err != nil {
				cmds = append(cmds, m.setStatus(errmsg.FormatWith(errmsg.OpOpenItem, item.Name(), err)))
			}
		}
	case media.KindAudio:
		cmds = append(cmds, m.activate(item))
	case media.KindVideo:
		// No terminal transport; shown as info only.
	}
	m.syncViewport()

	if m.slideshow && !m.playsInSlideshow(item) {
		cmds = append(cmds, SlideTickCmd(m.cfg.GetSlideshowConfig().Interval, m.slideVersion))
	}
	return tea.Batch(cmds...)
}

// activate creates the session of item if needed and gives it the visible
// slot.
func (m *Model) activate(item *media.FileItem) tea.Cmd {
	var cmds []tea.Cmd
	e, ok := m.sessions[item.ID()]
	if !ok {
		var err error
		e, err = m.openSession(item)
		if err != nil {
			return m.setStatus(errmsg.FormatWith(errmsg.OpOpenItem, item.Name(), err))
		}
		m.sessions[item.ID()] = e
		cmds = append(cmds,
			WatchSessionEvents(item.ID(), e.session.Subscribe()),
			MetadataCmd(item),
		)
	}
	e.player.SetVolume(m.volume)
	e.player.SetMuted(m.muted)
	if err := e.session.Activate(m.slideshow); err != nil {
		cmds = append(cmds, m.setStatus(errmsg.FormatWith(errmsg.OpPlaybackStart, item.Name(), err)))
	}
	return tea.Batch(cmds...)
}

func (m *Model) openSession(item *media.FileItem) (*entry, error) {
	pc := m.cfg.GetPlaybackConfig()
	opts := playback.Options{
		Dispatcher:          m.link,
		Policy:              playback.Policy{Threshold: pc.ResumeThreshold, Epsilon: pc.PositionEpsilon},
		TickInterval:        pc.TickInterval,
		VideoEndTolerance:   pc.VideoEndTolerance,
		ManualRestartWindow: pc.ManualRestartWindow,
		SeekTimeout:         pc.SeekTimeout,
	}
	if m.bridge != nil {
		opts.External = m.bridge
		opts.Cache = media.LocalCache
	}

	s, err := playback.NewSession(item, m.bindingFor(item.ID()), opts)
	if err != nil {
		return nil, err
	}
	p := m.newPlayer()
	if err := p.Load(item.ID(), item.Source()); err != nil {
		s.Teardown()
		_ = p.Close()
		return nil, err
	}
	if err := s.Load(p); err != nil {
		s.Teardown()
		_ = p.Close()
		return nil, err
	}
	m.log.Debug().
		Str(log.FieldMediaID, string(item.ID())).
		Str(log.FieldPath, item.Source()).
		Msg("session opened")
	return &entry{session: s, player: p}, nil
}

func (m *Model) bindingFor(id media.ID) playback.Binding {
	if m.store != nil && m.cfg.ShouldPersistPositions() {
		return state.NewBinding(m.store, id)
	}
	b, ok := m.memBindings[id]
	if !ok {
		b = playback.NewMemoryBinding(playback.Position{})
		m.memBindings[id] = b
	}
	return b
}

// evict tears down sessions further than retainDistance from index.
func (m *Model) evict(index int) {
	for id, e := range m.sessions {
		_, idx, found := lo.FindIndexOf(m.items, func(it *media.FileItem) bool {
			return it.ID() == id
		})
		if found && abs(idx-index) <= retainDistance {
			continue
		}
		e.session.Teardown()
		if err := e.player.Close(); err != nil {
			m.log.Debug().Err(err).Str(log.FieldMediaID, string(id)).Msg("close player")
		}
		delete(m.sessions, id)
	}
}

// playsInSlideshow reports whether the slideshow waits for item to end
// instead of using the still interval.
func (m *Model) playsInSlideshow(item *media.FileItem) bool {
	if item.Kind() != media.KindAudio {
		return false
	}
	_, ok := m.sessions[item.ID()]
	return ok
}

// advance moves the slideshow to the next item. Looping over a single
// item replays it in place.
func (m *Model) advance() tea.Cmd {
	if len(m.items) == 0 {
		return nil
	}
	next := m.cursor + 1
	if next >= len(m.items) {
		if !*m.cfg.GetSlideshowConfig().Loop {
			m.slideshow = false
			return m.setStatus("Slideshow finished")
		}
		next = 0
		m.loops++
	}
	if next != m.cursor {
		return m.focus(next)
	}

	if e := m.currentEntry(); e != nil && e.session.NotifyLoopRestart() {
		return nil
	}
	m.slideVersion++
	return SlideTickCmd(m.cfg.GetSlideshowConfig().Interval, m.slideVersion)
}

// toggleSlideshow starts or stops the slideshow from the focused item.
// Stopping it suspends the focused session.
func (m *Model) toggleSlideshow() tea.Cmd {
	m.slideshow = !m.slideshow
	m.slideVersion++
	m.loops = 0
	item := m.current()
	if item == nil {
		return nil
	}
	if !m.slideshow {
		if e := m.currentEntry(); e != nil {
			if err := e.session.Deactivate(); err != nil {
				m.log.Debug().Err(err).Msg("deactivate")
			}
		}
		return nil
	}
	if e := m.currentEntry(); e != nil {
		if err := e.session.Activate(true); err != nil {
			return m.setStatus(errmsg.FormatWith(errmsg.OpPlaybackStart, item.Name(), err))
		}
		return nil
	}
	return SlideTickCmd(m.cfg.GetSlideshowConfig().Interval, m.slideVersion)
}

func (m *Model) resetZoom() {
	m.zoom.Reset()
	if a := m.zoom.Animator(); a != nil {
		a.Snap(m.zoom.Transform())
	}
	m.animating = false
}

func (m *Model) saveNavigation(item *media.FileItem) {
	if m.store == nil {
		return
	}
	m.store.SaveNavigation(state.NavigationState{
		CurrentPath:  m.folder,
		SelectedName: filepath.Base(item.Source()),
	})
}

func (m *Model) saveVolume() tea.Cmd {
	if m.store == nil {
		return nil
	}
	if err := m.store.SaveVolume(m.volume, m.muted); err != nil {
		return m.setStatus(errmsg.Format(errmsg.OpStateSave, err))
	}
	return nil
}

// setStatus shows msg in the status line for a few seconds.
func (m *Model) setStatus(msg string) tea.Cmd {
	m.status = msg
	m.statusVersion++
	return ClearStatusCmd(m.statusVersion)
}

// viewport returns the cell area of the image view.
func (m *Model) viewport() (cols, rows int) {
	rows = m.height - headerHeight - statusHeight
	if e := m.currentEntry(); e != nil {
		rows -= playerbarHeight
	}
	return max(m.width, 0), max(rows, 0)
}

func (m *Model) syncViewport() {
	cols, rows := m.viewport()
	m.zoom.SetViewport(zoom.Size{W: float64(cols), H: float64(rows)})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
