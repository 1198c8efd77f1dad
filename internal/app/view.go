package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/gallery/internal/icons"
	"github.com/llehouerou/gallery/internal/keymap"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/ui/headerbar"
	"github.com/llehouerou/gallery/internal/ui/imageview"
	"github.com/llehouerou/gallery/internal/ui/playerbar"
	"github.com/llehouerou/gallery/internal/ui/render"
	"github.com/llehouerou/gallery/internal/ui/styles"
)

const (
	headerHeight    = headerbar.Height
	statusHeight    = 1
	playerbarHeight = playerbar.Height
)

// View renders the application UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		hide := ""
		if m.images != nil {
			hide = m.images.Hide()
		}
		return hide + render.Center(m.help.View(), m.width, m.height)
	}

	header := headerbar.Render(m.headerState(), m.width, time.Now())
	body, images := m.renderBody()

	parts := []string{header, body}
	if e := m.currentEntry(); e != nil {
		parts = append(parts, playerbar.Render(playerbar.NewState(e.session, e.meta, m.volume, m.muted), m.width))
	}
	parts = append(parts, m.renderStatus())

	// Image escapes go first: they move the cursor themselves and must not
	// be measured by the layout.
	return images + strings.Join(parts, "\n")
}

func (m Model) headerState() headerbar.State {
	s := headerbar.State{
		Count:     len(m.items),
		Index:     m.cursor,
		Slideshow: m.slideshow,
		Loops:     m.loops,
		Scale:     m.displayed().Scale,
		Scanning:  m.scanning,
	}
	if item := m.current(); item != nil {
		s.Name = item.Name()
		s.Kind = item.Kind()
		s.Size = item.Size()
		s.ModTime = item.ModTime()
	}
	return s
}

// renderBody returns the view area and the image escapes drawn over it.
func (m Model) renderBody() (body, images string) {
	cols, rows := m.viewport()
	st := styles.T().S()
	item := m.current()

	if item != nil && m.images != nil && isImage(item) {
		out, err := m.images.Render(m.displayed(), cols, rows, headerHeight+1, 1)
		if err == nil {
			return imageview.Blank(cols, rows), out
		}
		m.log.Debug().Err(err).Msg("render image")
	}

	var hide string
	if m.images != nil {
		hide = m.images.Hide()
	}

	switch {
	case item != nil:
		return render.Center(m.renderInfo(item), cols, rows), hide
	case m.scanning:
		return render.Center(m.spinner.View()+" "+st.Muted.Render("Scanning "+m.folder), cols, rows), hide
	default:
		return render.Center(st.Muted.Render("No pictures, videos or music in "+m.folder), cols, rows), hide
	}
}

// renderInfo describes an item that is not drawn as an image.
func (m Model) renderInfo(item *media.FileItem) string {
	st := styles.T().S()
	lines := []string{
		st.Title.Render(icons.FormatItem(item.Kind(), render.Sanitize(item.Name()))),
		"",
		field("Kind", item.Kind().String()),
		field("Size", humanize.IBytes(uint64(max(item.Size(), 0)))),
		field("Modified", humanize.Time(item.ModTime())),
	}

	if e := m.sessions[item.ID()]; e != nil && e.hasMeta {
		for _, f := range [][2]string{
			{"Title", e.meta.Title},
			{"Artist", e.meta.Artist},
			{"Album", e.meta.Album},
		} {
			if f[1] != "" {
				lines = append(lines, field(f[0], render.Sanitize(f[1])))
			}
		}
	}

	switch {
	case item.Kind() == media.KindVideo:
		lines = append(lines, "", st.Muted.Render("Video playback is not available in the terminal."))
	case isImage(item) && m.images == nil:
		lines = append(lines, "", st.Muted.Render("This terminal cannot display images."))
	}

	return st.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	st := styles.T().S()
	if m.status != "" {
		return st.Error.Render(ansi.Truncate(render.Sanitize(m.status), m.width, "…"))
	}
	return st.Subtle.Render(ansi.Truncate(m.hints(), m.width, "…"))
}

// hints lists the main keys, e.g. "←/→ browse · space play".
func (m Model) hints() string {
	k := m.keys
	return strings.Join([]string{
		k.Hint(keymap.ActionPrevItem) + "/" + k.Hint(keymap.ActionNextItem) + " browse",
		k.Hint(keymap.ActionPlayPause) + " play",
		k.Hint(keymap.ActionSlideshow) + " slideshow",
		k.Hint(keymap.ActionZoomTap) + " zoom",
		k.Hint(keymap.ActionHelp) + " help",
	}, " · ")
}

func field(label, value string) string {
	st := styles.T().S()
	return st.Muted.Render(render.Pad(label, 10)) + st.Base.Render(value)
}

func isImage(item *media.FileItem) bool {
	return item.Kind() == media.KindImage || item.Kind() == media.KindAnimatedImage
}
