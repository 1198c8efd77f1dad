// Package headerbar renders the one-line header above the gallery view.
package headerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/gallery/internal/icons"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/ui/render"
	"github.com/llehouerou/gallery/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

const appTitle = "gallery"

// State is what the header shows about the focused item.
type State struct {
	Name      string
	Kind      media.Kind
	Index     int // 0-based
	Count     int
	Size      int64
	ModTime   time.Time
	Slideshow bool
	Loops     int // completed slideshow passes
	Scale     float64
	Scanning  bool
}

// Render returns the header for the given width. now anchors the relative
// modification time.
func Render(s State, width int, now time.Time) string {
	if width < 20 {
		return ""
	}
	st := styles.T().S()

	left := styles.T().Title(appTitle)
	switch {
	case s.Count > 0:
		left += "  " + st.Title.Render(icons.FormatItem(s.Kind, render.Sanitize(s.Name)))
		left += st.Muted.Render(fmt.Sprintf("  %d/%d", s.Index+1, s.Count))
	case s.Scanning:
		left += "  " + st.Muted.Render("scanning…")
	default:
		left += "  " + st.Muted.Render("no items")
	}

	var right []string
	if s.Scale > 1 {
		right = append(right, st.Accent.Render(fmt.Sprintf("%s %.0f%%", icons.Zoom(), s.Scale*100)))
	}
	if s.Slideshow {
		label := icons.Slideshow()
		if s.Loops > 0 {
			label += fmt.Sprintf(" ×%d", s.Loops)
		}
		right = append(right, st.Accent.Render(label))
	}
	if s.Count > 0 {
		info := humanize.IBytes(uint64(max(s.Size, 0)))
		if !s.ModTime.IsZero() {
			info += " · " + humanize.RelTime(s.ModTime, now, "ago", "from now")
		}
		right = append(right, st.Muted.Render(info))
	}

	line := render.Row(left, strings.Join(right, "  "), width)
	if lipgloss.Width(line) > width {
		// Too narrow for both sides: keep the item.
		return ansi.Truncate(left, width, "…")
	}
	return line
}
