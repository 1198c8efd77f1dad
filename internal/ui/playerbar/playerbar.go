// Package playerbar renders the one-line transport bar shown while a timed
// item is on screen.
package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/gallery/internal/icons"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/playback"
	"github.com/llehouerou/gallery/internal/ui/render"
)

// Height is the bar height: top border, content, bottom border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Visible  bool
	Playing  bool
	Title    string
	Artist   string
	Album    string
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
}

// Source is the part of a playback session the bar reads.
type Source interface {
	State() playback.State
	Playing() bool
	Position() time.Duration
	Duration() time.Duration
}

// NewState builds the bar state for a session showing an item described by
// meta. The bar is hidden until the session has a player.
func NewState(s Source, meta media.Metadata, volume float64, muted bool) State {
	if s == nil || !s.State().HasPlayer() {
		return State{}
	}
	return State{
		Visible:  true,
		Playing:  s.Playing(),
		Title:    meta.Title,
		Artist:   meta.Artist,
		Album:    meta.Album,
		Position: s.Position(),
		Duration: s.Duration(),
		Volume:   volume,
		Muted:    muted,
	}
}

// Render returns the player bar for the given width, or "" when hidden.
func Render(s State, width int) string {
	if !s.Visible {
		return ""
	}
	// border (2) + padding (4)
	innerWidth := max(width-6, 0)

	status := icons.Pause()
	if s.Playing {
		status = icons.Play()
	}

	title := render.Sanitize(s.Title)
	if title == "" {
		title = "Untitled"
	}
	var infoParts []string
	for _, p := range []string{s.Artist, s.Album} {
		if p = render.Sanitize(p); p != "" {
			infoParts = append(infoParts, p)
		}
	}
	info := strings.Join(infoParts, " · ")

	timeStr := FormatDuration(s.Position) + " / " + FormatDuration(s.Duration)
	volume := RenderVolume(s.Volume, s.Muted)

	const (
		separator   = "   "
		minBarWidth = 10
	)
	sepWidth := lipgloss.Width(separator)
	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(timeStr) + lipgloss.Width(volume) + sepWidth*3
	available := innerWidth - fixed - minBarWidth

	titleWidth := lipgloss.Width(title)
	infoWidth := lipgloss.Width(info)

	var content strings.Builder
	used := 0
	switch {
	case info != "" && titleWidth+sepWidth+infoWidth <= available:
		content.WriteString(titleStyle.Render(title))
		content.WriteString(separator)
		content.WriteString(infoStyle.Render(info))
		used = titleWidth + sepWidth + infoWidth
	case info != "" && titleWidth+sepWidth+1 < available:
		maxInfo := available - titleWidth - sepWidth
		content.WriteString(titleStyle.Render(title))
		content.WriteString(separator)
		content.WriteString(infoStyle.Render(ansi.Truncate(info, maxInfo, "…")))
		used = titleWidth + sepWidth + min(infoWidth, maxInfo)
	default:
		maxTitle := max(available, 10)
		t := ansi.Truncate(title, maxTitle, "…")
		content.WriteString(titleStyle.Render(t))
		used = lipgloss.Width(t)
	}

	barWidth := max(innerWidth-used-fixed, 5)

	content.WriteString(separator)
	content.WriteString(status)
	content.WriteString("  ")
	content.WriteString(renderProgress(s.Position, s.Duration, barWidth))
	content.WriteString(separator)
	content.WriteString(progressTimeStyle.Render(timeStr))
	content.WriteString(separator)
	content.WriteString(volume)

	return barStyle.Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}
