package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/playback"
)

type fakeSource struct {
	state   playback.State
	playing bool
	pos     time.Duration
	dur     time.Duration
}

func (f fakeSource) State() playback.State   { return f.state }
func (f fakeSource) Playing() bool           { return f.playing }
func (f fakeSource) Position() time.Duration { return f.pos }
func (f fakeSource) Duration() time.Duration { return f.dur }

func TestNewState_HiddenWithoutPlayer(t *testing.T) {
	s := NewState(fakeSource{state: playback.StateIdle}, media.Metadata{Title: "x"}, 1, false)
	assert.False(t, s.Visible)
	assert.Empty(t, Render(s, 80))

	assert.False(t, NewState(nil, media.Metadata{}, 1, false).Visible)
}

func TestNewState_FromSession(t *testing.T) {
	src := fakeSource{state: playback.StateActive, playing: true, pos: 30 * time.Second, dur: time.Minute}
	s := NewState(src, media.Metadata{Title: "Song", Artist: "Artist"}, 0.5, false)

	assert.True(t, s.Visible)
	assert.True(t, s.Playing)
	assert.Equal(t, "Song", s.Title)
	assert.Equal(t, 30*time.Second, s.Position)
	assert.Equal(t, time.Minute, s.Duration)
}

func TestRender_FitsWidth(t *testing.T) {
	s := State{
		Visible:  true,
		Playing:  true,
		Title:    strings.Repeat("very long title ", 10),
		Artist:   "Artist",
		Album:    "Album",
		Position: 90 * time.Second,
		Duration: 3 * time.Minute,
		Volume:   1,
	}
	for _, width := range []int{60, 80, 120} {
		out := Render(s, width)
		assert.Equal(t, Height, lipgloss.Height(out))
		for _, line := range strings.Split(out, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), width)
		}
		assert.Contains(t, out, "1:30 / 3:00")
	}
}

func TestRender_ShowsInfoWhenRoomy(t *testing.T) {
	s := State{Visible: true, Title: "Song", Artist: "Artist", Album: "Album", Duration: time.Minute, Volume: 1}
	assert.Contains(t, Render(s, 120), "Artist · Album")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59*time.Second + 900*time.Millisecond, "0:59"},
		{5*time.Minute + 7*time.Second, "5:07"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d), tt.d.String())
	}
}

func TestRenderVolume(t *testing.T) {
	assert.Contains(t, RenderVolume(0.8, false), "80%")
	assert.Contains(t, RenderVolume(0.8, true), "muted")
}
