package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testBindings() []Binding {
	return []Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
		{ActionPrevItem, []string{"left", "p"}, "Previous", "gallery"},
		{ActionNextItem, []string{"right", "n"}, "Next", "gallery"},
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(testBindings())

	cases := map[string]Action{
		"q":       ActionQuit,
		"ctrl+c":  ActionQuit,
		" ":       ActionPlayPause,
		"left":    ActionPrevItem,
		"n":       ActionNextItem,
		"unknown": "",
		"":        "",
	}
	for key, want := range cases {
		assert.Equal(t, want, r.Resolve(key), "Resolve(%q)", key)
	}
}

func TestResolver_KeysForKeepsOrder(t *testing.T) {
	r := NewResolver(testBindings())

	assert.Equal(t, []string{"q", "ctrl+c"}, r.KeysFor(ActionQuit))
	assert.Equal(t, []string{"right", "n"}, r.KeysFor(ActionNextItem))
	assert.Nil(t, r.KeysFor(Action("unknown")))
}

func TestResolver_LaterBindingWins(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionPanLeft, []string{"H"}, "Pan left", "zoom"},
		{ActionFirstItem, []string{"H", "home"}, "First", "gallery"},
	})

	assert.Equal(t, ActionFirstItem, r.Resolve("H"))
	assert.Equal(t, ActionFirstItem, r.Resolve("home"))
	// the shadowed action still lists the key it declared
	assert.Equal(t, []string{"H"}, r.KeysFor(ActionPanLeft))
}

func TestResolver_MergesRepeatedAction(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionSeekForward, []string{".", "shift+right"}, "Seek", "playback"},
		{ActionSeekForward, []string{"."}, "Seek", "zoom"},
		{ActionSeekForward, []string{">", "."}, "Seek", "gallery"},
	})

	assert.Equal(t, []string{".", "shift+right", ">"}, r.KeysFor(ActionSeekForward))
	assert.Equal(t, ActionSeekForward, r.Resolve(">"))
}

func TestResolver_DefaultBindings(t *testing.T) {
	r := NewResolver(All)

	assert.Equal(t, ActionQuit, r.Resolve("q"))
	assert.Equal(t, ActionNextItem, r.Resolve("right"))
	assert.Equal(t, ActionPlayPause, r.Resolve(" "))
	assert.Equal(t, ActionZoomTap, r.Resolve("z"))
	assert.Equal(t, ActionSlideshow, r.Resolve("s"))
	assert.Contains(t, r.KeysFor(ActionQuit), "ctrl+c")
}

func TestResolver_Empty(t *testing.T) {
	r := NewResolver(nil)

	assert.Equal(t, Action(""), r.Resolve("q"))
	assert.Nil(t, r.KeysFor(ActionQuit))
	assert.Empty(t, r.Hint(ActionQuit))
}

func TestLabel(t *testing.T) {
	cases := map[string]string{
		" ":      "space",
		"right":  "→",
		"left":   "←",
		"up":     "↑",
		"ctrl+c": "ctrl+c",
		"z":      "z",
	}
	for key, want := range cases {
		assert.Equal(t, want, Label(key), "Label(%q)", key)
	}

	assert.Equal(t, "space, p", LabelAll([]string{" ", "p"}))
	assert.Empty(t, LabelAll(nil))
}

func TestResolver_Hint(t *testing.T) {
	r := NewResolver(All)

	assert.Equal(t, "space", r.Hint(ActionPlayPause))
	assert.Equal(t, "→", r.Hint(ActionNextItem))
	assert.Empty(t, r.Hint(Action("missing")))
}
