package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/player"
)

type recordingTarget struct {
	cmds []Command
}

func (r *recordingTarget) HandleRemote(cmd Command) {
	r.cmds = append(r.cmds, cmd)
}

func TestBridge_DisabledUntilFirstRegistration(t *testing.T) {
	b := New(Options{})
	assert.False(t, b.Enabled())

	p := player.NewMock()
	b.Register(p, "a", media.KindAudio, nil)
	assert.True(t, b.Enabled())

	b.Unregister(p, "a")
	assert.True(t, b.Enabled(), "controls stay enabled after unregister")
}

func TestBridge_StaleUnregisterKeepsNewerRegistration(t *testing.T) {
	b := New(Options{})
	pa := player.NewMock()
	pb := player.NewMock()

	b.Register(pa, "a", media.KindVideo, nil)
	b.Register(pb, "b", media.KindVideo, nil)

	assert.False(t, b.Unregister(pa, "a"))

	got, id, ok := b.Current(media.KindVideo)
	require.True(t, ok)
	assert.Same(t, pb, got)
	assert.Equal(t, media.ID("b"), id)
}

func TestBridge_UnregisterClearsNowPlaying(t *testing.T) {
	b := New(Options{})
	sub := b.Subscribe()
	p := player.NewMock()

	b.Register(p, "a", media.KindAudio, nil)
	require.True(t, b.InitNowPlaying(p, "a", media.Metadata{Title: "Song"}))

	np, ok := b.NowPlaying()
	require.True(t, ok)
	assert.Equal(t, "Song", np.Title)
	assert.Equal(t, media.KindAudio, np.Kind)

	require.True(t, b.Unregister(p, "a"))
	_, ok = b.NowPlaying()
	assert.False(t, ok)

	first := <-sub.NowPlayingChanged
	assert.False(t, first.Cleared)
	second := <-sub.NowPlayingChanged
	assert.True(t, second.Cleared)
}

func TestBridge_KindsAreIndependent(t *testing.T) {
	b := New(Options{})
	video := player.NewMock()
	audio := player.NewMock()

	b.Register(video, "v", media.KindVideo, nil)
	b.Register(audio, "s", media.KindAudio, nil)

	assert.True(t, b.IsCurrent(media.KindVideo, video))
	assert.True(t, b.IsCurrent(media.KindAudio, audio))
	assert.False(t, b.IsCurrent(media.KindAudio, video))

	b.Unregister(video, "v")
	assert.True(t, b.IsCurrent(media.KindAudio, audio))
	kind, ok := b.ActiveKind()
	require.True(t, ok)
	assert.Equal(t, media.KindAudio, kind)
}

func TestBridge_UpdatePositionIgnoresStalePlayer(t *testing.T) {
	now := time.Unix(1000, 0)
	b := New(Options{Now: func() time.Time { return now }})
	current := player.NewMock()
	stale := player.NewMock()

	b.Register(current, "a", media.KindAudio, nil)

	assert.False(t, b.UpdatePosition(stale, 10*time.Second, time.Minute, true))
	assert.Zero(t, b.Position().Position)

	assert.True(t, b.UpdatePosition(current, 20*time.Second, time.Minute, true))
	pos := b.Position()
	assert.Equal(t, 20*time.Second, pos.Position)
	assert.Equal(t, time.Minute, pos.Duration)
	assert.True(t, pos.Playing)
	assert.Equal(t, now, pos.UpdatedAt)
}

func TestBridge_InitNowPlayingIgnoresStalePlayer(t *testing.T) {
	b := New(Options{})
	pa := player.NewMock()
	pb := player.NewMock()

	b.Register(pa, "a", media.KindVideo, nil)
	b.Register(pb, "b", media.KindVideo, nil)

	assert.False(t, b.InitNowPlaying(pa, "a", media.Metadata{Title: "old"}))
	_, ok := b.NowPlaying()
	assert.False(t, ok)
}

func TestPositionInfo_Estimate(t *testing.T) {
	at := time.Unix(1000, 0)
	tests := []struct {
		name string
		info PositionInfo
		now  time.Time
		want time.Duration
	}{
		{"paused", PositionInfo{Position: 5 * time.Second, UpdatedAt: at}, at.Add(time.Second), 5 * time.Second},
		{"playing", PositionInfo{Position: 5 * time.Second, Playing: true, UpdatedAt: at}, at.Add(2 * time.Second), 7 * time.Second},
		{"clamped", PositionInfo{Position: 5 * time.Second, Duration: 6 * time.Second, Playing: true, UpdatedAt: at}, at.Add(time.Minute), 6 * time.Second},
		{"never updated", PositionInfo{Playing: true}, at, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.Estimate(tt.now))
		})
	}
}
