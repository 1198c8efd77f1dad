package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSilentWAV(t *testing.T, path string, d time.Duration) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(format.SampleRate.N(d)), format))
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("fake"), 0o600))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		kind Kind
		ok   bool
	}{
		{"a.JPG", KindImage, true},
		{"b.gif", KindAnimatedImage, true},
		{"c.mp4", KindVideo, true},
		{"d.flac", KindAudio, true},
		{"e.txt", 0, false},
		{"noext", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, ok := KindOf(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.kind, kind)
			}
		})
	}
}

func TestKind_IsTimed(t *testing.T) {
	assert.True(t, KindVideo.IsTimed())
	assert.True(t, KindAudio.IsTimed())
	assert.False(t, KindImage.IsTimed())
	assert.False(t, KindAnimatedImage.IsTimed())
}

func TestNewFileItem_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, path)

	_, err := NewFileItem(path)
	assert.ErrorIs(t, err, ErrNotPlayable)
}

func TestFileItem_StableID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	writeFile(t, path)

	a, err := NewFileItem(path)
	require.NoError(t, err)
	b, err := NewFileItem(path)
	require.NoError(t, err)

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEmpty(t, a.ID())
}

func TestFileItem_ImageDurationUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	writeFile(t, path)
	item, err := NewFileItem(path)
	require.NoError(t, err)

	_, err = item.Duration(context.Background())
	assert.ErrorIs(t, err, ErrUnknownDuration)
}

func TestFileItem_AudioDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeSilentWAV(t, path, time.Second)
	item, err := NewFileItem(path)
	require.NoError(t, err)

	d, err := item.Duration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
}

func TestFileItem_DurationCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeSilentWAV(t, path, time.Second)
	item, err := NewFileItem(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = item.Duration(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFileItem_MetadataFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeSilentWAV(t, path, 2*time.Second)
	cover := filepath.Join(dir, "cover.jpg")
	writeFile(t, cover)

	item, err := NewFileItem(path)
	require.NoError(t, err)

	meta, err := item.Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tone.wav", meta.Title)
	assert.Equal(t, 2*time.Second, meta.Duration)
	assert.Equal(t, cover, meta.ArtworkPath)
	assert.False(t, meta.IsVideo)
}

func TestFileItem_VideoMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	writeFile(t, path)
	item, err := NewFileItem(path)
	require.NoError(t, err)

	meta, err := item.Metadata(context.Background())
	require.NoError(t, err)
	assert.True(t, meta.IsVideo)
	assert.Zero(t, meta.Duration)
}

func TestFindArtwork_Priority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "folder.jpg"))
	cover := filepath.Join(dir, "cover.jpg")
	writeFile(t, cover)

	assert.Equal(t, cover, FindArtwork(filepath.Join(dir, "track.mp3")))
}

func TestFindArtwork_NotFound(t *testing.T) {
	assert.Empty(t, FindArtwork(filepath.Join(t.TempDir(), "track.mp3")))
}

func TestLocalCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	writeFile(t, path)
	item, err := NewFileItem(path)
	require.NoError(t, err)

	assert.True(t, LocalCache.IsCached(item))

	require.NoError(t, os.Remove(path))
	assert.False(t, LocalCache.IsCached(item))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.jpg"))
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeSilentWAV(t, filepath.Join(dir, "a.wav"), time.Second)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755))

	items, err := Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a.wav", items[0].Name())
	assert.Equal(t, KindAudio, items[0].Kind())
	assert.Equal(t, "b.jpg", items[1].Name())
	assert.Equal(t, KindImage, items[1].Kind())
}

func TestScan_MissingDir(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestSkipID3v2(t *testing.T) {
	// "ID3" header declaring a 4-byte body, followed by "fLaC"
	data := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 4, 1, 2, 3, 4, 'f', 'L', 'a', 'C'}
	r := bytes.NewReader(data)

	require.NoError(t, skipID3v2(r))
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("fLaC"), rest)
}

func TestSkipID3v2_NoTag(t *testing.T) {
	data := []byte("fLaC0123456789")
	r := bytes.NewReader(data)

	require.NoError(t, skipID3v2(r))
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, rest)
}
