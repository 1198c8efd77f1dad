package imageview

import (
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/gallery/internal/zoom"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestCrop(t *testing.T) {
	bounds := image.Rect(0, 0, 200, 100)
	tests := []struct {
		name string
		r    zoom.Rect
		want image.Rectangle
	}{
		{"whole", zoom.Rect{W: 1, H: 1}, bounds},
		{"centre half", zoom.Rect{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}, image.Rect(50, 25, 150, 75)},
		{"clipped", zoom.Rect{X: 0.75, Y: -0.25, W: 0.5, H: 0.5}, image.Rect(150, 0, 200, 25)},
		{"outside", zoom.Rect{X: 2, Y: 2, W: 0.5, H: 0.5}, image.Rect(0, 0, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Crop(bounds, tt.r))
		})
	}
}

func TestTransmit_Chunked(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.IntN(256))
	}

	cmd, err := transmit(img, 42)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(cmd, escStart+"a=t,f=100,i=42,q=2,"))
	assert.True(t, strings.HasSuffix(cmd, escEnd))
	chunks := strings.Count(cmd, escStart)
	assert.Greater(t, chunks, 1)
	assert.Equal(t, 1, strings.Count(cmd, "m=0;"), "only the last chunk ends the transfer")
}

func TestPlace(t *testing.T) {
	got := place(3, 2, 5, 10, 4)
	assert.Equal(t, "\x1b[s\x1b[2;5H"+escStart+"a=p,i=3,p=1,c=10,r=4,C=1,q=2;"+escEnd+"\x1b[u", got)
}

func TestBlank(t *testing.T) {
	assert.Equal(t, "   \n   ", Blank(3, 2))
	assert.Empty(t, Blank(0, 2))
}

func TestRenderer_RenderBeforeLoad(t *testing.T) {
	_, err := New().Render(zoom.Transform{Scale: 1}, 10, 5, 1, 1)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestRenderer_ReplacesOnlyChangedFrames(t *testing.T) {
	r := New()
	require.NoError(t, r.Load(writeTestPNG(t, 64, 32)))

	first, err := r.Render(zoom.Transform{Scale: 1}, 8, 2, 1, 1)
	require.NoError(t, err)
	assert.Contains(t, first, "a=t")
	assert.NotContains(t, first, "a=d", "nothing to delete yet")

	again, err := r.Render(zoom.Transform{Scale: 1}, 8, 2, 1, 1)
	require.NoError(t, err)
	assert.NotContains(t, again, "a=t")
	assert.Contains(t, again, "a=p")

	zoomed, err := r.Render(zoom.Transform{Scale: 2}, 8, 2, 1, 1)
	require.NoError(t, err)
	assert.Contains(t, zoomed, "a=d")
	assert.Contains(t, zoomed, "a=t")

	assert.Contains(t, r.Clear(), "a=d")
	assert.Empty(t, r.Clear())
}

func TestRenderer_LoadMissingFile(t *testing.T) {
	assert.Error(t, New().Load(filepath.Join(t.TempDir(), "missing.png")))
}

func TestRenderer_HideKeepsImage(t *testing.T) {
	r := New()
	require.NoError(t, r.Load(writeTestPNG(t, 64, 32)))
	assert.Empty(t, r.Hide(), "nothing placed yet")

	_, err := r.Render(zoom.Transform{Scale: 1}, 8, 2, 1, 1)
	require.NoError(t, err)

	assert.Contains(t, r.Hide(), "a=d")
	assert.Empty(t, r.Hide())

	shown, err := r.Render(zoom.Transform{Scale: 1}, 8, 2, 1, 1)
	require.NoError(t, err)
	assert.Contains(t, shown, "a=t", "hidden image is transmitted again")
}
