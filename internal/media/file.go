package media

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dhowden/tag"
)

var extKinds = map[string]Kind{
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".webp": KindImage,
	".bmp":  KindImage,
	".gif":  KindAnimatedImage,
	".apng": KindAnimatedImage,
	".mp4":  KindVideo,
	".m4v":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".webm": KindVideo,
	".mp3":  KindAudio,
	".flac": KindAudio,
	".wav":  KindAudio,
	".ogg":  KindAudio,
	".m4a":  KindAudio,
	".opus": KindAudio,
}

// KindOf classifies a path by extension.
func KindOf(path string) (Kind, bool) {
	k, ok := extKinds[strings.ToLower(filepath.Ext(path))]
	return k, ok
}

// Verify FileItem implements Item at compile time.
var _ Item = (*FileItem)(nil)

// FileItem is a media item backed by a local file.
type FileItem struct {
	id      ID
	path    string
	kind    Kind
	size    int64
	modTime time.Time

	mu       sync.Mutex
	meta     *Metadata
	duration time.Duration
}

// NewFileItem stats the file and classifies it.
func NewFileItem(path string) (*FileItem, error) {
	kind, ok := KindOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotPlayable, filepath.Ext(path))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	return &FileItem{
		id:      fileID(abs),
		path:    abs,
		kind:    kind,
		size:    info.Size(),
		modTime: info.ModTime(),
	}, nil
}

func fileID(path string) ID {
	h := fnv.New64a()
	h.Write([]byte(path))
	return ID(fmt.Sprintf("%x", h.Sum64()))
}

func (f *FileItem) ID() ID             { return f.id }
func (f *FileItem) Kind() Kind         { return f.kind }
func (f *FileItem) Source() string     { return f.path }
func (f *FileItem) Name() string       { return filepath.Base(f.path) }
func (f *FileItem) Size() int64        { return f.size }
func (f *FileItem) ModTime() time.Time { return f.modTime }

// Duration decodes the stream header to measure the duration. Only audio
// formats with a decoder are measurable.
func (f *FileItem) Duration(ctx context.Context) (time.Duration, error) {
	f.mu.Lock()
	cached := f.duration
	f.mu.Unlock()
	if cached > 0 {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.kind != KindAudio || !IsDecodable(f.path) {
		return 0, ErrUnknownDuration
	}

	streamer, format, err := OpenAudio(f.path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	d := format.SampleRate.D(streamer.Len())
	if d <= 0 {
		return 0, ErrUnknownDuration
	}

	f.mu.Lock()
	f.duration = d
	f.mu.Unlock()
	return d, nil
}

// Metadata reads tags and artwork. Files without readable tags fall back to
// the file name as title.
func (f *FileItem) Metadata(ctx context.Context) (Metadata, error) {
	f.mu.Lock()
	if f.meta != nil {
		m := *f.meta
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		Title:       f.Name(),
		IsVideo:     f.kind == KindVideo,
		ArtworkPath: FindArtwork(f.path),
	}

	if f.kind.IsTimed() {
		// untagged files keep the file name
		_ = readTags(f.path, &meta)
		if d, err := f.Duration(ctx); err == nil {
			meta.Duration = d
		}
	}

	f.mu.Lock()
	f.meta = &meta
	f.mu.Unlock()
	return meta, nil
}

func readTags(path string, meta *Metadata) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	m, err := tag.ReadFrom(file)
	if err != nil {
		return err
	}

	if m.Title() != "" {
		meta.Title = m.Title()
	}
	meta.Artist = m.Artist()
	if meta.Artist == "" {
		meta.Artist = m.AlbumArtist()
	}
	meta.Album = m.Album()
	if pic := m.Picture(); pic != nil {
		meta.Artwork = pic.Data
		meta.ArtworkMIME = pic.MIMEType
	}
	return nil
}

// LocalCache treats items whose source is an existing local file as cached.
var LocalCache CacheChecker = CacheFunc(func(item Item) bool {
	src := item.Source()
	if strings.Contains(src, "://") && !strings.HasPrefix(src, "file://") {
		return false
	}
	_, err := os.Stat(strings.TrimPrefix(src, "file://"))
	return err == nil
})
