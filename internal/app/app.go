// Package app is the terminal gallery: a bubbletea model that browses the
// items of a folder, shows still images with zoom and pan, and plays audio
// items through playback sessions.
package app

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/gallery/internal/bridge"
	"github.com/llehouerou/gallery/internal/config"
	"github.com/llehouerou/gallery/internal/keymap"
	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/mpris"
	"github.com/llehouerou/gallery/internal/playback"
	"github.com/llehouerou/gallery/internal/player"
	"github.com/llehouerou/gallery/internal/state"
	"github.com/llehouerou/gallery/internal/ui/helpbindings"
	"github.com/llehouerou/gallery/internal/ui/imageview"
	"github.com/llehouerou/gallery/internal/ui/styles"
	"github.com/llehouerou/gallery/internal/zoom"
)

var errNotRunning = errors.New("gallery is not running")

// Transport is a player the gallery can load files into and close.
type Transport interface {
	player.Interface
	Load(item media.ID, path string) error
	Close() error
}

var _ Transport = (*player.AudioPlayer)(nil)

// Deps are the collaborators of the model.
type Deps struct {
	Config *config.Config
	// State persists navigation, volume and positions. Optional.
	State state.Interface
	// Bridge exposes playback to external controls. Optional.
	Bridge *bridge.Bridge
	// NewPlayer creates the transport of one audio item. Defaults to the
	// audio player.
	NewPlayer func() Transport
	// Folder overrides the saved and configured folder.
	Folder string
	// Images enables inline images; only set when the terminal supports
	// the graphics protocol.
	Images bool
}

// entry is a live session for one item near the cursor.
type entry struct {
	session *playback.Session
	player  Transport
	meta    media.Metadata
	hasMeta bool
}

// Model is the root application model.
type Model struct {
	cfg       *config.Config
	store     state.Interface
	bridge    *bridge.Bridge
	link      *link
	keys      *keymap.Resolver
	newPlayer func() Transport
	log       zerolog.Logger

	folder      string
	restoreName string
	items       []*media.FileItem
	cursor      int
	scanning    bool

	sessions    map[media.ID]*entry
	memBindings map[media.ID]*playback.MemoryBinding

	zoom      *zoom.Controller
	images    *imageview.Renderer
	animating bool

	slideshow    bool
	slideVersion int
	loops        int

	volume float64
	muted  bool

	spinner       spinner.Model
	status        string
	statusVersion int
	help          helpbindings.Model
	showHelp      bool
	width         int
	height        int
}

// New creates the model. The folder is, in order: deps.Folder, the saved
// navigation, the configured default folder, the working directory.
func New(deps Deps) (Model, error) {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	folder := deps.Folder
	var restoreName string
	if deps.State != nil {
		if nav, err := deps.State.GetNavigation(); err == nil && nav != nil {
			if folder == "" || samePath(folder, nav.CurrentPath) {
				if _, statErr := os.Stat(nav.CurrentPath); statErr == nil {
					folder = nav.CurrentPath
					restoreName = nav.SelectedName
				}
			}
		}
	}
	if folder == "" {
		folder = cfg.DefaultFolder
	}
	if folder == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Model{}, err
		}
		folder = wd
	}

	volume, muted := 1.0, false
	if deps.State != nil {
		if vol, err := deps.State.GetVolume(); err == nil && vol != nil {
			volume, muted = vol.Volume, vol.Muted
		}
	}

	newPlayer := deps.NewPlayer
	if newPlayer == nil {
		newPlayer = func() Transport { return player.NewAudioPlayer() }
	}

	zc := cfg.GetZoomConfig()
	controller := zoom.New(zoom.Config{
		MinScale:       zc.MinScale,
		MaxScale:       zc.MaxScale,
		DoubleTapScale: zc.DoubleTapScale,
	}).WithAnimator(zoom.NewAnimator(zoom.DefaultFPS))

	m := Model{
		cfg:         cfg,
		store:       deps.State,
		bridge:      deps.Bridge,
		link:        newLink(),
		keys:        keymap.NewResolver(keymap.All),
		newPlayer:   newPlayer,
		log:         log.WithComponent("app"),
		folder:      folder,
		restoreName: restoreName,
		scanning:    true,
		sessions:    make(map[media.ID]*entry),
		memBindings: make(map[media.ID]*playback.MemoryBinding),
		zoom:        controller,
		volume:      volume,
		muted:       muted,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.T().S().Accent),
		),
		help: helpbindings.New(),
	}
	if deps.Images {
		m.images = imageview.New()
	}
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(ScanCmd(m.folder), m.spinner.Tick)
}

// Attach connects the model to its running program. Callbacks posted by
// sessions and external navigation are delivered through send.
func (m Model) Attach(send func(tea.Msg)) {
	m.link.attach(send)
}

// Navigator returns the next/previous surface for external controls.
func (m Model) Navigator() mpris.Navigator {
	return m.link
}

// Folder returns the folder being browsed.
func (m Model) Folder() string {
	return m.folder
}

// Close tears down every session and closes its player. Call it with the
// final model once the program has exited.
func (m Model) Close() {
	for id, e := range m.sessions {
		e.session.Teardown()
		if err := e.player.Close(); err != nil {
			m.log.Debug().Err(err).Str(log.FieldMediaID, string(id)).Msg("close player")
		}
		delete(m.sessions, id)
	}
}

func samePath(a, b string) bool {
	ca, errA := filepath.Abs(a)
	cb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && filepath.Clean(ca) == filepath.Clean(cb)
}
