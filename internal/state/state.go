// Package state persists gallery state in SQLite: navigation, player
// volume and per-item playback positions.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/playback"
)

const (
	appName      = "gallery"
	dbFileName   = "gallery.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db  *sql.DB
	log zerolog.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *NavigationState

	posMu      sync.Mutex
	posTimer   *time.Timer
	posPending map[media.ID]playback.Position
}

// Open opens the database under the XDG data directory.
func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens the database at path. ":memory:" gives a private
// in-memory database.
func OpenPath(path string) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Each connection would get its own database.
		db.SetMaxOpenConns(1)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Manager{
		db:         db,
		log:        log.WithComponent("state"),
		posPending: make(map[media.ID]playback.Position),
	}, nil
}

// Close flushes pending writes and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending state
	if pending != nil {
		if err := saveNavigation(m.db, *pending); err != nil {
			m.log.Warn().Err(err).Msg("flush navigation")
		}
	}

	m.posMu.Lock()
	if m.posTimer != nil {
		m.posTimer.Stop()
		m.posTimer = nil
	}
	m.posMu.Unlock()
	if err := m.flushPositions(); err != nil {
		m.log.Warn().Err(err).Msg("flush positions")
	}

	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// withTx executes fn within a transaction, rolling back on error.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
