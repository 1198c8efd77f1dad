// internal/state/mock.go
package state

import (
	"database/sql"
	"sync"
	"time"

	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/playback"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu        sync.Mutex
	navState  *NavigationState
	volume    VolumeState
	positions map[media.ID]playback.Position
	saves     int
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{
		volume:    DefaultVolume,
		positions: make(map[media.ID]playback.Position),
	}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveNavigation(state NavigationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.navState = &state
}

func (m *Mock) GetNavigation() (*NavigationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.navState, nil
}

func (m *Mock) GetVolume() (*VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.volume
	return &v, nil
}

func (m *Mock) SaveVolume(volume float64, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = VolumeState{Volume: volume, Muted: muted}
	return nil
}

func (m *Mock) GetPosition(id media.ID) (playback.Position, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[id]
	return pos, ok, nil
}

func (m *Mock) SavePosition(id media.ID, pos playback.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[id] = pos
	m.saves++
}

func (m *Mock) DeletePosition(id media.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, id)
	return nil
}

func (m *Mock) PrunePositions(_ time.Time) (int64, error) {
	return 0, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Saves returns how many positions were saved.
func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
