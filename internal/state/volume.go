package state

import (
	"database/sql"
	"errors"

	"github.com/samber/lo"
)

// VolumeState is the output level shared by every audio session.
type VolumeState struct {
	Volume float64 // 0 to 1
	Muted  bool
}

// DefaultVolume is used until a level has been saved.
var DefaultVolume = VolumeState{Volume: 1}

// GetVolume returns the saved level, or DefaultVolume on first run. Stored
// levels outside 0..1 are clamped.
func (m *Manager) GetVolume() (*VolumeState, error) {
	v := DefaultVolume
	err := m.db.QueryRow(`SELECT volume, muted FROM player_state WHERE id = 1`).
		Scan(&v.Volume, &v.Muted)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		v = DefaultVolume
	case err != nil:
		return nil, err
	}
	v.Volume = lo.Clamp(v.Volume, 0, 1)
	return &v, nil
}

// SaveVolume stores the level and mute flag.
func (m *Manager) SaveVolume(volume float64, muted bool) error {
	_, err := m.db.Exec(`
		INSERT INTO player_state (id, volume, muted) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET volume = excluded.volume, muted = excluded.muted`,
		lo.Clamp(volume, 0, 1), muted)
	return err
}
