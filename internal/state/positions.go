package state

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/playback"
)

// GetPosition returns the saved position of id. Unsaved writes are seen.
func (m *Manager) GetPosition(id media.ID) (playback.Position, bool, error) {
	m.posMu.Lock()
	pos, ok := m.posPending[id]
	m.posMu.Unlock()
	if ok {
		return pos, true, nil
	}

	var ms int64
	var reachedEnd bool
	err := m.db.QueryRow(`
		SELECT position_ms, reached_end FROM playback_positions WHERE media_id = ?
	`, string(id)).Scan(&ms, &reachedEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return playback.Position{}, false, nil
	}
	if err != nil {
		return playback.Position{}, false, err
	}
	return playback.Position{
		Elapsed:    time.Duration(ms) * time.Millisecond,
		ReachedEnd: reachedEnd,
	}, true, nil
}

// SavePosition queues pos for id. Queued positions are written together at
// most once per debounce period, so per-tick saves stay cheap.
func (m *Manager) SavePosition(id media.ID, pos playback.Position) {
	m.posMu.Lock()
	defer m.posMu.Unlock()

	m.posPending[id] = pos
	if m.posTimer != nil {
		return
	}
	m.posTimer = time.AfterFunc(saveDebounce, func() {
		m.posMu.Lock()
		m.posTimer = nil
		m.posMu.Unlock()

		if err := m.flushPositions(); err != nil {
			m.log.Warn().Err(err).Msg("save positions")
		}
	})
}

// DeletePosition forgets the position of id.
func (m *Manager) DeletePosition(id media.ID) error {
	m.posMu.Lock()
	delete(m.posPending, id)
	m.posMu.Unlock()

	_, err := m.db.Exec(`DELETE FROM playback_positions WHERE media_id = ?`, string(id))
	return err
}

// PrunePositions deletes positions not updated since before.
func (m *Manager) PrunePositions(before time.Time) (int64, error) {
	res, err := m.db.Exec(`DELETE FROM playback_positions WHERE updated_at < ?`, before.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (m *Manager) flushPositions() error {
	m.posMu.Lock()
	batch := m.posPending
	m.posPending = make(map[media.ID]playback.Position)
	m.posMu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	now := time.Now().Unix()
	err := withTx(m.db, func(tx *sql.Tx) error {
		for id, pos := range batch {
			_, err := tx.Exec(`
				INSERT INTO playback_positions (media_id, position_ms, reached_end, updated_at)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(media_id) DO UPDATE SET
					position_ms = excluded.position_ms,
					reached_end = excluded.reached_end,
					updated_at = excluded.updated_at
			`, string(id), pos.Elapsed.Milliseconds(), pos.ReachedEnd, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Requeue what was not superseded meanwhile.
		m.posMu.Lock()
		for id, pos := range batch {
			if _, ok := m.posPending[id]; !ok {
				m.posPending[id] = pos
			}
		}
		m.posMu.Unlock()
		return err
	}
	m.log.Debug().Int("count", len(batch)).Msg("positions saved")
	return nil
}

// positionBinding persists a session's position through the manager.
type positionBinding struct {
	store PositionStore
	id    media.ID

	mu  sync.Mutex
	pos playback.Position
}

// PositionStore is the subset of Interface a binding needs.
type PositionStore interface {
	GetPosition(id media.ID) (playback.Position, bool, error)
	SavePosition(id media.ID, pos playback.Position)
}

// NewBinding returns a playback binding for id backed by store. The saved
// position is read once; later loads are served from memory.
func NewBinding(store PositionStore, id media.ID) playback.Binding {
	pos, _, err := store.GetPosition(id)
	if err != nil {
		l := log.WithComponent("state")
		l.Warn().Err(err).
			Str(log.FieldMediaID, string(id)).
			Msg("load position")
		pos = playback.Position{}
	}
	return &positionBinding{store: store, id: id, pos: pos}
}

func (b *positionBinding) Load() playback.Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pos
}

func (b *positionBinding) Store(pos playback.Position) {
	b.mu.Lock()
	b.pos = pos
	b.mu.Unlock()
	b.store.SavePosition(b.id, pos)
}
