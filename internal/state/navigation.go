package state

import (
	"database/sql"
	"errors"
	"time"
)

// NavigationState is where the gallery was last browsing.
type NavigationState struct {
	CurrentPath  string
	SelectedName string
}

// GetNavigation returns the saved navigation, or nil on first run.
func (m *Manager) GetNavigation() (*NavigationState, error) {
	return getNavigation(m.db)
}

// SaveNavigation saves the navigation after a short quiet period; only the
// latest state of a burst is written.
func (m *Manager) SaveNavigation(state NavigationState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &state

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			if err := saveNavigation(m.db, *pending); err != nil {
				m.log.Warn().Err(err).Msg("save navigation")
			}
		}
	})
}

func getNavigation(db *sql.DB) (*NavigationState, error) {
	row := db.QueryRow(`SELECT current_path, selected_name FROM navigation_state WHERE id = 1`)

	var state NavigationState
	var selectedName sql.NullString
	err := row.Scan(&state.CurrentPath, &selectedName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}
	if selectedName.Valid {
		state.SelectedName = selectedName.String
	}
	return &state, nil
}

func saveNavigation(db *sql.DB, state NavigationState) error {
	_, err := db.Exec(`
		INSERT INTO navigation_state (id, current_path, selected_name)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_path = excluded.current_path,
			selected_name = excluded.selected_name
	`, state.CurrentPath, state.SelectedName)
	return err
}
