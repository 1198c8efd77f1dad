package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS navigation_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_path TEXT NOT NULL,
			selected_name TEXT
		);

		CREATE TABLE IF NOT EXISTS player_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			volume REAL NOT NULL DEFAULT 1.0,
			muted INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS playback_positions (
			media_id TEXT PRIMARY KEY,
			position_ms INTEGER NOT NULL,
			reached_end INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_positions_updated_at ON playback_positions(updated_at);
	`)
	if err != nil {
		return err
	}

	var version int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return err
	}
	if version < currentSchemaVersion {
		_, err = db.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
	}
	return err
}
