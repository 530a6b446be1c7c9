package sqlite

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "users: dueños de mascotas",
		SQL: `
CREATE TABLE users (
    id          TEXT PRIMARY KEY,
    username    TEXT NOT NULL UNIQUE,
    email       TEXT NOT NULL DEFAULT '',
    created_at  INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "pets: perfil + escalares de vitalidad",
		SQL: `
CREATE TABLE pets (
    id                   TEXT PRIMARY KEY,
    owner_user_id        TEXT NOT NULL,
    name                 TEXT NOT NULL,
    description          TEXT NOT NULL DEFAULT '',
    type                 TEXT NOT NULL DEFAULT '',
    image_url            TEXT NOT NULL DEFAULT '',

    hunger               INTEGER NOT NULL CHECK (hunger BETWEEN 0 AND 100),
    happiness            INTEGER NOT NULL CHECK (happiness BETWEEN 0 AND 100),
    health               INTEGER NOT NULL CHECK (health BETWEEN 0 AND 100),
    energy               INTEGER NOT NULL CHECK (energy BETWEEN 0 AND 100),

    last_interaction_at  INTEGER NOT NULL,
    decayed_at           INTEGER NOT NULL,
    created_at           INTEGER NOT NULL,
    updated_at           INTEGER NOT NULL,
    revision             INTEGER NOT NULL DEFAULT 1,

    FOREIGN KEY (owner_user_id) REFERENCES users(id)
);

CREATE INDEX idx_pets_owner ON pets(owner_user_id);
CREATE INDEX idx_pets_type  ON pets(type COLLATE NOCASE);
`,
	},
	{
		Version:     3,
		Description: "pet_interactions: historial append-only",
		SQL: `
CREATE TABLE pet_interactions (
    seq            INTEGER PRIMARY KEY AUTOINCREMENT,
    id             TEXT NOT NULL UNIQUE,
    pet_id         TEXT NOT NULL,
    kind           TEXT NOT NULL CHECK (kind IN ('FEED', 'PLAY', 'HEAL', 'PET', 'OTHER')),
    magnitude      INTEGER NOT NULL,
    description    TEXT NOT NULL,
    occurred_at    INTEGER NOT NULL,
    actor_user_id  TEXT NOT NULL,

    FOREIGN KEY (pet_id) REFERENCES pets(id) ON DELETE CASCADE
);

CREATE INDEX idx_interactions_pet_time ON pet_interactions(pet_id, occurred_at, seq);
`,
	},
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// SchemaVersion devuelve la última migración aplicada.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
