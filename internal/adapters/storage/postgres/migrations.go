package postgres

import (
	"context"
	"database/sql"
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
    created_at  TIMESTAMPTZ NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "pets: perfil + escalares de vitalidad",
		SQL: `
CREATE TABLE pets (
    id                   TEXT PRIMARY KEY,
    owner_user_id        TEXT NOT NULL REFERENCES users(id),
    name                 TEXT NOT NULL,
    description          TEXT NOT NULL DEFAULT '',
    type                 TEXT NOT NULL DEFAULT '',
    image_url            TEXT NOT NULL DEFAULT '',

    hunger               INTEGER NOT NULL CHECK (hunger BETWEEN 0 AND 100),
    happiness            INTEGER NOT NULL CHECK (happiness BETWEEN 0 AND 100),
    health               INTEGER NOT NULL CHECK (health BETWEEN 0 AND 100),
    energy               INTEGER NOT NULL CHECK (energy BETWEEN 0 AND 100),

    last_interaction_at  TIMESTAMPTZ NOT NULL,
    decayed_at           TIMESTAMPTZ NOT NULL,
    created_at           TIMESTAMPTZ NOT NULL,
    updated_at           TIMESTAMPTZ NOT NULL,
    revision             BIGINT NOT NULL DEFAULT 1
);

CREATE INDEX idx_pets_owner ON pets(owner_user_id);
CREATE INDEX idx_pets_type  ON pets(lower(type));
`,
	},
	{
		Version:     3,
		Description: "pet_interactions: historial append-only",
		SQL: `
CREATE TABLE pet_interactions (
    seq            BIGSERIAL,
    id             TEXT PRIMARY KEY,
    pet_id         TEXT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
    kind           TEXT NOT NULL CHECK (kind IN ('FEED', 'PLAY', 'HEAL', 'PET', 'OTHER')),
    magnitude      INTEGER NOT NULL,
    description    TEXT NOT NULL,
    occurred_at    TIMESTAMPTZ NOT NULL,
    actor_user_id  TEXT NOT NULL
);

CREATE INDEX idx_interactions_pet_time ON pet_interactions(pet_id, occurred_at, seq);
`,
	},
}

// Migrate aplica las migraciones pendientes, cada una en su propia transacción.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_versions WHERE version = $1", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_versions (version, description) VALUES ($1, $2)",
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

// SchemaVersion devuelve la última migración aplicada (0 si ninguna).
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
