package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"petworld/internal/adapters/storage/sqltx"
	"petworld/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_user_id,
	name, description, type, image_url,
	hunger, happiness, health, energy,
	last_interaction_at, decayed_at, created_at, updated_at,
	revision`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := sqltx.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.Description,
		p.Type,
		p.ImageURL,
		p.Vitals.Hunger,
		p.Vitals.Happiness,
		p.Vitals.Health,
		p.Vitals.Energy,
		p.LastInteractionAt,
		p.DecayedAt,
		p.CreatedAt,
		p.UpdatedAt,
		p.Revision,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("owner %s: %w", p.OwnerUserID, pets.ErrOwnerNotFound)
	}
	return err
}

// Update escribe solo si la revisión guardada es p.Revision (compare-and-swap).
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	conn := sqltx.Conn(ctx, r.db)
	res, err := conn.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $3,
			description = $4,
			type = $5,
			image_url = $6,
			hunger = $7,
			happiness = $8,
			health = $9,
			energy = $10,
			last_interaction_at = $11,
			decayed_at = $12,
			updated_at = $13,
			revision = revision + 1
		WHERE id = $1 AND revision = $2
	`,
		p.ID,
		p.Revision,
		p.Name,
		p.Description,
		p.Type,
		p.ImageURL,
		p.Vitals.Hunger,
		p.Vitals.Happiness,
		p.Vitals.Health,
		p.Vitals.Energy,
		p.LastInteractionAt,
		p.DecayedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// 0 filas: o no existe o la revisión cambió
	var exists bool
	if err := conn.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pets WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return pets.ErrNotFound
	}
	return pets.ErrConflict
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := sqltx.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) List(ctx context.Context, filter pets.ListFilter) ([]pets.Pet, error) {
	rows, err := sqltx.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE ($1 = '' OR owner_user_id = $1)
		  AND ($2 = '' OR lower(type) = lower($2))
		ORDER BY created_at ASC, id ASC
	`, filter.OwnerUserID, filter.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := sqltx.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Description,
		&p.Type,
		&p.ImageURL,
		&p.Vitals.Hunger,
		&p.Vitals.Happiness,
		&p.Vitals.Health,
		&p.Vitals.Energy,
		&p.LastInteractionAt,
		&p.DecayedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Revision,
	)
	if err != nil {
		return pets.Pet{}, err
	}
	p.LastInteractionAt = p.LastInteractionAt.UTC()
	p.DecayedAt = p.DecayedAt.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
