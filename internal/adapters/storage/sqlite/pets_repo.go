package sqlite

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
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		p.ID, p.OwnerUserID,
		p.Name, p.Description, p.Type, p.ImageURL,
		p.Vitals.Hunger, p.Vitals.Happiness, p.Vitals.Health, p.Vitals.Energy,
		toNanos(p.LastInteractionAt), toNanos(p.DecayedAt), toNanos(p.CreatedAt), toNanos(p.UpdatedAt),
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
			name = ?, description = ?, type = ?, image_url = ?,
			hunger = ?, happiness = ?, health = ?, energy = ?,
			last_interaction_at = ?, decayed_at = ?, updated_at = ?,
			revision = revision + 1
		WHERE id = ? AND revision = ?
	`,
		p.Name, p.Description, p.Type, p.ImageURL,
		p.Vitals.Hunger, p.Vitals.Happiness, p.Vitals.Health, p.Vitals.Energy,
		toNanos(p.LastInteractionAt), toNanos(p.DecayedAt), toNanos(p.UpdatedAt),
		p.ID, p.Revision,
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

	var count int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM pets WHERE id = ?`, p.ID).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return pets.ErrNotFound
	}
	return pets.ErrConflict
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := sqltx.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id)
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
		WHERE (? = '' OR owner_user_id = ?)
		  AND (? = '' OR type = ? COLLATE NOCASE)
		ORDER BY created_at ASC, id ASC
	`, filter.OwnerUserID, filter.OwnerUserID, filter.Type, filter.Type)
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
	res, err := sqltx.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
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
	var (
		p                                          pets.Pet
		lastInteraction, decayed, created, updated int64
	)
	err := row.Scan(
		&p.ID, &p.OwnerUserID,
		&p.Name, &p.Description, &p.Type, &p.ImageURL,
		&p.Vitals.Hunger, &p.Vitals.Happiness, &p.Vitals.Health, &p.Vitals.Energy,
		&lastInteraction, &decayed, &created, &updated,
		&p.Revision,
	)
	if err != nil {
		return pets.Pet{}, err
	}
	p.LastInteractionAt = fromNanos(lastInteraction)
	p.DecayedAt = fromNanos(decayed)
	p.CreatedAt = fromNanos(created)
	p.UpdatedAt = fromNanos(updated)
	return p, nil
}
