package sqlite

import (
	"context"
	"database/sql"

	"petworld/internal/adapters/storage/sqltx"
	"petworld/internal/domain/pets"
	"petworld/internal/domain/vitality"
)

type InteractionsRepo struct {
	db *sql.DB
}

func NewInteractionsRepo(db *sql.DB) *InteractionsRepo {
	return &InteractionsRepo{db: db}
}

func (r *InteractionsRepo) Append(ctx context.Context, in pets.Interaction) error {
	_, err := sqltx.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO pet_interactions (
			id, pet_id, kind, magnitude, description, occurred_at, actor_user_id
		) VALUES (?,?,?,?,?,?,?)
	`,
		in.ID, in.PetID, string(in.Kind), in.Magnitude, in.Description,
		toNanos(in.OccurredAt), in.ActorUserID,
	)
	if isForeignKeyViolation(err) {
		return pets.ErrNotFound
	}
	return err
}

// ListByPet devuelve los filter.Limit más recientes (todos si Limit <= 0) en orden cronológico.
func (r *InteractionsRepo) ListByPet(ctx context.Context, petID string, filter pets.InteractionFilter) ([]pets.Interaction, error) {
	limit := int64(-1) // LIMIT -1 = sin límite en SQLite
	if filter.Limit > 0 {
		limit = int64(filter.Limit)
	}

	rows, err := sqltx.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, pet_id, kind, magnitude, description, occurred_at, actor_user_id
		FROM (
			SELECT seq, id, pet_id, kind, magnitude, description, occurred_at, actor_user_id
			FROM pet_interactions
			WHERE pet_id = ? AND (? = '' OR kind = ?)
			ORDER BY occurred_at DESC, seq DESC
			LIMIT ?
		)
		ORDER BY occurred_at ASC, seq ASC
	`, petID, string(filter.Kind), string(filter.Kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Interaction, 0)
	for rows.Next() {
		var (
			in       pets.Interaction
			kind     string
			occurred int64
		)
		if err := rows.Scan(&in.ID, &in.PetID, &kind, &in.Magnitude, &in.Description, &occurred, &in.ActorUserID); err != nil {
			return nil, err
		}
		in.Kind = vitality.Kind(kind)
		in.OccurredAt = fromNanos(occurred)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *InteractionsRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := sqltx.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM pet_interactions WHERE pet_id = ?`, petID)
	return err
}
