package postgres

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
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		in.ID,
		in.PetID,
		string(in.Kind),
		in.Magnitude,
		in.Description,
		in.OccurredAt,
		in.ActorUserID,
	)
	if isForeignKeyViolation(err) {
		return pets.ErrNotFound
	}
	return err
}

// ListByPet devuelve los filter.Limit más recientes (todos si Limit <= 0) en orden cronológico.
func (r *InteractionsRepo) ListByPet(ctx context.Context, petID string, filter pets.InteractionFilter) ([]pets.Interaction, error) {
	// LIMIT NULL = sin límite en Postgres
	var limit sql.NullInt64
	if filter.Limit > 0 {
		limit = sql.NullInt64{Int64: int64(filter.Limit), Valid: true}
	}

	rows, err := sqltx.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, pet_id, kind, magnitude, description, occurred_at, actor_user_id
		FROM (
			SELECT seq, id, pet_id, kind, magnitude, description, occurred_at, actor_user_id
			FROM pet_interactions
			WHERE pet_id = $1 AND ($2 = '' OR kind = $2)
			ORDER BY occurred_at DESC, seq DESC
			LIMIT $3
		) recent
		ORDER BY occurred_at ASC, seq ASC
	`, petID, string(filter.Kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Interaction, 0)
	for rows.Next() {
		var (
			in   pets.Interaction
			kind string
		)
		if err := rows.Scan(
			&in.ID,
			&in.PetID,
			&kind,
			&in.Magnitude,
			&in.Description,
			&in.OccurredAt,
			&in.ActorUserID,
		); err != nil {
			return nil, err
		}
		in.Kind = vitality.Kind(kind)
		in.OccurredAt = in.OccurredAt.UTC()
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *InteractionsRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := sqltx.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM pet_interactions WHERE pet_id = $1`, petID)
	return err
}
