package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"petworld/internal/domain/pets"
)

type interactionRepo struct {
	s *Store
}

func NewInteractionRepo(s *Store) pets.InteractionRepository {
	return &interactionRepo{s: s}
}

// Append exige que la mascota exista, igual que la FK en los stores SQL.
func (r *interactionRepo) Append(ctx context.Context, in pets.Interaction) error {
	if strings.TrimSpace(in.ID) == "" {
		return errors.New("interaction id required")
	}
	return r.s.write(ctx, func(tx *txState) error {
		if _, ok := r.s.pets[in.PetID]; !ok {
			return pets.ErrNotFound
		}
		prev := r.s.interactions[in.PetID]
		n := len(prev)
		r.s.interactions[in.PetID] = append(prev, in)
		tx.onRollback(func() {
			if n == 0 {
				delete(r.s.interactions, in.PetID)
				return
			}
			r.s.interactions[in.PetID] = r.s.interactions[in.PetID][:n]
		})
		return nil
	})
}

func (r *interactionRepo) ListByPet(ctx context.Context, petID string, filter pets.InteractionFilter) ([]pets.Interaction, error) {
	out := make([]pets.Interaction, 0)
	r.s.read(ctx, func() {
		for _, in := range r.s.interactions[petID] {
			if filter.Kind != "" && in.Kind != filter.Kind {
				continue
			}
			out = append(out, in)
		}
	})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[len(out)-filter.Limit:]
	}
	return out, nil
}

func (r *interactionRepo) DeleteByPet(ctx context.Context, petID string) error {
	return r.s.write(ctx, func(tx *txState) error {
		prev, ok := r.s.interactions[petID]
		if !ok {
			return nil
		}
		delete(r.s.interactions, petID)
		tx.onRollback(func() { r.s.interactions[petID] = prev })
		return nil
	})
}
