package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"petworld/internal/domain/pets"

	"golang.org/x/text/cases"
)

type petRepo struct {
	s *Store
}

func NewPetRepo(s *Store) pets.Repository {
	return &petRepo{s: s}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	return r.s.write(ctx, func(tx *txState) error {
		if _, exists := r.s.pets[p.ID]; exists {
			return errors.New("pet already exists")
		}
		r.s.pets[p.ID] = p
		tx.onRollback(func() { delete(r.s.pets, p.ID) })
		return nil
	})
}

// Update compara la revisión guardada con p.Revision y, si coincide, guarda p con revisión +1.
func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	return r.s.write(ctx, func(tx *txState) error {
		prev, exists := r.s.pets[p.ID]
		if !exists {
			return pets.ErrNotFound
		}
		if prev.Revision != p.Revision {
			return pets.ErrConflict
		}
		p.Revision++
		r.s.pets[p.ID] = p
		tx.onRollback(func() { r.s.pets[p.ID] = prev })
		return nil
	})
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	var (
		p  pets.Pet
		ok bool
	)
	r.s.read(ctx, func() { p, ok = r.s.pets[id] })
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) List(ctx context.Context, filter pets.ListFilter) ([]pets.Pet, error) {
	// Caser no es seguro entre goroutines: uno por llamada.
	fold := cases.Fold()
	wantType := fold.String(filter.Type)

	out := make([]pets.Pet, 0)
	r.s.read(ctx, func() {
		for _, p := range r.s.pets {
			if filter.OwnerUserID != "" && p.OwnerUserID != filter.OwnerUserID {
				continue
			}
			if filter.Type != "" && fold.String(p.Type) != wantType {
				continue
			}
			out = append(out, p)
		}
	})

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(tx *txState) error {
		prev, exists := r.s.pets[id]
		if !exists {
			return pets.ErrNotFound
		}
		delete(r.s.pets, id)
		tx.onRollback(func() { r.s.pets[id] = prev })
		return nil
	})
}
