package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"petworld/internal/domain/pets"
	"petworld/internal/domain/users"
	"petworld/internal/domain/vitality"
)

var t0 = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

func seedPet(t *testing.T, repo pets.Repository, id string) pets.Pet {
	t.Helper()
	p := pets.Pet{
		ID:          id,
		OwnerUserID: "owner-1",
		Name:        "Milo",
		Type:        "Dog",
		Vitals:      vitality.Full(),
		CreatedAt:   t0,
		UpdatedAt:   t0,
		Revision:    1,
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func TestPetRepo_UpdateChecksRevision(t *testing.T) {
	st := NewStore()
	repo := NewPetRepo(st)
	p := seedPet(t, repo, "p1")

	p.Name = "Milo II"
	if err := repo.Update(context.Background(), p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.GetByID(context.Background(), "p1")
	if got.Revision != 2 || got.Name != "Milo II" {
		t.Fatalf("unexpected stored pet %+v", got)
	}

	// p todavía tiene Revision 1: otro escritor ganó.
	if err := repo.Update(context.Background(), p); !errors.Is(err, pets.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := repo.Update(context.Background(), pets.Pet{ID: "missing"}); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPetRepo_ListFilters(t *testing.T) {
	st := NewStore()
	repo := NewPetRepo(st)
	seedPet(t, repo, "p1")
	cat := pets.Pet{ID: "p2", OwnerUserID: "owner-2", Name: "Luna", Type: "Cat", CreatedAt: t0.Add(time.Minute), Revision: 1}
	if err := repo.Create(context.Background(), cat); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, _ := repo.List(context.Background(), pets.ListFilter{})
	if len(all) != 2 || all[0].ID != "p1" {
		t.Fatalf("unexpected list %+v", all)
	}
	cats, _ := repo.List(context.Background(), pets.ListFilter{Type: "cat"})
	if len(cats) != 1 || cats[0].ID != "p2" {
		t.Fatalf("unexpected type filter %+v", cats)
	}
	mine, _ := repo.List(context.Background(), pets.ListFilter{OwnerUserID: "owner-1"})
	if len(mine) != 1 || mine[0].ID != "p1" {
		t.Fatalf("unexpected owner filter %+v", mine)
	}
}

func TestInteractionRepo_OrderKindAndLimit(t *testing.T) {
	st := NewStore()
	seedPet(t, NewPetRepo(st), "p1")
	repo := NewInteractionRepo(st)

	kinds := []vitality.Kind{vitality.KindPlay, vitality.KindFeed, vitality.KindFeed}
	// se insertan fuera de orden cronológico
	offsets := []time.Duration{2 * time.Hour, 0, time.Hour}
	for i, k := range kinds {
		err := repo.Append(context.Background(), pets.Interaction{
			ID: string(rune('a' + i)), PetID: "p1", Kind: k, OccurredAt: t0.Add(offsets[i]),
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, _ := repo.ListByPet(context.Background(), "p1", pets.InteractionFilter{})
	if len(all) != 3 || all[0].ID != "b" || all[1].ID != "c" || all[2].ID != "a" {
		t.Fatalf("expected chronological order, got %+v", all)
	}

	feeds, _ := repo.ListByPet(context.Background(), "p1", pets.InteractionFilter{Kind: vitality.KindFeed})
	if len(feeds) != 2 {
		t.Fatalf("expected 2 FEED, got %d", len(feeds))
	}

	last, _ := repo.ListByPet(context.Background(), "p1", pets.InteractionFilter{Limit: 1})
	if len(last) != 1 || last[0].ID != "a" {
		t.Fatalf("expected most recent interaction, got %+v", last)
	}

	if err := repo.Append(context.Background(), pets.Interaction{ID: "x", PetID: "missing"}); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown pet, got %v", err)
	}
}

func TestStore_RunInTx_RollsBackOnError(t *testing.T) {
	st := NewStore()
	petRepo := NewPetRepo(st)
	interRepo := NewInteractionRepo(st)
	p := seedPet(t, petRepo, "p1")

	boom := errors.New("boom")
	err := st.RunInTx(context.Background(), func(ctx context.Context) error {
		p.Vitals.Hunger = 10
		if err := petRepo.Update(ctx, p); err != nil {
			return err
		}
		if err := interRepo.Append(ctx, pets.Interaction{ID: "i1", PetID: "p1", OccurredAt: t0}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := petRepo.GetByID(context.Background(), "p1")
	if got.Vitals.Hunger != 100 || got.Revision != 1 {
		t.Fatalf("pet not rolled back: %+v", got)
	}
	items, _ := interRepo.ListByPet(context.Background(), "p1", pets.InteractionFilter{})
	if len(items) != 0 {
		t.Fatalf("interaction not rolled back: %+v", items)
	}
}

func TestStore_RunInTx_CommitsCascadeDelete(t *testing.T) {
	st := NewStore()
	petRepo := NewPetRepo(st)
	interRepo := NewInteractionRepo(st)
	seedPet(t, petRepo, "p1")
	if err := interRepo.Append(context.Background(), pets.Interaction{ID: "i1", PetID: "p1", OccurredAt: t0}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	err := st.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := interRepo.DeleteByPet(ctx, "p1"); err != nil {
			return err
		}
		return petRepo.Delete(ctx, "p1")
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}
	if _, err := petRepo.GetByID(context.Background(), "p1"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected pet deleted, got %v", err)
	}
	items, _ := interRepo.ListByPet(context.Background(), "p1", pets.InteractionFilter{})
	if len(items) != 0 {
		t.Fatalf("expected no interactions, got %d", len(items))
	}
}

func TestUserRepo(t *testing.T) {
	repo := NewUserRepo(NewStore())
	u := users.User{ID: "u1", Username: "ana", CreatedAt: t0}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(context.Background(), users.User{ID: "u2", Username: "ana"}); !errors.Is(err, users.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if got, err := repo.GetByUsername(context.Background(), "ana"); err != nil || got.ID != "u1" {
		t.Fatalf("GetByUsername: %+v err=%v", got, err)
	}
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
