package pets

import (
	"context"

	"petworld/internal/domain/users"
	"petworld/internal/domain/vitality"
)

// Repository es el PetStore.
// Update debe fallar con ErrConflict si la revisión guardada no coincide con
// p.Revision, y escribir p con revisión +1 si coincide.
type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, filter ListFilter) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Type        string
	OwnerUserID string
}

// InteractionRepository es el InteractionStore (append-only).
type InteractionRepository interface {
	Append(ctx context.Context, in Interaction) error
	ListByPet(ctx context.Context, petID string, filter InteractionFilter) ([]Interaction, error)
	DeleteByPet(ctx context.Context, petID string) error
}

// InteractionFilter: Kind vacío = todos; Limit <= 0 = sin límite.
// Con Limit se devuelven los N más recientes; el orden es siempre por OccurredAt ascendente.
type InteractionFilter struct {
	Kind  vitality.Kind
	Limit int
}

// UserDirectory resuelve el dueño al crear una mascota.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

// TxManager delimita la unidad atómica: todo lo que se escriba con el ctx
// recibido en fn se confirma junto o no se confirma.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noTx struct{}

func (noTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
