package pets

import (
	"time"

	"petworld/internal/domain/vitality"
)

// Pet representa una mascota virtual con sus escalares de vitalidad.
type Pet struct {
	ID          string
	OwnerUserID string

	// Perfil: strings opacos, no se validan más allá de Name.
	Name        string
	Description string
	Type        string // perro, gato, Pokémon, etc. (normalizado)
	ImageURL    string

	Vitals vitality.Vitals

	LastInteractionAt time.Time
	// DecayedAt es el checkpoint hasta el cual ya se aplicó decay.
	DecayedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Revision es el contador de concurrencia optimista. Cada Update exitoso lo incrementa.
	Revision int64
}

func (p Pet) state() vitality.State {
	return vitality.State{
		Vitals:            p.Vitals,
		CreatedAt:         p.CreatedAt,
		LastInteractionAt: p.LastInteractionAt,
		DecayedAt:         p.DecayedAt,
	}
}

func (p Pet) withState(s vitality.State) Pet {
	p.Vitals = s.Vitals
	p.LastInteractionAt = s.LastInteractionAt
	p.DecayedAt = s.DecayedAt
	return p
}

// Interaction es un registro inmutable del historial de la mascota.
type Interaction struct {
	ID    string
	PetID string

	Kind        vitality.Kind
	Magnitude   int
	Description string

	OccurredAt  time.Time
	ActorUserID string
}

// CreatedEvent es el hecho "mascota creada" que reciben los observers.
type CreatedEvent struct {
	PetID       string
	Name        string
	Type        string
	OwnerUserID string
	OccurredAt  time.Time
}
