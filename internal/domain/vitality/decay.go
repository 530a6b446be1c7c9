package vitality

import "time"

// Tasas por hora transcurrida sin interacción.
const (
	HungerDecayPerHour    = 5
	HappinessDecayPerHour = 3
	EnergyRecoveryPerHour = 2

	// Penalizaciones de salud (independientes y acumulables).
	StarvingThreshold       = 30
	StarvingHealthPerHour   = 2
	SadThreshold            = 20
	SadHealthPenaltyPerHour = 1
)

// State es lo mínimo que necesita el cálculo de decay.
type State struct {
	Vitals Vitals

	CreatedAt         time.Time
	LastInteractionAt time.Time

	// DecayedAt es hasta dónde ya se aplicó decay. Zero = nunca se reconcilió.
	DecayedAt time.Time
}

// Reference devuelve el instante desde el cual se mide el tiempo transcurrido:
// checkpoint de decay, si no la última interacción, si no la creación.
func (s State) Reference() time.Time {
	ref := s.CreatedAt
	if s.LastInteractionAt.After(ref) {
		ref = s.LastInteractionAt
	}
	if s.DecayedAt.After(ref) {
		ref = s.DecayedAt
	}
	return ref
}

// ElapsedHours son las horas completas (floor) entre la referencia y now.
// Negativo o cero si el reloj va por detrás (skew).
func ElapsedHours(s State, now time.Time) int64 {
	ref := s.Reference()
	if ref.IsZero() {
		return 0
	}
	return int64(now.Sub(ref) / time.Hour)
}

// Reconcile aplica el decay por las horas completas transcurridas hasta now.
// Es pura: no toca s. Devuelve las horas aplicadas; 0 significa que no hubo cambios.
//
// El checkpoint avanza exactamente las horas aplicadas (se conserva el resto
// sub-hora), así que reconciliar dos veces con el mismo now es idempotente.
func Reconcile(s State, now time.Time) (State, int64) {
	h := ElapsedHours(s, now)
	if h <= 0 {
		return s, 0
	}

	v := s.Vitals
	next := v

	next.Hunger = clamp64(int64(v.Hunger) - HungerDecayPerHour*h)
	next.Happiness = clamp64(int64(v.Happiness) - HappinessDecayPerHour*h)
	next.Energy = clamp64(int64(v.Energy) + EnergyRecoveryPerHour*h)

	health := int64(v.Health)
	if next.Hunger < StarvingThreshold {
		health -= StarvingHealthPerHour * h
	}
	if next.Happiness < SadThreshold {
		health -= SadHealthPenaltyPerHour * h
	}
	next.Health = clamp64(health)

	out := s
	out.Vitals = next
	out.DecayedAt = s.Reference().Add(time.Duration(h) * time.Hour)
	return out, h
}
