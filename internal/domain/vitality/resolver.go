package vitality

import (
	"errors"
	"strings"
)

var ErrUnknownKind = errors.New("unknown interaction kind")

// Kind es el tipo de interacción.
// @Enum FEED, PLAY, HEAL, PET, OTHER
type Kind string

const (
	KindFeed  Kind = "FEED"
	KindPlay  Kind = "PLAY"
	KindHeal  Kind = "HEAL"
	KindPet   Kind = "PET"
	KindOther Kind = "OTHER"
)

// Kinds lista los tipos soportados, en orden estable.
func Kinds() []Kind {
	return []Kind{KindFeed, KindPlay, KindHeal, KindPet, KindOther}
}

// ParseKind valida en el borde (HTTP/CLI). El motor en sí nunca rechaza un kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// Effect es el delta determinista de una interacción.
type Effect struct {
	Kind      Kind
	Delta     Vitals
	Magnitude int
	verb      string
}

// Describe arma la descripción que queda en el historial.
func (e Effect) Describe(petName string) string {
	return e.verb + " " + strings.TrimSpace(petName)
}

// Resolve mapea un kind a su efecto. Kinds desconocidos caen en OTHER.
func Resolve(k Kind) Effect {
	switch k {
	case KindFeed:
		return Effect{Kind: KindFeed, Delta: Vitals{Hunger: 30, Energy: 10}, Magnitude: 30, verb: "Alimentaste a"}
	case KindPlay:
		return Effect{Kind: KindPlay, Delta: Vitals{Hunger: -10, Happiness: 25, Energy: -20}, Magnitude: 25, verb: "Jugaste con"}
	case KindHeal:
		return Effect{Kind: KindHeal, Delta: Vitals{Health: 40}, Magnitude: 40, verb: "Curaste a"}
	case KindPet:
		return Effect{Kind: KindPet, Delta: Vitals{Happiness: 15}, Magnitude: 15, verb: "Acariciaste a"}
	default:
		return Effect{Kind: KindOther, Delta: Vitals{Happiness: 5}, Magnitude: 5, verb: "Interactuaste con"}
	}
}

// Apply suma el delta y acota cada escalar.
func (e Effect) Apply(v Vitals) Vitals {
	return Vitals{
		Hunger:    v.Hunger + e.Delta.Hunger,
		Happiness: v.Happiness + e.Delta.Happiness,
		Health:    v.Health + e.Delta.Health,
		Energy:    v.Energy + e.Delta.Energy,
	}.Clamped()
}
