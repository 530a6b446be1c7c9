package vitality

import (
	"errors"
	"fmt"
)

const (
	Min = 0
	Max = 100
)

var ErrOutOfRange = errors.New("vitality out of range")

// Vitals son los cuatro escalares de bienestar de una mascota, siempre en [0,100].
type Vitals struct {
	Hunger    int
	Happiness int
	Health    int
	Energy    int
}

// Full es el estado inicial de una mascota recién creada.
func Full() Vitals {
	return Vitals{Hunger: Max, Happiness: Max, Health: Max, Energy: Max}
}

// Clamp acota v a [0,100].
func Clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// clamp64 evita overflow cuando las horas transcurridas son muy grandes.
func clamp64(v int64) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return int(v)
}

func (v Vitals) Clamped() Vitals {
	return Vitals{
		Hunger:    Clamp(v.Hunger),
		Happiness: Clamp(v.Happiness),
		Health:    Clamp(v.Health),
		Energy:    Clamp(v.Energy),
	}
}

// Validate falla si algún escalar está fuera de [0,100].
func (v Vitals) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"hunger", v.Hunger},
		{"happiness", v.Happiness},
		{"health", v.Health},
		{"energy", v.Energy},
	}
	for _, f := range fields {
		if f.value < Min || f.value > Max {
			return fmt.Errorf("%w: %s=%d", ErrOutOfRange, f.name, f.value)
		}
	}
	return nil
}
