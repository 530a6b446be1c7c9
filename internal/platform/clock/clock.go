package clock

import (
	"sync"
	"time"
)

// Clock entrega la hora actual. Se inyecta en los servicios para poder testear
// la lógica temporal sin depender del reloj de pared.
type Clock interface {
	Now() time.Time
}

// System usa time.Now (UTC).
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Manual es un reloj controlable para tests.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance mueve el reloj hacia adelante (o atrás si d < 0, útil para simular skew).
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
