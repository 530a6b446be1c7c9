package pets

import "context"

// Notifier recibe el hecho "mascota creada" después de persistirla.
// Implementaciones deben ser asíncronas: no pueden bloquear ni fallar la creación.
type Notifier interface {
	PetCreated(ctx context.Context, ev CreatedEvent)
}

type nopNotifier struct{}

func (nopNotifier) PetCreated(context.Context, CreatedEvent) {}
