package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"petworld/internal/domain/users"
	"petworld/internal/domain/vitality"
	"petworld/internal/platform/clock"
	"petworld/internal/platform/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("concurrent modification")

	// ErrOwnerNotFound también es ErrNotFound.
	ErrOwnerNotFound = fmt.Errorf("owner %w", ErrNotFound)
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 1000
)

var tracer = otel.Tracer("petworld/internal/domain/pets")

// Deps agrupa los colaboradores del servicio. Pets, Interactions y Users son obligatorios.
type Deps struct {
	Pets         Repository
	Interactions InteractionRepository
	Users        UserDirectory

	Tx       TxManager
	Clock    clock.Clock
	Notifier Notifier
	Logger   logger.Logger
	Locker   *Locker
}

// Service es el orquestador de vitalidad: toda lectura o acción pasa por acá,
// reconcilia decay primero y persiste una sola vez.
type Service struct {
	pets         Repository
	interactions InteractionRepository
	users        UserDirectory

	tx       TxManager
	clock    clock.Clock
	notifier Notifier
	log      logger.Logger
	locks    *Locker
}

func NewService(d Deps) *Service {
	s := &Service{
		pets:         d.Pets,
		interactions: d.Interactions,
		users:        d.Users,
		tx:           d.Tx,
		clock:        d.Clock,
		notifier:     d.Notifier,
		log:          d.Logger,
		locks:        d.Locker,
	}
	if s.tx == nil {
		s.tx = noTx{}
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.locks == nil {
		s.locks = NewLocker()
	}
	return s
}

type CreateInput struct {
	Name        string
	Description string
	Type        string
	ImageURL    string
}

// Create registra una mascota para ownerUserID con todos los escalares en 100.
// No aplica decay ni interacción. La notificación es best-effort.
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (p Pet, err error) {
	ctx, span := tracer.Start(ctx, "pets.Create")
	defer func() { endSpan(span, err) }()

	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Pet{}, fmt.Errorf("%w: owner required", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLen {
		return Pet{}, fmt.Errorf("%w: name must be 1-%d chars", ErrInvalidInput, maxNameLen)
	}
	desc := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return Pet{}, fmt.Errorf("%w: description too long", ErrInvalidInput)
	}

	if _, err := s.users.GetByID(ctx, ownerUserID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Pet{}, ErrOwnerNotFound
		}
		return Pet{}, fmt.Errorf("load owner: %w", err)
	}

	now := s.clock.Now()
	p = Pet{
		ID:                uuid.NewString(),
		OwnerUserID:       ownerUserID,
		Name:              name,
		Description:       desc,
		Type:              normalizeType(in.Type),
		ImageURL:          strings.TrimSpace(in.ImageURL),
		Vitals:            vitality.Full(),
		LastInteractionAt: now,
		DecayedAt:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
		Revision:          1,
	}
	span.SetAttributes(attribute.String("pet.id", p.ID))

	if err := s.pets.Create(ctx, p); err != nil {
		return Pet{}, fmt.Errorf("create pet: %w", err)
	}

	logger.FromContext(ctx, s.log).Info("pet created", map[string]any{
		"pet_id":   p.ID,
		"owner_id": p.OwnerUserID,
		"type":     p.Type,
	})
	s.notifyCreated(ctx, p)

	return p, nil
}

// Get devuelve el snapshot reconciliado. Cualquiera puede leer.
func (s *Service) Get(ctx context.Context, petID string) (p Pet, err error) {
	ctx, span := tracer.Start(ctx, "pets.Get", trace.WithAttributes(attribute.String("pet.id", petID)))
	defer func() { endSpan(span, err) }()

	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Pet{}, ErrNotFound
	}

	unlock := s.locks.Lock(petID)
	defer unlock()

	return s.loadReconciled(ctx, petID)
}

// List devuelve snapshots reconciliados filtrados por tipo y/o dueño.
func (s *Service) List(ctx context.Context, filter ListFilter) (out []Pet, err error) {
	ctx, span := tracer.Start(ctx, "pets.List")
	defer func() { endSpan(span, err) }()

	filter.OwnerUserID = strings.TrimSpace(filter.OwnerUserID)
	if strings.TrimSpace(filter.Type) != "" {
		filter.Type = normalizeType(filter.Type)
	}

	items, err := s.pets.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out = make([]Pet, 0, len(items))
	for _, it := range items {
		p, err := s.getLocked(ctx, it.ID)
		if errors.Is(err, ErrNotFound) {
			// borrada entre el listado y la reconciliación
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) getLocked(ctx context.Context, petID string) (Pet, error) {
	unlock := s.locks.Lock(petID)
	defer unlock()
	return s.loadReconciled(ctx, petID)
}

// loadReconciled: load -> reconcile -> checkpoint si cambió. Requiere el lock de la mascota.
func (s *Service) loadReconciled(ctx context.Context, petID string) (Pet, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	now := s.clock.Now()
	next, hours := reconcile(p, now)
	if hours == 0 {
		return p, nil
	}

	next.UpdatedAt = now
	if err := s.pets.Update(ctx, next); err != nil {
		return Pet{}, fmt.Errorf("checkpoint decay: %w", err)
	}
	next.Revision++

	logger.FromContext(ctx, s.log).Debug("pet decay reconciled", map[string]any{
		"pet_id": petID,
		"hours":  hours,
	})
	return next, nil
}

// Outcome es el resultado de una interacción exitosa.
type Outcome struct {
	Pet         Pet
	Interaction Interaction
}

// Interact aplica una interacción del dueño. Pasos: load, verificar dueño,
// reconciliar, aplicar delta, y persistir mascota + registro en una sola transacción.
// Si el actor no es el dueño no se persiste nada.
func (s *Service) Interact(ctx context.Context, petID, actorUserID string, kind vitality.Kind) (out Outcome, err error) {
	ctx, span := tracer.Start(ctx, "pets.Interact", trace.WithAttributes(
		attribute.String("pet.id", petID),
		attribute.String("interaction.kind", string(kind)),
	))
	defer func() { endSpan(span, err) }()

	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Outcome{}, ErrNotFound
	}

	unlock := s.locks.Lock(petID)
	defer unlock()

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Outcome{}, err
	}
	if err := AssertOwner(p, actorUserID); err != nil {
		return Outcome{}, err
	}

	now := s.clock.Now()
	next, _ := reconcile(p, now)

	eff := vitality.Resolve(kind)
	next.Vitals = eff.Apply(next.Vitals)
	next.LastInteractionAt = latest(next.LastInteractionAt, now)
	next.DecayedAt = latest(next.DecayedAt, now)
	next.UpdatedAt = now

	in := Interaction{
		ID:          uuid.NewString(),
		PetID:       p.ID,
		Kind:        eff.Kind,
		Magnitude:   eff.Magnitude,
		Description: eff.Describe(p.Name),
		OccurredAt:  now,
		ActorUserID: strings.TrimSpace(actorUserID),
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.pets.Update(ctx, next); err != nil {
			return fmt.Errorf("update pet: %w", err)
		}
		if err := s.interactions.Append(ctx, in); err != nil {
			return fmt.Errorf("append interaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	next.Revision++

	logger.FromContext(ctx, s.log).Info("pet interaction", map[string]any{
		"pet_id":    p.ID,
		"kind":      string(in.Kind),
		"magnitude": in.Magnitude,
	})
	return Outcome{Pet: next, Interaction: in}, nil
}

type UpdateProfileInput struct {
	// Punteros para PATCH: nil = no tocar.
	Name        *string
	Description *string
	Type        *string
	ImageURL    *string
}

// UpdateProfile edita los campos opacos del perfil. Solo el dueño.
// El decay pendiente se reconcilia y persiste en la misma escritura.
func (s *Service) UpdateProfile(ctx context.Context, petID, actorUserID string, in UpdateProfileInput) (p Pet, err error) {
	ctx, span := tracer.Start(ctx, "pets.UpdateProfile", trace.WithAttributes(attribute.String("pet.id", petID)))
	defer func() { endSpan(span, err) }()

	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Pet{}, ErrNotFound
	}

	unlock := s.locks.Lock(petID)
	defer unlock()

	current, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if err := AssertOwner(current, actorUserID); err != nil {
		return Pet{}, err
	}

	now := s.clock.Now()
	next, _ := reconcile(current, now)

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || utf8.RuneCountInString(name) > maxNameLen {
			return Pet{}, fmt.Errorf("%w: name must be 1-%d chars", ErrInvalidInput, maxNameLen)
		}
		next.Name = name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(desc) > maxDescriptionLen {
			return Pet{}, fmt.Errorf("%w: description too long", ErrInvalidInput)
		}
		next.Description = desc
	}
	if in.Type != nil {
		next.Type = normalizeType(*in.Type)
	}
	if in.ImageURL != nil {
		next.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	next.UpdatedAt = now

	if err := s.pets.Update(ctx, next); err != nil {
		return Pet{}, fmt.Errorf("update pet: %w", err)
	}
	next.Revision++
	return next, nil
}

// Delete borra la mascota y su historial. Solo el dueño.
func (s *Service) Delete(ctx context.Context, petID, actorUserID string) (err error) {
	ctx, span := tracer.Start(ctx, "pets.Delete", trace.WithAttributes(attribute.String("pet.id", petID)))
	defer func() { endSpan(span, err) }()

	petID = strings.TrimSpace(petID)
	if petID == "" {
		return ErrNotFound
	}

	unlock := s.locks.Lock(petID)
	defer unlock()

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if err := AssertOwner(p, actorUserID); err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.interactions.DeleteByPet(ctx, petID); err != nil {
			return fmt.Errorf("delete interactions: %w", err)
		}
		if err := s.pets.Delete(ctx, petID); err != nil {
			return fmt.Errorf("delete pet: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx, s.log).Info("pet deleted", map[string]any{"pet_id": petID})
	return nil
}

// ListInteractions devuelve el historial (orden cronológico). La mascota debe existir.
func (s *Service) ListInteractions(ctx context.Context, petID string, filter InteractionFilter) (out []Interaction, err error) {
	ctx, span := tracer.Start(ctx, "pets.ListInteractions", trace.WithAttributes(attribute.String("pet.id", petID)))
	defer func() { endSpan(span, err) }()

	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrNotFound
	}
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		return nil, err
	}
	return s.interactions.ListByPet(ctx, petID, filter)
}

func (s *Service) notifyCreated(ctx context.Context, p Pet) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx, s.log).Error("pet created notifier panicked", map[string]any{
				"pet_id": p.ID,
				"panic":  fmt.Sprint(r),
			})
		}
	}()

	s.notifier.PetCreated(ctx, CreatedEvent{
		PetID:       p.ID,
		Name:        p.Name,
		Type:        p.Type,
		OwnerUserID: p.OwnerUserID,
		OccurredAt:  p.CreatedAt,
	})
}

func reconcile(p Pet, now time.Time) (Pet, int64) {
	st, hours := vitality.Reconcile(p.state(), now)
	if hours == 0 {
		return p, 0
	}
	return p.withState(st), hours
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// normalizeType solo limpia espacios: "  golden   retriever " -> "golden retriever".
// Las mayúsculas se respetan; los filtros comparan sin distinguirlas.
func normalizeType(t string) string {
	return strings.Join(strings.Fields(t), " ")
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
