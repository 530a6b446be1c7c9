package pets_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"petworld/internal/adapters/storage/memory"
	"petworld/internal/domain/pets"
	"petworld/internal/domain/users"
	"petworld/internal/domain/vitality"
	"petworld/internal/platform/clock"
)

var t0 = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store        *memory.Store
	pets         pets.Repository
	interactions pets.InteractionRepository
	clock        *clock.Manual
	notifier     *recordingNotifier
	owner        users.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	f := &fixture{
		store:        st,
		pets:         memory.NewPetRepo(st),
		interactions: memory.NewInteractionRepo(st),
		clock:        clock.NewManual(t0),
		notifier:     &recordingNotifier{},
		owner:        users.User{ID: "owner-1", Username: "ana", CreatedAt: t0},
	}
	if err := memory.NewUserRepo(st).Create(context.Background(), f.owner); err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	return f
}

func (f *fixture) service(opts ...func(*pets.Deps)) *pets.Service {
	d := pets.Deps{
		Pets:         f.pets,
		Interactions: f.interactions,
		Users:        memory.NewUserRepo(f.store),
		Tx:           f.store,
		Clock:        f.clock,
		Notifier:     f.notifier,
	}
	for _, o := range opts {
		o(&d)
	}
	return pets.NewService(d)
}

func (f *fixture) createPet(t *testing.T, svc *pets.Service) pets.Pet {
	t.Helper()
	p, err := svc.Create(context.Background(), f.owner.ID, pets.CreateInput{Name: "Milo", Type: "dog"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []pets.CreatedEvent
}

func (n *recordingNotifier) PetCreated(_ context.Context, ev pets.CreatedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

type panicNotifier struct{}

func (panicNotifier) PetCreated(context.Context, pets.CreatedEvent) { panic("observer exploded") }

func TestService_Create_StartsFullAndNotifies(t *testing.T) {
	f := newFixture(t)
	svc := f.service()

	p, err := svc.Create(context.Background(), f.owner.ID, pets.CreateInput{Name: "  Milo ", Type: " golden   retriever "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Vitals != vitality.Full() {
		t.Fatalf("expected full vitals, got %+v", p.Vitals)
	}
	if p.Name != "Milo" || p.Type != "golden retriever" || p.Revision != 1 {
		t.Fatalf("unexpected pet %+v", p)
	}
	if !p.CreatedAt.Equal(t0) || !p.LastInteractionAt.Equal(t0) {
		t.Fatalf("unexpected timestamps %+v", p)
	}

	if len(f.notifier.events) != 1 || f.notifier.events[0].PetID != p.ID || f.notifier.events[0].Type != "golden retriever" {
		t.Fatalf("unexpected notifications %+v", f.notifier.events)
	}
}

func TestService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	svc := f.service()

	if _, err := svc.Create(context.Background(), f.owner.ID, pets.CreateInput{Name: "  "}); !errors.Is(err, pets.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "", pets.CreateInput{Name: "Milo"}); !errors.Is(err, pets.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty owner, got %v", err)
	}

	_, err := svc.Create(context.Background(), "ghost", pets.CreateInput{Name: "Milo"})
	if !errors.Is(err, pets.ErrOwnerNotFound) || !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestService_Create_NotifierPanicDoesNotFail(t *testing.T) {
	f := newFixture(t)
	svc := f.service(func(d *pets.Deps) { d.Notifier = panicNotifier{} })

	p := f.createPet(t, svc)
	if _, err := f.pets.GetByID(context.Background(), p.ID); err != nil {
		t.Fatalf("expected pet persisted, got %v", err)
	}
}

func TestService_Get_ReconcilesAndCheckpoints(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)

	f.clock.Advance(10*time.Hour + 20*time.Minute)

	got, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := vitality.Vitals{Hunger: 50, Happiness: 70, Health: 100, Energy: 100}
	if got.Vitals != want {
		t.Fatalf("expected %+v, got %+v", want, got.Vitals)
	}

	stored, _ := f.pets.GetByID(context.Background(), p.ID)
	if stored.Vitals != want || stored.Revision != 2 {
		t.Fatalf("expected checkpoint persisted, got %+v", stored)
	}
	if got.Revision != stored.Revision {
		t.Fatalf("returned revision %d != stored %d", got.Revision, stored.Revision)
	}

	// mismo instante: no cambia nada ni se vuelve a escribir
	again, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Vitals != want || again.Revision != 2 {
		t.Fatalf("reconcile not idempotent: %+v", again)
	}
}

func TestService_Get_UnderAnHourIsNoop(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)

	f.clock.Advance(59 * time.Minute)
	got, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Vitals != vitality.Full() || got.Revision != 1 {
		t.Fatalf("expected untouched pet, got %+v", got)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	svc := newFixture(t).service()
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Interact_FeedAfterDecay(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)

	f.clock.Advance(10 * time.Hour)
	out, err := svc.Interact(context.Background(), p.ID, f.owner.ID, vitality.KindFeed)
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}

	// hunger 100 -> 50 por decay, +30 por FEED
	if out.Pet.Vitals.Hunger != 80 || out.Pet.Vitals.Energy != 100 || out.Pet.Vitals.Happiness != 70 {
		t.Fatalf("unexpected vitals %+v", out.Pet.Vitals)
	}
	if !out.Pet.LastInteractionAt.Equal(f.clock.Now()) {
		t.Fatalf("expected LastInteractionAt=now, got %v", out.Pet.LastInteractionAt)
	}

	in := out.Interaction
	if in.Kind != vitality.KindFeed || in.Magnitude != 30 || in.Description != "Alimentaste a Milo" || in.ActorUserID != f.owner.ID {
		t.Fatalf("unexpected interaction %+v", in)
	}

	stored, _ := f.pets.GetByID(context.Background(), p.ID)
	if stored.Vitals != out.Pet.Vitals || stored.Revision != out.Pet.Revision {
		t.Fatalf("stored %+v differs from returned %+v", stored, out.Pet)
	}

	items, _ := svc.ListInteractions(context.Background(), p.ID, pets.InteractionFilter{})
	if len(items) != 1 || items[0].ID != in.ID {
		t.Fatalf("expected exactly one record, got %+v", items)
	}
}

func TestService_Interact_UnknownKindRecordsOther(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)

	out, err := svc.Interact(context.Background(), p.ID, f.owner.ID, vitality.Kind("DANCE"))
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if out.Interaction.Kind != vitality.KindOther || out.Interaction.Description != "Interactuaste con Milo" {
		t.Fatalf("unexpected interaction %+v", out.Interaction)
	}
}

func TestService_Interact_NonOwnerChangesNothing(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)

	f.clock.Advance(5 * time.Hour)
	_, err := svc.Interact(context.Background(), p.ID, "intruder", vitality.KindFeed)
	if !errors.Is(err, pets.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	stored, _ := f.pets.GetByID(context.Background(), p.ID)
	if stored.Vitals != vitality.Full() || stored.Revision != 1 {
		t.Fatalf("non-owner call persisted changes: %+v", stored)
	}
	items, _ := f.interactions.ListByPet(context.Background(), p.ID, pets.InteractionFilter{})
	if len(items) != 0 {
		t.Fatalf("non-owner call recorded interactions: %+v", items)
	}

	if _, err := svc.Interact(context.Background(), p.ID, "", vitality.KindFeed); !errors.Is(err, pets.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous actor, got %v", err)
	}
}

type failingInteractions struct {
	pets.InteractionRepository
}

func (failingInteractions) Append(context.Context, pets.Interaction) error {
	return errors.New("disk full")
}

func TestService_Interact_PersistIsAtomic(t *testing.T) {
	f := newFixture(t)
	svc := f.service(func(d *pets.Deps) {
		d.Interactions = failingInteractions{f.interactions}
	})
	p := f.createPet(t, svc)

	f.clock.Advance(3 * time.Hour)
	if _, err := svc.Interact(context.Background(), p.ID, f.owner.ID, vitality.KindPlay); err == nil {
		t.Fatalf("expected error")
	}

	stored, _ := f.pets.GetByID(context.Background(), p.ID)
	if stored.Vitals != vitality.Full() || stored.Revision != 1 {
		t.Fatalf("pet update was not rolled back: %+v", stored)
	}
}

// racingPets simula otro proceso que escribe la misma mascota justo antes que nosotros.
type racingPets struct {
	pets.Repository
}

func (r racingPets) Update(ctx context.Context, p pets.Pet) error {
	other := p
	other.Name = "written elsewhere"
	if err := r.Repository.Update(ctx, other); err != nil {
		return err
	}
	return r.Repository.Update(ctx, p)
}

func TestService_Interact_ConflictSurfaces(t *testing.T) {
	f := newFixture(t)
	p := f.createPet(t, f.service())

	svc := f.service(func(d *pets.Deps) { d.Pets = racingPets{f.pets} })
	_, err := svc.Interact(context.Background(), p.ID, f.owner.ID, vitality.KindFeed)
	if !errors.Is(err, pets.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	items, _ := f.interactions.ListByPet(context.Background(), p.ID, pets.InteractionFilter{})
	if len(items) != 0 {
		t.Fatalf("conflicting interaction must not be recorded, got %+v", items)
	}
}

func TestService_Interact_ConcurrentCallsSerialize(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Interact(context.Background(), p.ID, f.owner.ID, vitality.KindPet); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Interact: %v", err)
	}

	stored, _ := f.pets.GetByID(context.Background(), p.ID)
	if stored.Revision != 1+n {
		t.Fatalf("expected revision %d, got %d", 1+n, stored.Revision)
	}
	items, _ := f.interactions.ListByPet(context.Background(), p.ID, pets.InteractionFilter{})
	if len(items) != n {
		t.Fatalf("expected %d records, got %d", n, len(items))
	}
}

func TestService_Interact_ClockSkewKeepsLastInteraction(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)

	f.clock.Advance(3 * time.Hour)
	first, err := svc.Interact(context.Background(), p.ID, f.owner.ID, vitality.KindPet)
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	at := first.Interaction.OccurredAt

	// el reloj retrocede: los timestamps de la mascota no
	f.clock.Advance(-2 * time.Hour)
	second, err := svc.Interact(context.Background(), p.ID, f.owner.ID, vitality.KindPet)
	if err != nil {
		t.Fatalf("Interact after skew: %v", err)
	}
	if !second.Pet.LastInteractionAt.Equal(at) || !second.Pet.DecayedAt.Equal(at) {
		t.Fatalf("timestamps moved backward: last=%v decayed=%v want %v",
			second.Pet.LastInteractionAt, second.Pet.DecayedAt, at)
	}

	stored, _ := f.pets.GetByID(context.Background(), p.ID)
	if !stored.LastInteractionAt.Equal(at) || !stored.DecayedAt.Equal(at) {
		t.Fatalf("stored timestamps moved backward: %+v", stored)
	}
}

func TestService_Create_NameLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)
	svc := f.service()

	name := strings.Repeat("ñ", 100)
	p, err := svc.Create(context.Background(), f.owner.ID, pets.CreateInput{Name: name})
	if err != nil {
		t.Fatalf("expected 100 multi-byte chars accepted, got %v", err)
	}
	if p.Name != name {
		t.Fatalf("unexpected name %q", p.Name)
	}

	if _, err := svc.Create(context.Background(), f.owner.ID, pets.CreateInput{Name: name + "ñ"}); !errors.Is(err, pets.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 101 chars, got %v", err)
	}
}

func TestService_TypeIsStoredAsGiven(t *testing.T) {
	f := newFixture(t)
	svc := f.service()

	p, err := svc.Create(context.Background(), f.owner.ID, pets.CreateInput{Name: "Bit", Type: "  iPhone  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Type != "iPhone" {
		t.Fatalf("expected type kept as iPhone, got %q", p.Type)
	}

	items, err := svc.List(context.Background(), pets.ListFilter{Type: "IPHONE"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != p.ID {
		t.Fatalf("expected case-insensitive type filter to match, got %+v", items)
	}
}

func TestService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)

	name, typ := "Milo Updated", "cat"
	got, err := svc.UpdateProfile(context.Background(), p.ID, f.owner.ID, pets.UpdateProfileInput{Name: &name, Type: &typ})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Name != name || got.Type != "cat" || got.Revision != 2 {
		t.Fatalf("unexpected pet %+v", got)
	}

	empty := " "
	if _, err := svc.UpdateProfile(context.Background(), p.ID, f.owner.ID, pets.UpdateProfileInput{Name: &empty}); !errors.Is(err, pets.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), p.ID, "intruder", pets.UpdateProfileInput{Name: &name}); !errors.Is(err, pets.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Delete_CascadesAndChecksOwner(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)
	if _, err := svc.Interact(context.Background(), p.ID, f.owner.ID, vitality.KindFeed); err != nil {
		t.Fatalf("Interact: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID, "intruder"); !errors.Is(err, pets.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), p.ID, f.owner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), p.ID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	items, _ := f.interactions.ListByPet(context.Background(), p.ID, pets.InteractionFilter{})
	if len(items) != 0 {
		t.Fatalf("expected cascade, got %+v", items)
	}
}

func TestService_List_ReconcilesAndFilters(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	dog := f.createPet(t, svc)
	if _, err := svc.Create(context.Background(), f.owner.ID, pets.CreateInput{Name: "Luna", Type: "Cat"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.clock.Advance(2 * time.Hour)
	items, err := svc.List(context.Background(), pets.ListFilter{Type: "DOG"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != dog.ID {
		t.Fatalf("unexpected list %+v", items)
	}
	if items[0].Vitals.Hunger != 90 {
		t.Fatalf("expected reconciled hunger 90, got %d", items[0].Vitals.Hunger)
	}

	all, _ := svc.List(context.Background(), pets.ListFilter{OwnerUserID: f.owner.ID})
	if len(all) != 2 {
		t.Fatalf("expected 2 pets, got %d", len(all))
	}
}

func TestService_ListInteractions_MissingPet(t *testing.T) {
	svc := newFixture(t).service()
	if _, err := svc.ListInteractions(context.Background(), "missing", pets.InteractionFilter{}); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Stats(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	p := f.createPet(t, svc)

	empty, err := svc.Stats(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if empty.TotalInteractions != 0 || empty.FirstInteractionAt != nil || empty.MeanHoursBetween != 0 {
		t.Fatalf("unexpected empty stats %+v", empty)
	}

	for _, step := range []struct {
		kind  vitality.Kind
		after time.Duration
	}{
		{vitality.KindFeed, 0},
		{vitality.KindPlay, time.Hour},
		{vitality.KindFeed, 3 * time.Hour},
	} {
		f.clock.Advance(step.after)
		if _, err := svc.Interact(context.Background(), p.ID, f.owner.ID, step.kind); err != nil {
			t.Fatalf("Interact: %v", err)
		}
	}

	st, err := svc.Stats(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalInteractions != 3 || st.ByKind[vitality.KindFeed] != 2 || st.ByKind[vitality.KindPlay] != 1 {
		t.Fatalf("unexpected counts %+v", st)
	}
	if st.MagnitudeByKind[vitality.KindFeed] != 60 {
		t.Fatalf("expected FEED magnitude 60, got %d", st.MagnitudeByKind[vitality.KindFeed])
	}
	// gaps de 1h y 3h
	if st.MeanHoursBetween != 2 || st.StdDevHoursBetween <= 0 {
		t.Fatalf("unexpected gap stats mean=%v std=%v", st.MeanHoursBetween, st.StdDevHoursBetween)
	}
}
