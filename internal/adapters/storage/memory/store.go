package memory

import (
	"context"
	"sync"

	"petworld/internal/domain/pets"
	"petworld/internal/domain/users"
)

// Store es el backend in-memory compartido por los repos de pets, interacciones y usuarios.
// Un solo mutex protege los tres mapas, así RunInTx puede abarcar escrituras sobre varios repos.
type Store struct {
	mu           sync.RWMutex
	pets         map[string]pets.Pet
	interactions map[string][]pets.Interaction // por petID, en orden de inserción
	users        map[string]users.User
}

func NewStore() *Store {
	return &Store{
		pets:         make(map[string]pets.Pet),
		interactions: make(map[string][]pets.Interaction),
		users:        make(map[string]users.User),
	}
}

type txKey struct{}

type txState struct {
	store *Store
	done  bool
	undo  []func()
}

// RunInTx ejecuta fn con el store bloqueado. Si fn falla (o entra en pánico)
// se deshacen todas las escrituras hechas con el ctx de la transacción.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		// anidada: se suma a la transacción externa
		return fn(ctx)
	}

	s.mu.Lock()
	tx := &txState{store: s}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
		tx.done = true
		s.mu.Unlock()
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) txFrom(ctx context.Context) *txState {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok || tx == nil || tx.done || tx.store != s {
		return nil
	}
	return tx
}

// write toma el lock salvo que ctx ya esté dentro de una transacción de este store.
func (s *Store) write(ctx context.Context, fn func(tx *txState) error) error {
	if tx := s.txFrom(ctx); tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(nil)
}

func (s *Store) read(ctx context.Context, fn func()) {
	if s.txFrom(ctx) != nil {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// onRollback registra la compensación de una escritura. Fuera de tx no hace nada.
func (tx *txState) onRollback(f func()) {
	if tx == nil {
		return
	}
	tx.undo = append(tx.undo, f)
}

func (tx *txState) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}
