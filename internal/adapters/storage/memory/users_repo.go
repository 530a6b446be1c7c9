package memory

import (
	"context"
	"errors"
	"strings"

	"petworld/internal/domain/users"
)

type userRepo struct {
	s *Store
}

func NewUserRepo(s *Store) users.Repository {
	return &userRepo{s: s}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	return r.s.write(ctx, func(tx *txState) error {
		if _, exists := r.s.users[u.ID]; exists {
			return users.ErrDuplicate
		}
		for _, existing := range r.s.users {
			if existing.Username == u.Username {
				return users.ErrDuplicate
			}
		}
		r.s.users[u.ID] = u
		tx.onRollback(func() { delete(r.s.users, u.ID) })
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	var (
		u  users.User
		ok bool
	)
	r.s.read(ctx, func() { u, ok = r.s.users[id] })
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	var (
		u     users.User
		found bool
	)
	r.s.read(ctx, func() {
		for _, candidate := range r.s.users {
			if candidate.Username == username {
				u, found = candidate, true
				return
			}
		}
	})
	if !found {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}
