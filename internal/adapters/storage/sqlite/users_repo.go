package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"petworld/internal/adapters/storage/sqltx"
	"petworld/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := sqltx.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO users (id, username, email, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.Email, toNanos(u.CreatedAt),
	)
	if isUniqueViolation(err) {
		return users.ErrDuplicate
	}
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getOne(ctx, `SELECT id, username, email, created_at FROM users WHERE id = ?`, id)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	return r.getOne(ctx, `SELECT id, username, email, created_at FROM users WHERE username = ?`, username)
}

func (r *UsersRepo) getOne(ctx context.Context, query, arg string) (users.User, error) {
	var (
		u       users.User
		created int64
	)
	err := sqltx.Conn(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, users.ErrNotFound
	}
	if err != nil {
		return users.User{}, err
	}
	u.CreatedAt = fromNanos(created)
	return u, nil
}
