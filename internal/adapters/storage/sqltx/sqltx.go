// Package sqltx comparte la transacción *sql.Tx entre repos vía context.
// Lo usan los stores de Postgres y SQLite.
package sqltx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX es lo común entre *sql.DB y *sql.Tx que usan los repos.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Manager struct {
	db *sql.DB
}

func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

type txKey struct{}

type txValue struct {
	db *sql.DB
	tx *sql.Tx
}

// RunInTx abre una transacción y la deja en el ctx que recibe fn.
// Si ctx ya trae una transacción de la misma DB, fn corre dentro de ella.
func (m *Manager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := fromContext(ctx, m.db); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, txValue{db: m.db, tx: tx})); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Conn devuelve la transacción activa para db, o db si no hay ninguna.
func Conn(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := fromContext(ctx, db); ok {
		return tx
	}
	return db
}

func fromContext(ctx context.Context, db *sql.DB) (*sql.Tx, bool) {
	v, ok := ctx.Value(txKey{}).(txValue)
	if !ok || v.db != db {
		return nil, false
	}
	return v.tx, true
}
