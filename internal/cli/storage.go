package cli

import (
	"context"
	"database/sql"
	"fmt"

	"petworld/internal/adapters/storage/postgres"
	"petworld/internal/adapters/storage/sqlite"
	"petworld/internal/config"
	"petworld/internal/platform/logger"
)

func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})
}

// openStorage abre la base según DB_DRIVER y deja el esquema al día.
// Con driver memory devuelve db nil y el router arma el store en memoria.
func openStorage(ctx context.Context, cfg *config.Config) (*sql.DB, func() error, error) {
	noop := func() error { return nil }

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DB.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("migrate postgres: %w", err)
		}
		return db, db.Close, nil

	case config.DriverSQLite:
		sdb, err := sqlite.Open(cfg.DB.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite: %w", err)
		}
		return sdb.DB, sdb.Close, nil

	default:
		return nil, noop, nil
	}
}
