package cli

import (
	"fmt"

	"petworld/internal/adapters/storage/postgres"
	"petworld/internal/adapters/storage/sqlite"
	"petworld/internal/config"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		if err := postgres.Migrate(cmd.Context(), db); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
		v, err := postgres.SchemaVersion(cmd.Context(), db)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "postgres schema at version %d\n", v)

	case config.DriverSQLite:
		// Open migra
		db, err := sqlite.Open(cfg.DB.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		defer db.Close()

		v, err := db.SchemaVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "sqlite schema at version %d (%s)\n", v, db.Path)

	default:
		fmt.Fprintln(out, "memory driver: nothing to migrate")
	}
	return nil
}
