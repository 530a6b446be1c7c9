package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"petworld/internal/config"
	"petworld/internal/domain/pets"
	"petworld/internal/domain/vitality"
	"petworld/internal/router"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

var (
	exportOut   string
	exportKind  string
	exportLimit int
)

var exportCmd = &cobra.Command{
	Use:   "export-interactions <pet-id>",
	Short: "Export a pet's interaction history as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportKind, "kind", "", "only this kind (FEED, PLAY, HEAL, PET, OTHER)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "only the N most recent (0 = all)")
}

// interactionRow es una fila del CSV exportado.
type interactionRow struct {
	ID          string `csv:"id"`
	PetID       string `csv:"pet_id"`
	Kind        string `csv:"kind"`
	Magnitude   int    `csv:"magnitude"`
	Description string `csv:"description"`
	OccurredAt  string `csv:"occurred_at"`
	ActorUserID string `csv:"actor_user_id"`
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	filter := pets.InteractionFilter{Limit: exportLimit}
	if exportKind != "" {
		k, err := vitality.ParseKind(exportKind)
		if err != nil {
			return err
		}
		filter.Kind = k
	}

	db, closeDB, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	svc := router.NewServices(router.Options{DB: db, Driver: cfg.DB.Driver, Logger: newLogger(cfg)})
	items, err := svc.Pets.ListInteractions(cmd.Context(), args[0], filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writeInteractionsCSV(out, items)
}

func writeInteractionsCSV(w io.Writer, items []pets.Interaction) error {
	rows := make([]interactionRow, 0, len(items))
	for _, in := range items {
		rows = append(rows, interactionRow{
			ID:          in.ID,
			PetID:       in.PetID,
			Kind:        string(in.Kind),
			Magnitude:   in.Magnitude,
			Description: in.Description,
			OccurredAt:  in.OccurredAt.UTC().Format(time.RFC3339),
			ActorUserID: in.ActorUserID,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
