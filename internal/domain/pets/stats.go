package pets

import (
	"context"
	"strings"
	"time"

	"petworld/internal/domain/vitality"

	"gonum.org/v1/gonum/stat"
)

// Stats resume el historial de una mascota.
type Stats struct {
	PetID  string
	Vitals vitality.Vitals

	TotalInteractions int
	ByKind            map[vitality.Kind]int
	MagnitudeByKind   map[vitality.Kind]int

	FirstInteractionAt *time.Time
	LastInteractionAt  *time.Time

	// Horas entre interacciones consecutivas. Con menos de dos gaps el desvío es 0.
	MeanHoursBetween   float64
	StdDevHoursBetween float64
}

// Stats reconcilia la mascota (como Get) y agrega sobre todo su historial.
func (s *Service) Stats(ctx context.Context, petID string) (Stats, error) {
	p, err := s.Get(ctx, strings.TrimSpace(petID))
	if err != nil {
		return Stats{}, err
	}

	items, err := s.interactions.ListByPet(ctx, p.ID, InteractionFilter{})
	if err != nil {
		return Stats{}, err
	}
	return summarize(p, items), nil
}

func summarize(p Pet, items []Interaction) Stats {
	st := Stats{
		PetID:             p.ID,
		Vitals:            p.Vitals,
		TotalInteractions: len(items),
		ByKind:            make(map[vitality.Kind]int, len(vitality.Kinds())),
		MagnitudeByKind:   make(map[vitality.Kind]int, len(vitality.Kinds())),
	}
	for _, k := range vitality.Kinds() {
		st.ByKind[k] = 0
		st.MagnitudeByKind[k] = 0
	}
	if len(items) == 0 {
		return st
	}

	for _, in := range items {
		st.ByKind[in.Kind]++
		st.MagnitudeByKind[in.Kind] += in.Magnitude
	}
	first, last := items[0].OccurredAt, items[len(items)-1].OccurredAt
	st.FirstInteractionAt = &first
	st.LastInteractionAt = &last

	gaps := make([]float64, 0, len(items)-1)
	for i := 1; i < len(items); i++ {
		gaps = append(gaps, items[i].OccurredAt.Sub(items[i-1].OccurredAt).Hours())
	}
	switch len(gaps) {
	case 0:
	case 1:
		st.MeanHoursBetween = gaps[0]
	default:
		st.MeanHoursBetween, st.StdDevHoursBetween = stat.MeanStdDev(gaps, nil)
	}
	return st
}
