package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/liftr/internal/analysis"
	"github.com/sadopc/liftr/internal/store"
)

// ToCSV writes one row per logged set, normalized the way the reports see it.
func ToCSV(workouts []store.Workout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Date", "Time", "Section", "Exercise", "Reps", "Weight", "Load"}); err != nil {
		return err
	}

	for _, wo := range workouts {
		e := analysis.Normalize(wo.Record())
		row := []string{
			wo.ID,
			e.DayKey,
			wo.CreatedAt.UTC().Format(time.RFC3339),
			e.Section,
			e.Exercise,
			fmt.Sprintf("%d", e.Reps),
			humanize.Ftoa(e.Weight),
			humanize.Ftoa(e.Load),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
