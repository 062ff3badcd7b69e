package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/liftr/internal/analysis"
	"github.com/sadopc/liftr/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Summary    *jsonSummary  `json:"summary,omitempty"`
	Workouts   []jsonWorkout `json:"workouts"`
}

type jsonWorkout struct {
	ID       string  `json:"id"`
	Day      string  `json:"day"`
	Time     string  `json:"time"`
	Section  string  `json:"section"`
	Exercise string  `json:"exercise"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
	Load     float64 `json:"load"`
}

type jsonSummary struct {
	WeekStart     string        `json:"week_start"`
	PreviousTotal float64       `json:"previous_total"`
	CurrentTotal  float64       `json:"current_total"`
	LoadToGo      float64       `json:"load_to_go"`
	Sections      []jsonSection `json:"sections"`
	Balance       []jsonBalance `json:"balance,omitempty"`
	UnderTrained  []string      `json:"under_trained,omitempty"`
}

type jsonSection struct {
	Name         string  `json:"name"`
	PreviousLoad float64 `json:"previous_load"`
	CurrentLoad  float64 `json:"current_load"`
	LoadToGo     float64 `json:"load_to_go"`
	PreviousAvg  float64 `json:"previous_avg_per_day"`
	CurrentAvg   float64 `json:"current_avg_per_day"`
}

type jsonBalance struct {
	Section string  `json:"section"`
	Actual  float64 `json:"actual"`
	Target  float64 `json:"target"`
	Diff    float64 `json:"diff"`
}

// ToJSON writes every set plus, when report is non-nil, the weekly
// comparison and this week's muscle balance.
func ToJSON(workouts []store.Workout, report *analysis.Report, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(workouts),
		Workouts:   []jsonWorkout{},
	}

	for _, wo := range workouts {
		e := analysis.Normalize(wo.Record())
		export.Workouts = append(export.Workouts, jsonWorkout{
			ID:       wo.ID,
			Day:      e.DayKey,
			Time:     wo.CreatedAt.UTC().Format(time.RFC3339),
			Section:  e.Section,
			Exercise: e.Exercise,
			Reps:     e.Reps,
			Weight:   e.Weight,
			Load:     e.Load,
		})
	}

	if report != nil {
		export.Summary = summaryOf(report)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func summaryOf(r *analysis.Report) *jsonSummary {
	week := r.Week
	s := &jsonSummary{
		WeekStart:     analysis.DayKey(week.Current.PeriodStart),
		PreviousTotal: week.Overall.PreviousTotal,
		CurrentTotal:  week.Overall.CurrentTotal,
		LoadToGo:      week.Overall.LoadToGo,
		Sections:      []jsonSection{},
		UnderTrained:  analysis.Sections(r.ThisWeekUnderTrained),
	}
	for _, name := range week.SectionNames() {
		d := week.Sections[name]
		s.Sections = append(s.Sections, jsonSection{
			Name:         d.Name,
			PreviousLoad: d.PreviousLoad,
			CurrentLoad:  d.CurrentLoad,
			LoadToGo:     d.LoadToGo,
			PreviousAvg:  d.PreviousAvg,
			CurrentAvg:   d.AvgLoad,
		})
	}
	for _, im := range r.ThisWeekBalance {
		s.Balance = append(s.Balance, jsonBalance{
			Section: im.Section,
			Actual:  im.Actual,
			Target:  im.Target,
			Diff:    im.Diff,
		})
	}
	return s
}
