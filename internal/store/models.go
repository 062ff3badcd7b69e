package store

import (
	"time"

	"github.com/sadopc/liftr/internal/analysis"
)

type Exercise struct {
	ID        int64
	Name      string
	Section   string
	Hidden    bool
	CreatedAt time.Time
}

// Workout is one logged set joined with its exercise metadata. ExerciseName
// and Section are empty when the exercise was deleted.
type Workout struct {
	ID           string
	UserID       string
	ExerciseID   *int64
	ExerciseName string
	Section      string
	Reps         int
	Weight       float64
	CreatedAt    time.Time
}

// Record converts the set into the input shape of the analysis package.
func (w Workout) Record() analysis.WorkoutRecord {
	var exerciseID int64
	if w.ExerciseID != nil {
		exerciseID = *w.ExerciseID
	}
	return analysis.WorkoutRecord{
		ID:           w.ID,
		UserID:       w.UserID,
		ExerciseID:   exerciseID,
		ExerciseName: w.ExerciseName,
		SectionName:  w.Section,
		Reps:         w.Reps,
		Weight:       w.Weight,
		CreatedAt:    w.CreatedAt,
	}
}

func Records(workouts []Workout) []analysis.WorkoutRecord {
	out := make([]analysis.WorkoutRecord, 0, len(workouts))
	for _, w := range workouts {
		out = append(out, w.Record())
	}
	return out
}

// NewWorkout is the input for logging a set. A zero CreatedAt means now.
type NewWorkout struct {
	ExerciseID int64
	Reps       int
	Weight     float64
	CreatedAt  time.Time
}

type MuscleTarget struct {
	Section string
	Ratio   float64
}

type Setting struct {
	Key   string
	Value string
}

// WorkoutFilter is used to filter workouts in queries.
type WorkoutFilter struct {
	ExerciseID *int64
	From       *time.Time
	To         *time.Time
	Limit      int
}
