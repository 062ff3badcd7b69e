package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/liftr/internal/analysis"
	"github.com/sirupsen/logrus"
)

const workoutColumns = `w.id, w.user_id, w.exercise_id, COALESCE(x.name, ''), COALESCE(x.section, ''),
	w.reps, w.weight, w.created_at`

// InsertWorkouts logs a batch of sets for userID in one transaction. Either
// every set is stored or none is.
func (s *Store) InsertWorkouts(userID string, sets []NewWorkout) ([]Workout, error) {
	if userID == "" {
		return nil, errors.New("insert workouts: user id is required")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(sets))
	now := time.Now().UTC()
	for i, set := range sets {
		if set.Reps < 0 || set.Weight < 0 {
			return nil, fmt.Errorf("insert workouts: set %d has negative reps or weight", i+1)
		}
		created := set.CreatedAt
		if created.IsZero() {
			created = now
		}
		id := uuid.NewString()
		_, err := tx.Exec(
			`INSERT INTO workouts (id, user_id, exercise_id, reps, weight, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, userID, set.ExerciseID, set.Reps, set.Weight, created.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return nil, fmt.Errorf("insert workout %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	out := make([]Workout, 0, len(ids))
	for _, id := range ids {
		w, err := s.GetWorkout(id)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, nil
}

func (s *Store) GetWorkout(id string) (*Workout, error) {
	row := s.db.QueryRow(
		`SELECT `+workoutColumns+` FROM workouts w
		 LEFT JOIN exercises x ON x.id = w.exercise_id
		 WHERE w.id = ?`, id,
	)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get workout %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get workout %s: %w", id, err)
	}
	return w, nil
}

// UpdateWorkout changes the reps and weight of a logged set.
func (s *Store) UpdateWorkout(id string, reps int, weight float64) error {
	if reps < 0 || weight < 0 {
		return fmt.Errorf("update workout %s: negative reps or weight", id)
	}
	res, err := s.db.Exec(`UPDATE workouts SET reps = ?, weight = ? WHERE id = ?`, reps, weight, id)
	if err != nil {
		return fmt.Errorf("update workout %s: %w", id, err)
	}
	return expectAffected(res, "workout", id)
}

func (s *Store) DeleteWorkout(id string) error {
	res, err := s.db.Exec(`DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}
	return expectAffected(res, "workout", id)
}

// ListWorkouts returns the user's sets, newest first.
func (s *Store) ListWorkouts(userID string, f WorkoutFilter) ([]Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts w
		LEFT JOIN exercises x ON x.id = w.exercise_id
		WHERE w.user_id = ?`
	args := []any{userID}

	if f.ExerciseID != nil {
		query += ` AND w.exercise_id = ?`
		args = append(args, *f.ExerciseID)
	}
	if f.From != nil {
		query += ` AND w.created_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND w.created_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY w.created_at DESC, w.rowid DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkout(sc scanner) (*Workout, error) {
	var w Workout
	var exerciseID sql.NullInt64
	var createdAt string
	if err := sc.Scan(&w.ID, &w.UserID, &exerciseID, &w.ExerciseName, &w.Section, &w.Reps, &w.Weight, &createdAt); err != nil {
		return nil, err
	}
	if exerciseID.Valid {
		w.ExerciseID = &exerciseID.Int64
	}
	w.CreatedAt = analysis.ParseTimestamp(createdAt)
	if w.CreatedAt.IsZero() {
		logrus.Warnf("store: workout %s has unreadable created_at %q", w.ID, createdAt)
	}
	return &w, nil
}
