package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateExercise adds an exercise to the catalogue. Blank sections are
// stored as "Unknown".
func (s *Store) CreateExercise(name, section string) (*Exercise, error) {
	name = strings.TrimSpace(name)
	section = strings.TrimSpace(section)
	if name == "" {
		return nil, errors.New("create exercise: name is required")
	}
	if section == "" {
		section = "Unknown"
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO exercises (name, section, created_at) VALUES (?, ?, ?)`,
		name, section, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetExercise(id)
}

func (s *Store) GetExercise(id int64) (*Exercise, error) {
	e := &Exercise{}
	var createdAt string
	var hidden int
	err := s.db.QueryRow(
		`SELECT id, name, section, hidden, created_at FROM exercises WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.Section, &hidden, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise %d: %w", id, err)
	}
	e.Hidden = hidden == 1
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// ListExercises returns the catalogue ordered by section, then name.
func (s *Store) ListExercises(includeHidden bool) ([]Exercise, error) {
	query := `SELECT id, name, section, hidden, created_at FROM exercises`
	if !includeHidden {
		query += ` WHERE hidden = 0`
	}
	query += ` ORDER BY section, name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		var createdAt string
		var hidden int
		if err := rows.Scan(&e.ID, &e.Name, &e.Section, &hidden, &createdAt); err != nil {
			return nil, err
		}
		e.Hidden = hidden == 1
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// SetExerciseHidden hides or restores an exercise. Hidden exercises keep
// their logged workouts.
func (s *Store) SetExerciseHidden(id int64, hidden bool) error {
	v := 0
	if hidden {
		v = 1
	}
	res, err := s.db.Exec(`UPDATE exercises SET hidden = ? WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("hide exercise %d: %w", id, err)
	}
	return expectAffected(res, "exercise", fmt.Sprint(id))
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
