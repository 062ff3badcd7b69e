package store

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
)

// ListMuscleTargets returns the user's targets in the order they were saved.
func (s *Store) ListMuscleTargets(userID string) ([]MuscleTarget, error) {
	rows, err := s.db.Query(
		`SELECT section, ratio FROM muscle_targets WHERE user_id = ? ORDER BY position, section`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list muscle targets: %w", err)
	}
	defer rows.Close()

	var targets []MuscleTarget
	for rows.Next() {
		var t MuscleTarget
		if err := rows.Scan(&t.Section, &t.Ratio); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// SaveMuscleTargets upserts targets keyed on (user, section). Positions
// follow slice order.
func (s *Store) SaveMuscleTargets(userID string, targets []MuscleTarget) error {
	return s.ReplaceMuscleTargets(userID, targets, nil)
}

// ReplaceMuscleTargets upserts targets and deletes the remove sections in one
// transaction. Sections in remove that do not exist are ignored.
func (s *Store) ReplaceMuscleTargets(userID string, targets []MuscleTarget, remove []string) error {
	if err := ValidateTargets(targets); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for i, t := range targets {
		_, err := tx.Exec(
			`INSERT INTO muscle_targets (user_id, section, ratio, position) VALUES (?, ?, ?, ?)
			 ON CONFLICT(user_id, section) DO UPDATE SET ratio = excluded.ratio, position = excluded.position`,
			userID, strings.TrimSpace(t.Section), t.Ratio, i,
		)
		if err != nil {
			return fmt.Errorf("save muscle target %q: %w", t.Section, err)
		}
	}
	for _, section := range remove {
		if _, err := tx.Exec(`DELETE FROM muscle_targets WHERE user_id = ? AND section = ?`, userID, section); err != nil {
			return fmt.Errorf("delete muscle target %q: %w", section, err)
		}
	}
	return tx.Commit()
}

func (s *Store) DeleteMuscleTarget(userID, section string) error {
	res, err := s.db.Exec(`DELETE FROM muscle_targets WHERE user_id = ? AND section = ?`, userID, section)
	if err != nil {
		return fmt.Errorf("delete muscle target %q: %w", section, err)
	}
	return expectAffected(res, "muscle target", section)
}

// SeedMuscleTargets stores defaults when the user has no targets yet and
// reports whether it did.
func (s *Store) SeedMuscleTargets(userID string, defaults []MuscleTarget) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM muscle_targets WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return false, fmt.Errorf("count muscle targets: %w", err)
	}
	if n > 0 || len(defaults) == 0 {
		return false, nil
	}
	if err := s.SaveMuscleTargets(userID, defaults); err != nil {
		return false, err
	}
	return true, nil
}

// ValidateTargets checks every target and combines all problems found.
func ValidateTargets(targets []MuscleTarget) error {
	var err error
	for i, t := range targets {
		if strings.TrimSpace(t.Section) == "" {
			err = multierr.Append(err, fmt.Errorf("target %d: section is required", i+1))
		}
		if math.IsNaN(t.Ratio) || math.IsInf(t.Ratio, 0) || t.Ratio <= 0 {
			err = multierr.Append(err, fmt.Errorf("target %d (%s): ratio must be a positive number", i+1, t.Section))
		}
	}
	if err != nil {
		return errors.Join(ErrInvalidTarget, err)
	}
	return nil
}

// ErrInvalidTarget wraps validation failures from ValidateTargets.
var ErrInvalidTarget = errors.New("invalid muscle target")
