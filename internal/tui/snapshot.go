package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/liftr/internal/analysis"
	"github.com/sadopc/liftr/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// snapshot is everything the views render, loaded in one pass and analysed
// in memory. Views never query the store for reads.
type snapshot struct {
	loadedAt  time.Time
	unit      string
	showTips  bool
	workouts  []store.Workout // newest first
	exercises []store.Exercise
	targets   []store.MuscleTarget
	entries   []analysis.Entry
	report    analysis.Report
}

// todaySets returns the sets logged on the report day, newest first.
func (s *snapshot) todaySets() []store.Workout {
	var out []store.Workout
	for _, w := range s.workouts {
		if analysis.DayKey(w.CreatedAt) == s.report.DayKey {
			out = append(out, w)
		}
	}
	return out
}

func (s *snapshot) visibleExercises() []store.Exercise {
	var out []store.Exercise
	for _, e := range s.exercises {
		if !e.Hidden {
			out = append(out, e)
		}
	}
	return out
}

type loader struct {
	store     *store.Store
	userID    string
	tolerance float64
	now       func() time.Time
}

func (l loader) load(ctx context.Context) (*snapshot, error) {
	var (
		workouts  []store.Workout
		exercises []store.Exercise
		targets   []store.MuscleTarget
		settings  []store.Setting
	)

	// Queries still waiting once one has failed are skipped.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		workouts, err = l.store.ListWorkouts(l.userID, store.WorkoutFilter{})
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		exercises, err = l.store.ListExercises(true)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		targets, err = l.store.ListMuscleTargets(l.userID)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		settings, err = l.store.GetAllSettings()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	snap := &snapshot{
		loadedAt:  l.now(),
		unit:      "kg",
		showTips:  true,
		workouts:  workouts,
		exercises: exercises,
		targets:   targets,
	}
	tolerance := l.tolerance
	for _, s := range settings {
		switch s.Key {
		case "unit":
			snap.unit = s.Value
		case "show_tips":
			snap.showTips = s.Value != "off"
		case "balance_tolerance":
			if v, err := parseWeight(s.Value); err == nil && v > 0 && v < 1 {
				tolerance = v
			}
		}
	}

	records := store.Records(workouts)
	snap.entries = analysis.NormalizeAll(records)
	snap.report = analysis.BuildReport(records, analysisTargets(targets), snap.loadedAt, tolerance)

	logrus.Debugf("tui: loaded %d workouts, %d exercises, %d targets", len(workouts), len(exercises), len(targets))
	return snap, nil
}

func (l loader) cmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := l.load(context.Background())
		if err != nil {
			logrus.Errorf("tui: %v", err)
		}
		return snapshotMsg{snap: snap, err: err}
	}
}

func analysisTargets(targets []store.MuscleTarget) []analysis.MuscleTarget {
	out := make([]analysis.MuscleTarget, 0, len(targets))
	for _, t := range targets {
		out = append(out, analysis.MuscleTarget{Section: t.Section, Ratio: t.Ratio})
	}
	return out
}
