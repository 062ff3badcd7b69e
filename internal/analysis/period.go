package analysis

import (
	"sort"
	"time"
)

// Granularity selects the calendar window an aggregate covers.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
)

func (g Granularity) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	}
	return "unknown"
}

// Window is a half-open UTC range [Start, End).
type Window struct {
	Granularity Granularity
	Start       time.Time
	End         time.Time
}

// DayWindow returns the UTC day containing t.
func DayWindow(t time.Time) Window {
	start := StartOfDay(t)
	return Window{Granularity: Day, Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekWindow returns the Monday-start week containing t.
func WeekWindow(t time.Time) Window {
	start := WeekStart(t)
	return Window{Granularity: Week, Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthWindow returns the calendar month containing t.
func MonthWindow(t time.Time) Window {
	start := MonthStart(t)
	return Window{Granularity: Month, Start: start, End: start.AddDate(0, 1, 0)}
}

// WindowFor returns the window of granularity g containing t.
func WindowFor(g Granularity, t time.Time) Window {
	switch g {
	case Week:
		return WeekWindow(t)
	case Month:
		return MonthWindow(t)
	default:
		return DayWindow(t)
	}
}

// WeekStart returns the Monday at UTC midnight on or before t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// MonthStart returns the first of t's month at UTC midnight.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Previous returns the window immediately before w.
func (w Window) Previous() Window {
	return w.Shift(-1)
}

// Shift moves w by n windows of its own granularity.
func (w Window) Shift(n int) Window {
	switch w.Granularity {
	case Week:
		return WeekWindow(w.Start.AddDate(0, 0, 7*n))
	case Month:
		return MonthWindow(w.Start.AddDate(0, n, 0))
	default:
		return DayWindow(w.Start.AddDate(0, 0, n))
	}
}

// Contains reports whether day falls inside w.
func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.Start) && day.Before(w.End)
}

// ExerciseAggregate sums the sets of one exercise within a period.
type ExerciseAggregate struct {
	Name        string
	TotalLoad   float64
	TotalReps   int
	Sets        int
	BestSetLoad float64
	// LastMaxWeight is the heaviest weight lifted in the period. It is the
	// baseline max when this aggregate is the previous side of a comparison.
	LastMaxWeight float64
}

// SectionAggregate sums one muscle group within a period.
type SectionAggregate struct {
	Name        string
	TotalLoad   float64
	TotalReps   int
	Sets        int
	BestSetLoad float64
	DayCount    int // distinct days this section was trained
	Exercises   map[string]ExerciseAggregate
}

// ExerciseNames returns exercise names in alphabetical order.
func (s SectionAggregate) ExerciseNames() []string {
	return sortedKeys(s.Exercises)
}

// PeriodAggregate is the grouped load of a day, week or month.
type PeriodAggregate struct {
	Granularity Granularity
	PeriodStart time.Time
	PeriodEnd   time.Time
	Sections    map[string]SectionAggregate
	OverallLoad float64
	OverallReps int
	// DayCount is the number of distinct days with entries, never below 1.
	DayCount int
	Days     []string
}

// AvgLoadPerDay is OverallLoad / DayCount.
func (p PeriodAggregate) AvgLoadPerDay() float64 {
	return p.OverallLoad / float64(p.days())
}

// SectionAvg returns a section's total divided by the period DayCount.
// Missing sections return 0.
func (p PeriodAggregate) SectionAvg(section string) float64 {
	s, ok := p.Sections[section]
	if !ok {
		return 0
	}
	return s.TotalLoad / float64(p.days())
}

// SectionAverages maps every section to its per-day average.
func (p PeriodAggregate) SectionAverages() map[string]float64 {
	avgs := make(map[string]float64, len(p.Sections))
	for name := range p.Sections {
		avgs[name] = p.SectionAvg(name)
	}
	return avgs
}

// SectionNames returns section names in alphabetical order.
func (p PeriodAggregate) SectionNames() []string {
	return sortedKeys(p.Sections)
}

// Empty reports whether the period holds no entries.
func (p PeriodAggregate) Empty() bool {
	return len(p.Days) == 0
}

func (p PeriodAggregate) days() int {
	if p.DayCount < 1 {
		return 1
	}
	return p.DayCount
}

// Aggregate groups the entries falling inside w by section and exercise.
func Aggregate(entries []Entry, w Window) PeriodAggregate {
	type sectionAcc struct {
		agg       SectionAggregate
		exercises map[string]*ExerciseAggregate
		days      map[string]struct{}
	}

	sections := make(map[string]*sectionAcc)
	days := make(map[string]struct{})
	var reps int

	for _, e := range entries {
		if !w.Contains(e.Day) {
			continue
		}
		days[e.DayKey] = struct{}{}
		reps += e.Reps

		acc, ok := sections[e.Section]
		if !ok {
			acc = &sectionAcc{
				agg:       SectionAggregate{Name: e.Section},
				exercises: make(map[string]*ExerciseAggregate),
				days:      make(map[string]struct{}),
			}
			sections[e.Section] = acc
		}
		acc.days[e.DayKey] = struct{}{}
		acc.agg.TotalReps += e.Reps
		acc.agg.Sets++
		acc.agg.BestSetLoad = max(acc.agg.BestSetLoad, e.Load)

		ex, ok := acc.exercises[e.Exercise]
		if !ok {
			ex = &ExerciseAggregate{Name: e.Exercise}
			acc.exercises[e.Exercise] = ex
		}
		ex.TotalLoad += e.Load
		ex.TotalReps += e.Reps
		ex.Sets++
		ex.BestSetLoad = max(ex.BestSetLoad, e.Load)
		ex.LastMaxWeight = max(ex.LastMaxWeight, e.Weight)
	}

	out := PeriodAggregate{
		Granularity: w.Granularity,
		PeriodStart: w.Start,
		PeriodEnd:   w.End,
		Sections:    make(map[string]SectionAggregate, len(sections)),
		OverallReps: reps,
		DayCount:    max(len(days), 1),
		Days:        sortedKeys(days),
	}

	// Totals are summed child-first in name order so that parents equal the
	// sum of their children exactly.
	for _, name := range sortedKeys(sections) {
		acc := sections[name]
		agg := acc.agg
		agg.DayCount = len(acc.days)
		agg.Exercises = make(map[string]ExerciseAggregate, len(acc.exercises))
		for _, exName := range sortedKeys(acc.exercises) {
			ex := *acc.exercises[exName]
			agg.Exercises[exName] = ex
			agg.TotalLoad += ex.TotalLoad
		}
		out.Sections[name] = agg
		out.OverallLoad += agg.TotalLoad
	}
	return out
}

// AggregateDay aggregates the entries of exactly one day key.
func AggregateDay(entries []Entry, dayKey string) PeriodAggregate {
	day, ok := ParseDayKey(dayKey)
	if !ok {
		return Aggregate(nil, Window{Granularity: Day})
	}
	return Aggregate(entries, DayWindow(day))
}

// AggregateWeek aggregates [weekStart, weekStart+7d). A weekStart that is not
// a Monday at UTC midnight is moved back to the Monday of its week.
func AggregateWeek(entries []Entry, weekStart time.Time) PeriodAggregate {
	return Aggregate(entries, WeekWindow(weekStart))
}

// AggregateMonth aggregates the calendar month starting at monthStart,
// re-normalized to the first of the month.
func AggregateMonth(entries []Entry, monthStart time.Time) PeriodAggregate {
	return Aggregate(entries, MonthWindow(monthStart))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
