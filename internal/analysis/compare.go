package analysis

import "time"

// ExerciseDelta compares one exercise across two periods.
type ExerciseDelta struct {
	Name          string
	PreviousLoad  float64
	CurrentLoad   float64
	LoadToGo      float64
	LastMaxWeight float64 // heaviest weight in the previous period
	CurrentReps   int
	BestSetLoad   float64 // best set of the current period
}

// SectionDelta compares one section across two periods.
type SectionDelta struct {
	Name         string
	PreviousLoad float64
	CurrentLoad  float64
	LoadToGo     float64
	PreviousAvg  float64 // previous total / previous DayCount
	AvgLoad      float64 // current total / current DayCount
	ToGoVsLast   float64 // PreviousAvg - AvgLoad
	Exercises    map[string]ExerciseDelta
}

// ExerciseNames returns exercise names in alphabetical order.
func (s SectionDelta) ExerciseNames() []string {
	return sortedKeys(s.Exercises)
}

// OverallDelta compares two periods as a whole.
type OverallDelta struct {
	PreviousTotal float64
	CurrentTotal  float64
	LoadToGo      float64
	PreviousAvg   float64
	CurrentAvg    float64
	ToGoVsLast    float64
}

// Comparison is the diff of two aggregates of the same granularity.
// A positive LoadToGo means the current period is behind the previous one.
type Comparison struct {
	Previous PeriodAggregate
	Current  PeriodAggregate
	Sections map[string]SectionDelta
	Overall  OverallDelta
}

// SectionNames returns section names in alphabetical order.
func (c Comparison) SectionNames() []string {
	return sortedKeys(c.Sections)
}

// Compare diffs previous against current over the union of their sections and
// exercises. Missing sides count as zero. Overall figures are the sums of the
// section figures.
func Compare(previous, current PeriodAggregate) Comparison {
	names := make(map[string]struct{}, len(previous.Sections)+len(current.Sections))
	for name := range previous.Sections {
		names[name] = struct{}{}
	}
	for name := range current.Sections {
		names[name] = struct{}{}
	}

	out := Comparison{
		Previous: previous,
		Current:  current,
		Sections: make(map[string]SectionDelta, len(names)),
	}

	for _, name := range sortedKeys(names) {
		prev := previous.Sections[name]
		curr := current.Sections[name]

		delta := SectionDelta{
			Name:        name,
			PreviousAvg: previous.SectionAvg(name),
			AvgLoad:     current.SectionAvg(name),
			Exercises:   compareExercises(prev.Exercises, curr.Exercises),
		}
		for _, exName := range delta.ExerciseNames() {
			ex := delta.Exercises[exName]
			delta.PreviousLoad += ex.PreviousLoad
			delta.CurrentLoad += ex.CurrentLoad
		}
		delta.LoadToGo = delta.PreviousLoad - delta.CurrentLoad
		delta.ToGoVsLast = delta.PreviousAvg - delta.AvgLoad
		out.Sections[name] = delta

		out.Overall.PreviousTotal += delta.PreviousLoad
		out.Overall.CurrentTotal += delta.CurrentLoad
		out.Overall.LoadToGo += delta.LoadToGo
		out.Overall.PreviousAvg += delta.PreviousAvg
		out.Overall.CurrentAvg += delta.AvgLoad
		out.Overall.ToGoVsLast += delta.ToGoVsLast
	}
	return out
}

func compareExercises(prev, curr map[string]ExerciseAggregate) map[string]ExerciseDelta {
	out := make(map[string]ExerciseDelta, len(prev)+len(curr))
	for name, p := range prev {
		c := curr[name]
		out[name] = exerciseDelta(name, p, c)
	}
	for name, c := range curr {
		if _, ok := out[name]; ok {
			continue
		}
		out[name] = exerciseDelta(name, ExerciseAggregate{}, c)
	}
	return out
}

func exerciseDelta(name string, prev, curr ExerciseAggregate) ExerciseDelta {
	return ExerciseDelta{
		Name:          name,
		PreviousLoad:  prev.TotalLoad,
		CurrentLoad:   curr.TotalLoad,
		LoadToGo:      prev.TotalLoad - curr.TotalLoad,
		LastMaxWeight: prev.LastMaxWeight,
		CurrentReps:   curr.TotalReps,
		BestSetLoad:   curr.BestSetLoad,
	}
}

// LastLoggedDayBefore returns the latest day key strictly before dayKey that
// has at least one entry. Entries without a timestamp are ignored.
func LastLoggedDayBefore(entries []Entry, dayKey string) (string, bool) {
	var last string
	for _, e := range entries {
		if e.Day.IsZero() {
			continue
		}
		if e.DayKey < dayKey && e.DayKey > last {
			last = e.DayKey
		}
	}
	return last, last != ""
}

// CompareToday compares the day containing now with the last logged day
// before it. Without an earlier day the previous side is empty.
func CompareToday(entries []Entry, now time.Time) Comparison {
	today := DayKey(now)
	current := AggregateDay(entries, today)
	previous := Aggregate(nil, Window{Granularity: Day})
	if last, ok := LastLoggedDayBefore(entries, today); ok {
		previous = AggregateDay(entries, last)
	}
	return Compare(previous, current)
}

// ComparePeriod compares the week or month containing now with the one
// before it. Day granularity delegates to CompareToday.
func ComparePeriod(entries []Entry, g Granularity, now time.Time) Comparison {
	if g == Day {
		return CompareToday(entries, now)
	}
	current := WindowFor(g, now)
	return Compare(Aggregate(entries, current.Previous()), Aggregate(entries, current))
}
