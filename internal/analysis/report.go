package analysis

import "time"

// Report bundles every figure derived from one snapshot.
type Report struct {
	Now       time.Time
	DayKey    string
	Today     Comparison // today vs last logged day
	Week      Comparison // this week vs last week
	Month     Comparison // this month vs last month
	Tolerance float64

	TodayLoad float64
	// ToGoToday is last week's per-day average minus today's load.
	ToGoToday float64

	ThisWeekBalance      []Imbalance
	LastWeekBalance      []Imbalance
	ThisWeekUnderTrained []Imbalance
	LastWeekUnderTrained []Imbalance

	// FirstWorkoutOfWeek is true when nothing but today (or nothing at all)
	// was logged this week.
	FirstWorkoutOfWeek bool
}

// BuildReport recomputes every aggregate from records. A non-positive
// tolerance falls back to DefaultTolerance.
func BuildReport(records []WorkoutRecord, targets []MuscleTarget, now time.Time, tolerance float64) Report {
	if !(tolerance > 0) {
		tolerance = DefaultTolerance
	}
	entries := NormalizeAll(records)
	today := DayKey(now)

	r := Report{
		Now:       now.UTC(),
		DayKey:    today,
		Today:     CompareToday(entries, now),
		Week:      ComparePeriod(entries, Week, now),
		Month:     ComparePeriod(entries, Month, now),
		Tolerance: tolerance,
		TodayLoad: DayLoad(entries, today),
	}
	r.ToGoToday = r.Week.Previous.AvgLoadPerDay() - r.TodayLoad

	r.ThisWeekBalance = AnalyzeBalance(r.Week.Current.SectionAverages(), targets)
	r.LastWeekBalance = AnalyzeBalance(r.Week.Previous.SectionAverages(), targets)
	r.ThisWeekUnderTrained = UnderTrained(r.ThisWeekBalance, tolerance)
	r.LastWeekUnderTrained = UnderTrained(r.LastWeekBalance, tolerance)

	days := r.Week.Current.Days
	r.FirstWorkoutOfWeek = len(days) == 0 || (len(days) == 1 && days[0] == today)
	return r
}
