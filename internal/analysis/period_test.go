package analysis

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// ============================================================
// Windows
// ============================================================

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", time.Date(2024, time.January, 1, 15, 0, 0, 0, time.UTC), date(2024, time.January, 1)},
		{"wednesday", date(2024, time.January, 3), date(2024, time.January, 1)},
		{"sunday", time.Date(2024, time.January, 7, 23, 59, 0, 0, time.UTC), date(2024, time.January, 1)},
		{"next monday", date(2024, time.January, 8), date(2024, time.January, 8)},
		{"across year", date(2023, time.December, 31), date(2023, time.December, 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.want) {
				t.Fatalf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMonthWindow(t *testing.T) {
	w := MonthWindow(time.Date(2024, time.February, 17, 8, 0, 0, 0, time.UTC))
	if !w.Start.Equal(date(2024, time.February, 1)) || !w.End.Equal(date(2024, time.March, 1)) {
		t.Fatalf("unexpected window: %v - %v", w.Start, w.End)
	}
	if !w.Contains(date(2024, time.February, 29)) {
		t.Fatal("leap day should be inside February")
	}
	if w.Contains(date(2024, time.March, 1)) {
		t.Fatal("window end is exclusive")
	}
}

func TestWindowPrevious(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		want time.Time
	}{
		{"day", DayWindow(date(2024, time.March, 1)), date(2024, time.February, 29)},
		{"week", WeekWindow(date(2024, time.January, 3)), date(2023, time.December, 25)},
		{"month", MonthWindow(date(2024, time.March, 31)), date(2024, time.February, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := tt.w.Previous()
			if !prev.Start.Equal(tt.want) {
				t.Fatalf("Previous().Start = %v, want %v", prev.Start, tt.want)
			}
			if !prev.End.Equal(tt.w.Start) {
				t.Fatalf("previous window should end where current starts: %v vs %v", prev.End, tt.w.Start)
			}
		})
	}
}

func TestGranularityString(t *testing.T) {
	if Day.String() != "day" || Week.String() != "week" || Month.String() != "month" {
		t.Fatal("unexpected granularity names")
	}
}

// ============================================================
// Aggregation
// ============================================================

func TestAggregateDayScenarioA(t *testing.T) {
	es := entries(
		rec("Legs", "Squat", 10, 50, "2024-01-01T09:00:00Z"),
		rec("Legs", "Squat", 8, 60, "2024-01-01T09:10:00Z"),
	)
	agg := AggregateDay(es, "2024-01-01")

	legs, ok := agg.Sections["Legs"]
	if !ok {
		t.Fatal("missing Legs section")
	}
	if legs.TotalLoad != 980 {
		t.Fatalf("Legs.TotalLoad = %v, want 980", legs.TotalLoad)
	}
	// best set is the heavier single set, 10 × 50 = 500
	if legs.BestSetLoad != 500 {
		t.Fatalf("Legs.BestSetLoad = %v, want 500", legs.BestSetLoad)
	}
	if legs.TotalReps != 18 || legs.Sets != 2 {
		t.Fatalf("unexpected reps/sets: %d/%d", legs.TotalReps, legs.Sets)
	}
	squat := legs.Exercises["Squat"]
	if squat.LastMaxWeight != 60 {
		t.Fatalf("Squat.LastMaxWeight = %v, want 60", squat.LastMaxWeight)
	}
	if agg.OverallLoad != 980 || agg.DayCount != 1 {
		t.Fatalf("unexpected overall: load=%v days=%d", agg.OverallLoad, agg.DayCount)
	}
}

func TestAggregateDayFiltersOtherDays(t *testing.T) {
	es := entries(
		rec("Legs", "Squat", 10, 50, "2024-01-01T09:00:00Z"),
		rec("Back", "Row", 10, 40, "2024-01-02T09:00:00Z"),
	)
	agg := AggregateDay(es, "2024-01-02")
	if _, ok := agg.Sections["Legs"]; ok {
		t.Fatal("Legs belongs to another day")
	}
	if agg.OverallLoad != 400 {
		t.Fatalf("OverallLoad = %v, want 400", agg.OverallLoad)
	}
}

func TestAggregateDayInvalidKey(t *testing.T) {
	es := entries(rec("Legs", "Squat", 10, 50, "2024-01-01T09:00:00Z"))
	agg := AggregateDay(es, "yesterday")
	if agg.OverallLoad != 0 || agg.DayCount != 1 {
		t.Fatalf("invalid key should yield empty aggregate, got %+v", agg)
	}
}

func TestAggregateEmptyScenarioD(t *testing.T) {
	aggs := map[string]PeriodAggregate{
		"day":   AggregateDay(nil, "2024-01-01"),
		"week":  AggregateWeek(nil, date(2024, time.January, 1)),
		"month": AggregateMonth(nil, date(2024, time.January, 1)),
	}
	for name, agg := range aggs {
		if agg.OverallLoad != 0 {
			t.Errorf("%s: OverallLoad = %v, want 0", name, agg.OverallLoad)
		}
		if agg.DayCount != 1 {
			t.Errorf("%s: DayCount = %d, want 1", name, agg.DayCount)
		}
		if agg.AvgLoadPerDay() != 0 {
			t.Errorf("%s: AvgLoadPerDay = %v, want 0", name, agg.AvgLoadPerDay())
		}
		if len(agg.Sections) != 0 || !agg.Empty() {
			t.Errorf("%s: expected no sections", name)
		}
	}
}

func TestAggregateWeekDayCountAndAverages(t *testing.T) {
	es := entries(
		rec("Legs", "Squat", 10, 50, "2024-01-01T09:00:00Z"),  // Mon
		rec("Legs", "Squat", 10, 50, "2024-01-01T09:30:00Z"),  // Mon
		rec("Back", "Row", 10, 30, "2024-01-03T09:00:00Z"),    // Wed
		rec("Back", "Row", 10, 30, "2024-01-08T09:00:00Z"),    // next Mon
		rec("Chest", "Bench", 10, 30, "2023-12-31T23:59:59Z"), // previous Sun
	)
	agg := AggregateWeek(es, date(2024, time.January, 1))

	if agg.DayCount != 2 {
		t.Fatalf("DayCount = %d, want 2", agg.DayCount)
	}
	if diff := cmp.Diff([]string{"2024-01-01", "2024-01-03"}, agg.Days); diff != "" {
		t.Fatalf("Days mismatch (-want +got):\n%s", diff)
	}
	if agg.OverallLoad != 1300 {
		t.Fatalf("OverallLoad = %v, want 1300", agg.OverallLoad)
	}
	if got := agg.SectionAvg("Legs"); got != 500 {
		t.Fatalf("Legs avg = %v, want 500", got)
	}
	if got := agg.SectionAvg("Back"); got != 150 {
		t.Fatalf("Back avg = %v, want 150", got)
	}
	if got := agg.AvgLoadPerDay(); got != 650 {
		t.Fatalf("AvgLoadPerDay = %v, want 650", got)
	}
	if agg.Sections["Legs"].DayCount != 1 {
		t.Fatalf("Legs trained on 1 day, got %d", agg.Sections["Legs"].DayCount)
	}
}

func TestAggregateWeekRenormalizesStart(t *testing.T) {
	es := entries(
		rec("Legs", "Squat", 10, 50, "2024-01-01T09:00:00Z"),
		rec("Back", "Row", 10, 30, "2024-01-05T09:00:00Z"),
	)
	fromMonday := AggregateWeek(es, date(2024, time.January, 1))
	fromThursday := AggregateWeek(es, time.Date(2024, time.January, 4, 17, 45, 0, 0, time.UTC))
	if diff := cmp.Diff(fromMonday, fromThursday); diff != "" {
		t.Fatalf("aggregates differ (-monday +thursday):\n%s", diff)
	}
}

func TestAggregateMonth(t *testing.T) {
	es := entries(
		rec("Legs", "Squat", 10, 50, "2024-02-01T00:00:00Z"),
		rec("Legs", "Squat", 10, 50, "2024-02-29T23:59:59Z"),
		rec("Legs", "Squat", 10, 50, "2024-03-01T00:00:00Z"),
	)
	agg := AggregateMonth(es, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))
	if agg.OverallLoad != 1000 || agg.DayCount != 2 {
		t.Fatalf("unexpected month aggregate: load=%v days=%d", agg.OverallLoad, agg.DayCount)
	}
	if !agg.PeriodStart.Equal(date(2024, time.February, 1)) {
		t.Fatalf("PeriodStart = %v", agg.PeriodStart)
	}
	if agg.Granularity != Month {
		t.Fatalf("Granularity = %v, want month", agg.Granularity)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	es := entries(
		rec("Legs", "Squat", 10, 50, "2024-01-01T09:00:00Z"),
		rec("Legs", "Lunge", 12, 20, "2024-01-02T09:00:00Z"),
		rec("Back", "Row", 10, 30, "2024-01-03T09:00:00Z"),
		rec("", "", 5, 5, "2024-01-03T10:00:00Z"),
	)
	first := AggregateWeek(es, date(2024, time.January, 1))
	second := AggregateWeek(es, date(2024, time.January, 1))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second aggregation differs (-first +second):\n%s", diff)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	es := entries(
		rec("Legs", "Squat", 10, 50, "2024-01-01T09:00:00Z"),
		rec("Back", "Row", 10, 30, "2024-01-03T09:00:00Z"),
	)
	snapshot := make([]Entry, len(es))
	copy(snapshot, es)

	AggregateWeek(es, date(2024, time.January, 1))
	if diff := cmp.Diff(snapshot, es); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}

func TestSectionTotalEqualsExerciseSum(t *testing.T) {
	es := entries(
		rec("Legs", "Squat", 10, 52.5, "2024-01-01T09:00:00Z"),
		rec("Legs", "Lunge", 12, 17.5, "2024-01-01T09:10:00Z"),
		rec("Legs", "Leg Press", 15, 120.25, "2024-01-01T09:20:00Z"),
	)
	legs := AggregateDay(es, "2024-01-01").Sections["Legs"]

	var sum float64
	for _, name := range legs.ExerciseNames() {
		sum += legs.Exercises[name].TotalLoad
	}
	if sum != legs.TotalLoad {
		t.Fatalf("section total %v != exercise sum %v", legs.TotalLoad, sum)
	}
	if diff := cmp.Diff([]string{"Leg Press", "Lunge", "Squat"}, legs.ExerciseNames()); diff != "" {
		t.Fatalf("ExerciseNames mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateUnknownBucket(t *testing.T) {
	es := entries(rec("", "", 10, 10, "2024-01-01T09:00:00Z"))
	agg := AggregateDay(es, "2024-01-01")
	unknown, ok := agg.Sections[Unknown]
	if !ok {
		t.Fatal("expected Unknown section")
	}
	if _, ok := unknown.Exercises[Unknown]; !ok {
		t.Fatal("expected Unknown exercise")
	}
}

func TestSectionAveragesMissingSection(t *testing.T) {
	agg := AggregateDay(nil, "2024-01-01")
	if agg.SectionAvg("Legs") != 0 {
		t.Fatal("missing section should average 0")
	}
	if len(agg.SectionAverages()) != 0 {
		t.Fatal("expected no averages")
	}
}
