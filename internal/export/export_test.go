package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sadopc/liftr/internal/analysis"
	"github.com/sadopc/liftr/internal/store"
)

func sampleData() []store.Workout {
	squat := int64(1)
	row := int64(2)
	day := time.Date(2024, time.January, 8, 9, 30, 0, 0, time.UTC)

	return []store.Workout{
		{
			ID:           "a1",
			UserID:       "u1",
			ExerciseID:   &squat,
			ExerciseName: "Squat",
			Section:      "Legs",
			Reps:         10,
			Weight:       62.5,
			CreatedAt:    day,
		},
		{
			ID:           "a2",
			UserID:       "u1",
			ExerciseID:   &row,
			ExerciseName: "Barbell Row",
			Section:      "Back",
			Reps:         8,
			Weight:       50,
			CreatedAt:    day.Add(10 * time.Minute),
		},
		{
			ID:        "a3",
			UserID:    "u1",
			Reps:      5,
			Weight:    20,
			CreatedAt: day.Add(20 * time.Minute), // exercise was removed
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func readJSON(t *testing.T, path string) jsonExport {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return result
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	want := [][]string{
		{"ID", "Date", "Time", "Section", "Exercise", "Reps", "Weight", "Load"},
		{"a1", "2024-01-08", "2024-01-08T09:30:00Z", "Legs", "Squat", "10", "62.5", "625"},
	}
	if diff := cmp.Diff(want, records[:2]); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVUnknownExercise(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown.csv")
	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatal(err)
	}
	row := readCSV(t, path)[3]
	if row[3] != analysis.Unknown || row[4] != analysis.Unknown {
		t.Fatalf("expected Unknown section and exercise, got %q / %q", row[3], row[4])
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	ws := []store.Workout{{
		ID:           "x",
		ExerciseName: `Curl "21s", strict`,
		Section:      "Arms",
		Reps:         21,
		Weight:       10,
		CreatedAt:    time.Now(),
	}}
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := ToCSV(ws, path); err != nil {
		t.Fatal(err)
	}
	if got := readCSV(t, path)[1][4]; got != `Curl "21s", strict` {
		t.Fatalf("exercise name mangled: %q", got)
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ToJSON(sampleData(), nil, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	result := readJSON(t, path)
	if result.Count != 3 || len(result.Workouts) != 3 {
		t.Fatalf("count = %d, workouts = %d, want 3", result.Count, len(result.Workouts))
	}
	if result.Summary != nil {
		t.Fatal("summary should be omitted without a report")
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	want := jsonWorkout{
		ID:       "a1",
		Day:      "2024-01-08",
		Time:     "2024-01-08T09:30:00Z",
		Section:  "Legs",
		Exercise: "Squat",
		Reps:     10,
		Weight:   62.5,
		Load:     625,
	}
	if diff := cmp.Diff(want, result.Workouts[0]); diff != "" {
		t.Fatalf("workout mismatch (-want +got):\n%s", diff)
	}
	if result.Workouts[2].Exercise != analysis.Unknown {
		t.Fatalf("expected Unknown, got %q", result.Workouts[2].Exercise)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"workouts": []`) {
		t.Fatalf("empty export should carry an empty list: %s", data)
	}
}

func TestToJSONWithSummary(t *testing.T) {
	ws := sampleData()
	records := store.Records(ws)
	targets := []analysis.MuscleTarget{{Section: "Legs", Ratio: 1}, {Section: "Back", Ratio: 1}}
	now := time.Date(2024, time.January, 9, 12, 0, 0, 0, time.UTC)
	report := analysis.BuildReport(records, targets, now, 0)

	path := filepath.Join(t.TempDir(), "summary.json")
	if err := ToJSON(ws, &report, path); err != nil {
		t.Fatal(err)
	}
	s := readJSON(t, path).Summary
	if s == nil {
		t.Fatal("expected summary")
	}
	if s.WeekStart != "2024-01-08" {
		t.Fatalf("WeekStart = %q", s.WeekStart)
	}
	// 625 + 400 + 100
	if s.CurrentTotal != 1125 || s.LoadToGo != -1125 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if len(s.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %+v", s.Sections)
	}
	if len(s.Balance) != 2 {
		t.Fatalf("expected balance for 2 targets, got %+v", s.Balance)
	}
	if diff := cmp.Diff([]string{"Back"}, s.UnderTrained); diff != "" {
		t.Fatalf("under-trained mismatch (-want +got):\n%s", diff)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be pretty-printed with indentation")
	}
}
