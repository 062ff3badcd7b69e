// Package analysis aggregates logged sets into day, week and month training
// load figures, compares periods and measures muscle-group balance.
//
// Every function is a pure transformation of an in-memory snapshot. Day keys
// are always computed in UTC.
package analysis

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Unknown is the bucket used for records without exercise or section metadata.
const Unknown = "Unknown"

const dayLayout = "2006-01-02"

// WorkoutRecord is one logged set as supplied by the data store.
type WorkoutRecord struct {
	ID           string
	UserID       string
	ExerciseID   int64
	ExerciseName string
	SectionName  string
	Reps         int
	Weight       float64
	CreatedAt    time.Time
}

// Entry is a normalized set with its derived day key and load.
type Entry struct {
	DayKey   string
	Day      time.Time // UTC midnight of DayKey
	Section  string
	Exercise string
	Reps     int
	Weight   float64
	Load     float64
}

// Normalize converts a record into an Entry. It never fails: bad numbers
// clamp to 0 and missing names become Unknown.
func Normalize(r WorkoutRecord) Entry {
	reps := r.Reps
	if reps < 0 {
		reps = 0
	}
	weight := clamp(r.Weight)
	day := StartOfDay(r.CreatedAt)
	return Entry{
		DayKey:   day.Format(dayLayout),
		Day:      day,
		Section:  nameOrUnknown(r.SectionName),
		Exercise: nameOrUnknown(r.ExerciseName),
		Reps:     reps,
		Weight:   weight,
		Load:     weight * float64(reps),
	}
}

// NormalizeAll normalizes records in order.
func NormalizeAll(records []WorkoutRecord) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, Normalize(r))
	}
	return entries
}

// DayKey returns the UTC calendar date of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDayKey parses a YYYY-MM-DD key. Invalid keys yield the zero time.
func ParseDayKey(key string) (time.Time, bool) {
	t, err := time.ParseInLocation(dayLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	dayLayout,
}

// ParseTimestamp accepts ISO-8601 / SQLite datetime strings and epoch
// seconds or milliseconds. Anything else yields the zero time.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		// 1e11 seconds is year 5138, so anything larger is milliseconds.
		if n > 1e11 || n < -1e11 {
			return time.UnixMilli(n).UTC()
		}
		return time.Unix(n, 0).UTC()
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func nameOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}
