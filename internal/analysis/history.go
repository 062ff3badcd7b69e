package analysis

import "sort"

// DailyLoad is the total load logged on one day.
type DailyLoad struct {
	DayKey string
	Load   float64
	Sets   int
}

// ExerciseHistory returns the per-day load of one exercise, oldest first.
// An empty section matches any section.
func ExerciseHistory(entries []Entry, exercise, section string) []DailyLoad {
	return dailySeries(entries, func(e Entry) bool {
		return e.Exercise == exercise && (section == "" || e.Section == section)
	})
}

// SectionHistory returns the per-day load of one section, oldest first.
func SectionHistory(entries []Entry, section string) []DailyLoad {
	return dailySeries(entries, func(e Entry) bool { return e.Section == section })
}

func dailySeries(entries []Entry, match func(Entry) bool) []DailyLoad {
	byDay := make(map[string]*DailyLoad)
	for _, e := range entries {
		if !match(e) {
			continue
		}
		d, ok := byDay[e.DayKey]
		if !ok {
			d = &DailyLoad{DayKey: e.DayKey}
			byDay[e.DayKey] = d
		}
		d.Load += e.Load
		d.Sets++
	}
	out := make([]DailyLoad, 0, len(byDay))
	for _, key := range sortedKeys(byDay) {
		out = append(out, *byDay[key])
	}
	return out
}

// LastMaxBefore returns the heaviest weight logged for an exercise on any day
// strictly before dayKey, or 0. An empty section matches any section.
func LastMaxBefore(entries []Entry, exercise, section, dayKey string) float64 {
	var best float64
	for _, e := range entries {
		if e.DayKey >= dayKey || e.Exercise != exercise {
			continue
		}
		if section != "" && e.Section != section {
			continue
		}
		best = max(best, e.Weight)
	}
	return best
}

// DayLoad sums the load of every entry on dayKey.
func DayLoad(entries []Entry, dayKey string) float64 {
	var total float64
	for _, e := range entries {
		if e.DayKey == dayKey {
			total += e.Load
		}
	}
	return total
}

// LoggedDays returns every day key with entries, newest first. Entries
// without a timestamp have no day and are skipped.
func LoggedDays(entries []Entry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.Day.IsZero() {
			continue
		}
		seen[e.DayKey] = struct{}{}
	}
	days := sortedKeys(seen)
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days
}
