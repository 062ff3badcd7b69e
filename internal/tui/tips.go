package tui

import (
	"strings"

	"github.com/sadopc/liftr/internal/analysis"
)

func lastWeekTip(under []analysis.Imbalance) string {
	switch len(under) {
	case 0:
		return "Tip: Great balance last week! Keep it up 🔥"
	case 1:
		return "Tip: Last week lacked focus on " + under[0].Section + ". Prioritize it today."
	}
	return "Tip: Last week lacked focus on " + joinSections(under) + ". Prioritize these today."
}

func thisWeekTip(under []analysis.Imbalance) string {
	if len(under) == 0 {
		return "This Week Tip: This week is well balanced so far. Great job 🔥"
	}
	return "This Week Tip: You undertrained " + joinSections(under) + " so far. Focus on them today."
}

func joinSections(under []analysis.Imbalance) string {
	return strings.Join(analysis.Sections(under), ", ")
}

// tips returns the tip lines for a report. The this-week tip is left out on
// the first workout of the week, when there is nothing to judge yet.
func tips(r analysis.Report) []string {
	out := []string{lastWeekTip(r.LastWeekUnderTrained)}
	if !r.FirstWorkoutOfWeek {
		out = append(out, thisWeekTip(r.ThisWeekUnderTrained))
	}
	return out
}
