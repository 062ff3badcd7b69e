package analysis

import (
	"math"
	"sort"
)

// DefaultTolerance is the proportion gap below target at which a section
// counts as under-trained.
const DefaultTolerance = 0.05

// MuscleTarget is the user's desired relative emphasis for a section.
type MuscleTarget struct {
	Section string
	Ratio   float64
}

// Imbalance compares a section's share of training load with its target share.
type Imbalance struct {
	Section string
	Actual  float64
	Target  float64
	Diff    float64 // Actual - Target
}

// Needed is the proportion still missing to reach the target. Negative
// values mean the section is over its target.
func (i Imbalance) Needed() float64 {
	return -i.Diff
}

// TargetProportions normalizes ratios so that they sum to 1. Non-positive or
// non-finite ratios count as 0; an all-zero input yields all-zero proportions.
func TargetProportions(targets []MuscleTarget) map[string]float64 {
	ordered, ratios := dedupeTargets(targets)
	var sum float64
	for _, section := range ordered {
		sum += ratios[section]
	}
	return proportions(ordered, ratios, sum)
}

// ActualProportions divides each section average by the sum of all averages.
func ActualProportions(sectionAverages map[string]float64) map[string]float64 {
	names := sortedKeys(sectionAverages)
	values := make(map[string]float64, len(names))
	var sum float64
	for _, name := range names {
		v := clamp(sectionAverages[name])
		values[name] = v
		sum += v
	}
	return proportions(names, values, sum)
}

// AnalyzeBalance returns one Imbalance per target section, ordered by Diff
// ascending. Sections with equal Diff keep their target order.
func AnalyzeBalance(sectionAverages map[string]float64, targets []MuscleTarget) []Imbalance {
	ordered, _ := dedupeTargets(targets)
	target := TargetProportions(targets)
	actual := ActualProportions(sectionAverages)

	out := make([]Imbalance, 0, len(ordered))
	for _, section := range ordered {
		out = append(out, Imbalance{
			Section: section,
			Actual:  actual[section],
			Target:  target[section],
			Diff:    actual[section] - target[section],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Diff < out[j].Diff
	})
	return out
}

// UnderTrained keeps the imbalances whose Diff is below -tolerance,
// preserving order.
func UnderTrained(imbalances []Imbalance, tolerance float64) []Imbalance {
	var out []Imbalance
	for _, im := range imbalances {
		if im.Diff < -tolerance {
			out = append(out, im)
		}
	}
	return out
}

// Sections lists the section names of imbalances in order.
func Sections(imbalances []Imbalance) []string {
	names := make([]string, len(imbalances))
	for i, im := range imbalances {
		names[i] = im.Section
	}
	return names
}

// dedupeTargets keeps the first position of every section and the last ratio
// given for it.
func dedupeTargets(targets []MuscleTarget) ([]string, map[string]float64) {
	ordered := make([]string, 0, len(targets))
	ratios := make(map[string]float64, len(targets))
	for _, t := range targets {
		section := nameOrUnknown(t.Section)
		if _, seen := ratios[section]; !seen {
			ordered = append(ordered, section)
		}
		ratios[section] = clamp(t.Ratio)
	}
	return ordered, ratios
}

func proportions(names []string, values map[string]float64, sum float64) map[string]float64 {
	out := make(map[string]float64, len(names))
	for _, name := range names {
		if sum <= 0 || math.IsInf(sum, 0) {
			out[name] = 0
			continue
		}
		out[name] = values[name] / sum
	}
	return out
}
