package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewHistory
	viewReports
	viewBalance
	viewExercises
	viewSettings
)

var viewNames = []string{"Today", "History", "Reports", "Balance", "Exercises", "Settings"}

// --- Messages ---

type snapshotMsg struct {
	snap *snapshot
	err  error
}

// dataChangedMsg asks the app to reload the snapshot after a write.
type dataChangedMsg struct {
	status string
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

func errStatus(prefix string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
}

// --- Helpers ---

// formatLoad renders a load with thousands separators and at most one decimal.
func formatLoad(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	v = math.Round(v*10) / 10
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return humanize.CommafWithDigits(v, 1)
}

// formatToGo renders a load-to-go figure; values at or below zero mean the
// current period is already ahead.
func formatToGo(v float64) string {
	if v <= 0 {
		return successStyle.Render("+" + formatLoad(-v) + " ahead")
	}
	return warningStyle.Render(formatLoad(v) + " to go")
}

func formatWeight(w float64, unit string) string {
	return humanize.Ftoa(w) + unit
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func parseReps(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("enter a whole number of reps")
	}
	return n, nil
}

func parseWeight(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("enter a weight of 0 or more")
	}
	return f, nil
}

func parseSetCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 20 {
		return 0, fmt.Errorf("enter between 1 and 20 sets")
	}
	return n, nil
}

func validateReps(s string) error {
	_, err := parseReps(s)
	return err
}

func validateWeight(s string) error {
	_, err := parseWeight(s)
	return err
}

func validateSetCount(s string) error {
	_, err := parseSetCount(s)
	return err
}

func cursorPrefix(selected bool) (string, func(...string) string) {
	if selected {
		return "> ", selectedItemStyle.Render
	}
	return "  ", normalItemStyle.Render
}
