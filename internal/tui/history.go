package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftr/internal/analysis"
)

type historyModel struct {
	width  int
	height int

	snap   *snapshot
	days   []string // newest first
	cursor int
}

func newHistoryModel() historyModel {
	return historyModel{}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

func (h *historyModel) setSnapshot(s *snapshot) {
	h.snap = s
	h.days = analysis.LoggedDays(s.entries)
	if h.cursor >= len(h.days) {
		h.cursor = max(0, len(h.days)-1)
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.days)-1 {
				h.cursor++
			}
		}
	}
	return h, nil
}

func (h historyModel) selectedDay() (string, bool) {
	if h.cursor < len(h.days) {
		return h.days[h.cursor], true
	}
	return "", false
}

func (h historyModel) view() string {
	w := h.width - 4
	title := titleStyle.Render("History")
	if h.snap == nil || len(h.days) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No workouts logged yet"),
		))
	}

	listWidth := 28
	list := h.renderDayList()
	detail := h.renderDayDetail(max(20, w-listWidth-6))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list),
		detail,
	)
	nav := mutedStyle.Render("  ↑/↓: select day")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", nav))
}

func (h historyModel) renderDayList() string {
	visible := max(5, h.height-8)
	start := 0
	if h.cursor >= visible {
		start = h.cursor - visible + 1
	}
	end := min(len(h.days), start+visible)

	var rows []string
	for i := start; i < end; i++ {
		day := h.days[i]
		cursor, render := cursorPrefix(i == h.cursor)
		rows = append(rows, render(fmt.Sprintf("%s%s %9s", cursor, day, formatLoad(analysis.DayLoad(h.snap.entries, day)))))
	}
	return strings.Join(rows, "\n")
}

func (h historyModel) renderDayDetail(w int) string {
	day, ok := h.selectedDay()
	if !ok {
		return ""
	}
	agg := analysis.AggregateDay(h.snap.entries, day)
	unit := h.snap.unit

	rows := []string{
		highlightStyle.Render(day) + mutedStyle.Render(fmt.Sprintf("  %s total, %d reps", formatLoad(agg.OverallLoad), agg.OverallReps)),
		"",
	}
	for i, name := range agg.SectionNames() {
		s := agg.Sections[name]
		dot := sectionStyle(i).Render("●")
		rows = append(rows, fmt.Sprintf("%s %-16s %10s  %d sets", dot, name, formatLoad(s.TotalLoad), s.Sets))
		for _, ex := range s.ExerciseNames() {
			e := s.Exercises[ex]
			prevMax := analysis.LastMaxBefore(h.snap.entries, ex, name, day)
			trend := ""
			switch {
			case prevMax == 0:
				trend = mutedStyle.Render("  first time")
			case e.LastMaxWeight > prevMax:
				trend = successStyle.Render("  ▲ new max")
			case e.LastMaxWeight < prevMax:
				trend = mutedStyle.Render("  prev max " + formatWeight(prevMax, unit))
			}
			rows = append(rows, fmt.Sprintf("    %-16s %10s  %d×, top %s%s",
				ex, formatLoad(e.TotalLoad), e.Sets, formatWeight(e.LastMaxWeight, unit), trend))
		}
	}
	return lipgloss.NewStyle().Width(w).Render(strings.Join(rows, "\n"))
}
