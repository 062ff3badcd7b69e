package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftr/internal/analysis"
)

type reportsModel struct {
	width  int
	height int

	snap       *snapshot
	mode       analysis.Granularity
	offset     int // periods back from the current one (0 = current)
	comparison analysis.Comparison

	chart barchart.Model
}

func newReportsModel() reportsModel {
	return reportsModel{
		mode:  analysis.Week,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	if r.snap != nil {
		r.rebuild()
	}
}

func (r *reportsModel) setSnapshot(s *snapshot) {
	r.snap = s
	r.rebuild()
}

// window returns the period being reported on.
func (r reportsModel) window() analysis.Window {
	now := r.snap.loadedAt
	return analysis.WindowFor(r.mode, now).Shift(-r.offset)
}

func (r *reportsModel) rebuild() {
	w := r.window()
	r.comparison = analysis.Compare(
		analysis.Aggregate(r.snap.entries, w.Previous()),
		analysis.Aggregate(r.snap.entries, w),
	)
	r.buildChart()
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	if r.snap == nil {
		return r, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			r.rebuild()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
				r.rebuild()
			}
		case key.Matches(msg, keys.Toggle):
			if r.mode == analysis.Week {
				r.mode = analysis.Month
			} else {
				r.mode = analysis.Week
			}
			r.offset = 0
			r.rebuild()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, name := range r.comparison.SectionNames() {
		s := r.comparison.Sections[name]
		bars = append(bars, barchart.BarData{
			Label: name,
			Values: []barchart.BarValue{{
				Name:  name,
				Value: s.CurrentLoad,
				Style: sectionStyle(i),
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "",
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4
	if r.snap == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading reports..."))
	}

	weeklyTab := inactiveTabStyle.Render("Weekly")
	monthlyTab := inactiveTabStyle.Render("Monthly")
	if r.mode == analysis.Week {
		weeklyTab = activeTabStyle.Render("Weekly")
	} else {
		monthlyTab = activeTabStyle.Render("Monthly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, weeklyTab, monthlyTab)

	win := r.window()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", win.Start.Format("Jan 02"), win.End.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  t: weekly/monthly")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderOverall(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderOverall() string {
	o := r.comparison.Overall
	prevLabel := "last " + r.mode.String()
	return fmt.Sprintf("  Total %s  (%s %s)  %s\n  Avg/day %s  (%s %s)  %s",
		highlightStyle.Render(formatLoad(o.CurrentTotal)), prevLabel, formatLoad(o.PreviousTotal), formatToGo(o.LoadToGo),
		highlightStyle.Render(formatLoad(o.CurrentAvg)), prevLabel, formatLoad(o.PreviousAvg), formatToGo(o.ToGoVsLast),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	names := r.comparison.SectionNames()
	if len(names) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %10s %10s %10s %10s  %s",
		"Section", "Previous", "Current", "Prev/day", "Cur/day", "")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 70))))

	for i, name := range names {
		s := r.comparison.Sections[name]
		dot := sectionStyle(i).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-12s %10s %10s %10s %10s  %s",
			dot, name,
			formatLoad(s.PreviousLoad), formatLoad(s.CurrentLoad),
			formatLoad(s.PreviousAvg), formatLoad(s.AvgLoad),
			formatToGo(s.LoadToGo),
		))
	}
	return strings.Join(rows, "\n")
}
