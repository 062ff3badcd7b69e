package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftr/internal/analysis"
	"github.com/sadopc/liftr/internal/store"
	"go.uber.org/multierr"
)

type balanceModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	snap     *snapshot
	lastWeek bool
	cursor   int

	formActive bool
	form       *huh.Form

	// One ratio field per existing target, plus a row for a new section.
	formSections []string
	formRatios   []*string
	newSection   *string
	newRatio     *string
}

func newBalanceModel(s *store.Store, userID string) balanceModel {
	sec, ratio := "", ""
	return balanceModel{
		store:      s,
		userID:     userID,
		newSection: &sec,
		newRatio:   &ratio,
	}
}

func (b *balanceModel) setSize(w, h int) {
	b.width = w
	b.height = h
}

func (b *balanceModel) setSnapshot(s *snapshot) {
	b.snap = s
	if n := len(b.rows()); b.cursor >= n {
		b.cursor = max(0, n-1)
	}
}

func (b balanceModel) rows() []analysis.Imbalance {
	if b.snap == nil {
		return nil
	}
	if b.lastWeek {
		return b.snap.report.LastWeekBalance
	}
	return b.snap.report.ThisWeekBalance
}

func (b balanceModel) underTrained() []analysis.Imbalance {
	if b.lastWeek {
		return b.snap.report.LastWeekUnderTrained
	}
	return b.snap.report.ThisWeekUnderTrained
}

func (b balanceModel) update(msg tea.Msg) (balanceModel, tea.Cmd) {
	if b.formActive && b.form != nil {
		return b.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if b.cursor > 0 {
				b.cursor--
			}
		case key.Matches(msg, keys.Down):
			if b.cursor < len(b.rows())-1 {
				b.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			b.lastWeek = !b.lastWeek
			b.cursor = 0
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			if b.snap != nil {
				return b.showForm()
			}
		}
	}
	return b, nil
}

func (b balanceModel) showForm() (balanceModel, tea.Cmd) {
	b.formSections = nil
	b.formRatios = nil

	var fields []huh.Field
	for _, t := range b.snap.targets {
		v := strconv.FormatFloat(t.Ratio, 'f', -1, 64)
		b.formSections = append(b.formSections, t.Section)
		b.formRatios = append(b.formRatios, &v)
		fields = append(fields, huh.NewInput().
			Title(t.Section+" ratio (empty removes)").
			Value(&v).
			Validate(validateOptionalRatio))
	}
	*b.newSection = ""
	*b.newRatio = ""
	fields = append(fields,
		huh.NewInput().Title("Add section").Value(b.newSection),
		huh.NewInput().Title("Ratio for new section").Value(b.newRatio).Validate(validateOptionalRatio),
	)

	b.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	b.formActive = true
	return b, b.form.Init()
}

func (b balanceModel) updateForm(msg tea.Msg) (balanceModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			b.formActive = false
			b.form = nil
			return b, nil
		}
	}

	form, cmd := b.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		b.form = f
	}

	if b.form.State == huh.StateCompleted {
		b.formActive = false
		keep, remove, err := b.collectTargets()
		if err != nil {
			return b, func() tea.Msg { return errStatus("Targets error", err) }
		}
		return b, b.saveTargets(keep, remove)
	}

	return b, cmd
}

// collectTargets reads the form into the targets to save and the sections
// to delete.
func (b balanceModel) collectTargets() (keep []store.MuscleTarget, remove []string, err error) {
	for i, section := range b.formSections {
		raw := strings.TrimSpace(*b.formRatios[i])
		if raw == "" {
			remove = append(remove, section)
			continue
		}
		ratio, perr := parseRatio(raw)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", section, perr))
			continue
		}
		keep = append(keep, store.MuscleTarget{Section: section, Ratio: ratio})
	}

	if name := strings.TrimSpace(*b.newSection); name != "" {
		ratio, perr := parseRatio(*b.newRatio)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", name, perr))
		} else {
			keep = append(keep, store.MuscleTarget{Section: name, Ratio: ratio})
		}
	}
	return keep, remove, err
}

func (b balanceModel) saveTargets(keep []store.MuscleTarget, remove []string) tea.Cmd {
	s, userID := b.store, b.userID
	return func() tea.Msg {
		if err := s.ReplaceMuscleTargets(userID, keep, remove); err != nil {
			return errStatus("Targets error", err)
		}
		return dataChangedMsg{status: "Targets saved"}
	}
}

func parseRatio(s string) (float64, error) {
	f, err := parseWeight(s)
	if err != nil || f == 0 {
		return 0, errors.New("ratio must be a positive number")
	}
	return f, nil
}

func validateOptionalRatio(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := parseRatio(s)
	return err
}

func (b balanceModel) view() string {
	w := b.width - 4

	if b.formActive && b.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Muscle Targets"), "", b.form.View()),
		)
	}
	if b.snap == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading balance..."))
	}

	period := "This week"
	tip := thisWeekTip(b.snap.report.ThisWeekUnderTrained)
	if b.lastWeek {
		period = "Last week"
		tip = lastWeekTip(b.snap.report.LastWeekUnderTrained)
	}
	header := titleStyle.Render("Muscle Balance") + "  " + mutedStyle.Render(fmt.Sprintf("%s, tolerance %s", period, formatPercent(b.snap.report.Tolerance)))

	parts := []string{header, ""}
	rows := b.rows()
	if len(rows) == 0 {
		parts = append(parts, mutedStyle.Render("  No muscle targets. Press enter to add some."))
	} else {
		parts = append(parts, b.renderTable(rows, w))
		if b.snap.showTips {
			parts = append(parts, "", accentStyle.Render("  "+tip))
		}
		parts = append(parts, "", b.renderSectionTrend(rows[b.cursor].Section))
	}
	parts = append(parts, "", mutedStyle.Render("  ↑/↓: select  t: this/last week  enter: edit targets"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (b balanceModel) renderTable(rows []analysis.Imbalance, w int) string {
	under := make(map[string]bool)
	for _, im := range b.underTrained() {
		under[im.Section] = true
	}

	lines := []string{
		mutedStyle.Render(fmt.Sprintf("  %-16s %8s %8s %8s  %s", "Section", "Target", "Actual", "Needed", "")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 56))),
	}
	for i, im := range rows {
		cursor, render := cursorPrefix(i == b.cursor)
		line := render(fmt.Sprintf("%s%-16s %8s %8s %8s",
			cursor, im.Section, formatPercent(im.Target), formatPercent(im.Actual), formatPercent(im.Needed())))
		bar := b.renderShareBar(im)
		if under[im.Section] {
			line += "  " + errorStyle.Render("under-trained")
		}
		lines = append(lines, line+"  "+bar)
	}
	return strings.Join(lines, "\n")
}

// renderShareBar draws actual share against the target marker on a 20-cell
// scale.
func (b balanceModel) renderShareBar(im analysis.Imbalance) string {
	const cells = 20
	filled := min(cells, int(im.Actual*cells+0.5))
	mark := min(cells-1, int(im.Target*cells))
	var sb strings.Builder
	for i := 0; i < cells; i++ {
		switch {
		case i == mark:
			sb.WriteString(highlightStyle.Render("|"))
		case i < filled:
			sb.WriteString(successStyle.Render("█"))
		default:
			sb.WriteString(mutedStyle.Render("·"))
		}
	}
	return sb.String()
}

func (b balanceModel) renderSectionTrend(section string) string {
	series := analysis.SectionHistory(b.snap.entries, section)
	if len(series) == 0 {
		return mutedStyle.Render("  " + section + ": nothing logged yet")
	}
	if len(series) > 7 {
		series = series[len(series)-7:]
	}
	parts := make([]string, 0, len(series))
	for _, d := range series {
		parts = append(parts, fmt.Sprintf("%s %s", d.DayKey[5:], formatLoad(d.Load)))
	}
	return subtitleStyle.Render("  " + section + " recent: " + strings.Join(parts, "  "))
}
