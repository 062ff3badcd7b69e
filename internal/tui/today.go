package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftr/internal/analysis"
	"github.com/sadopc/liftr/internal/store"
)

type todayModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	snap   *snapshot
	sets   []store.Workout
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "log", "edit"

	// Form field pointers (survive value copies)
	formExercise *string
	formReps     *string
	formWeight   *string
	formCount    *string

	editingID string
}

func newTodayModel(s *store.Store, userID string) todayModel {
	ex, reps, weight, count := "", "", "", "1"
	return todayModel{
		store:        s,
		userID:       userID,
		formExercise: &ex,
		formReps:     &reps,
		formWeight:   &weight,
		formCount:    &count,
	}
}

func (t *todayModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t *todayModel) setSnapshot(s *snapshot) {
	t.snap = s
	t.sets = s.todaySets()
	if t.cursor >= len(t.sets) {
		t.cursor = max(0, len(t.sets)-1)
	}
}

func (t todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.sets)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.New):
			return t.showLogForm()
		case key.Matches(msg, keys.Enter):
			if len(t.sets) > 0 {
				return t.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(t.sets) > 0 {
				return t, t.deleteSet(t.sets[t.cursor].ID)
			}
		}
	}
	return t, nil
}

func (t todayModel) showLogForm() (todayModel, tea.Cmd) {
	if t.snap == nil || len(t.snap.visibleExercises()) == 0 {
		return t, func() tea.Msg {
			return statusMsg{text: "No exercises yet. Press 5 to go to Exercises and add one.", isError: true}
		}
	}

	exercises := t.snap.visibleExercises()
	options := make([]huh.Option[string], len(exercises))
	for i, e := range exercises {
		options[i] = huh.NewOption(fmt.Sprintf("%s (%s)", e.Name, e.Section), strconv.FormatInt(e.ID, 10))
	}

	*t.formExercise = strconv.FormatInt(exercises[0].ID, 10)
	if len(t.sets) > 0 && t.sets[0].ExerciseID != nil {
		*t.formExercise = strconv.FormatInt(*t.sets[0].ExerciseID, 10)
	}
	*t.formReps = ""
	*t.formWeight = ""
	*t.formCount = "1"
	t.formType = "log"

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Exercise").Options(options...).Value(t.formExercise),
			huh.NewInput().Title("Reps").Value(t.formReps).Validate(validateReps),
			huh.NewInput().Title("Weight ("+t.snap.unit+")").Value(t.formWeight).Validate(validateWeight),
			huh.NewInput().Title("Sets").Value(t.formCount).Validate(validateSetCount),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t todayModel) showEditForm() (todayModel, tea.Cmd) {
	set := t.sets[t.cursor]
	*t.formReps = strconv.Itoa(set.Reps)
	*t.formWeight = strconv.FormatFloat(set.Weight, 'f', -1, 64)
	t.formType = "edit"
	t.editingID = set.ID

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Reps").Value(t.formReps).Validate(validateReps),
			huh.NewInput().Title("Weight ("+t.snap.unit+")").Value(t.formWeight).Validate(validateWeight),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		switch t.formType {
		case "log":
			return t, t.logSets(*t.formExercise, *t.formReps, *t.formWeight, *t.formCount)
		case "edit":
			return t, t.editSet(t.editingID, *t.formReps, *t.formWeight)
		}
	}

	return t, cmd
}

func (t todayModel) logSets(exerciseID, repsStr, weightStr, countStr string) tea.Cmd {
	s, userID := t.store, t.userID
	return func() tea.Msg {
		id, err := strconv.ParseInt(exerciseID, 10, 64)
		if err != nil {
			return errStatus("Log error", err)
		}
		reps, err := parseReps(repsStr)
		if err != nil {
			return errStatus("Log error", err)
		}
		weight, err := parseWeight(weightStr)
		if err != nil {
			return errStatus("Log error", err)
		}
		count, err := parseSetCount(countStr)
		if err != nil {
			return errStatus("Log error", err)
		}

		sets := make([]store.NewWorkout, count)
		now := time.Now().UTC()
		for i := range sets {
			sets[i] = store.NewWorkout{ExerciseID: id, Reps: reps, Weight: weight, CreatedAt: now}
		}
		if _, err := s.InsertWorkouts(userID, sets); err != nil {
			return errStatus("Log error", err)
		}
		if count == 1 {
			return dataChangedMsg{status: "Logged 1 set"}
		}
		return dataChangedMsg{status: fmt.Sprintf("Logged %d sets", count)}
	}
}

func (t todayModel) editSet(id, repsStr, weightStr string) tea.Cmd {
	s := t.store
	return func() tea.Msg {
		reps, err := parseReps(repsStr)
		if err != nil {
			return errStatus("Edit error", err)
		}
		weight, err := parseWeight(weightStr)
		if err != nil {
			return errStatus("Edit error", err)
		}
		if err := s.UpdateWorkout(id, reps, weight); err != nil {
			return errStatus("Edit error", err)
		}
		return dataChangedMsg{status: "Set updated"}
	}
}

func (t todayModel) deleteSet(id string) tea.Cmd {
	s := t.store
	return func() tea.Msg {
		if err := s.DeleteWorkout(id); err != nil {
			return errStatus("Delete error", err)
		}
		return dataChangedMsg{status: "Set deleted"}
	}
}

func (t todayModel) view() string {
	if t.width < 20 {
		return "Terminal too small"
	}
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("Log Set")
		if t.formType == "edit" {
			title = titleStyle.Render("Edit Set")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()))
	}
	if t.snap == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading workouts..."))
	}

	panels := []string{t.renderSummaryPanel(w)}
	if t.snap.showTips {
		panels = append(panels, t.renderTipsPanel(w))
	}
	panels = append(panels, t.renderSectionsPanel(w), t.renderSetsPanel(w))
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (t todayModel) renderSummaryPanel(w int) string {
	r := t.snap.report
	title := titleStyle.Render("Today") + "  " + mutedStyle.Render(r.DayKey)

	lastDay := "no earlier workout"
	if days := r.Today.Previous.Days; len(days) > 0 {
		lastDay = days[0]
	}

	rows := []string{
		title,
		fmt.Sprintf("  Load today        %s", highlightStyle.Render(formatLoad(r.TodayLoad))),
		fmt.Sprintf("  Last week avg/day %s", formatLoad(r.Week.Previous.AvgLoadPerDay())),
		fmt.Sprintf("  Vs last week      %s", formatToGo(r.ToGoToday)),
		fmt.Sprintf("  Vs %-14s %s", lastDay, formatToGo(r.Today.Overall.LoadToGo)),
	}
	if r.TodayLoad > 0 && r.ToGoToday <= 0 {
		rows = append(rows, successStyle.Render("  Daily average beaten 🔥"))
	}
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todayModel) renderTipsPanel(w int) string {
	var rows []string
	for i, tip := range tips(t.snap.report) {
		style := accentStyle
		if i > 0 {
			style = subtitleStyle
		}
		rows = append(rows, style.Render(tip))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todayModel) renderSectionsPanel(w int) string {
	c := t.snap.report.Today
	title := titleStyle.Render("Vs Last Workout")
	names := c.SectionNames()
	if len(names) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("Nothing logged yet. Press n to log a set."),
		))
	}

	rows := []string{title}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-22s %10s %10s  %s", "", "Last", "Today", "")))
	for i, name := range names {
		s := c.Sections[name]
		dot := sectionStyle(i).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-20s %10s %10s  %s",
			dot, name, formatLoad(s.PreviousLoad), formatLoad(s.CurrentLoad), formatToGo(s.LoadToGo)))
		for _, ex := range s.ExerciseNames() {
			d := s.Exercises[ex]
			detail := ""
			if d.CurrentReps > 0 {
				detail = mutedStyle.Render(fmt.Sprintf("  %d reps, best set %s, last max %s",
					d.CurrentReps, formatLoad(d.BestSetLoad), formatWeight(d.LastMaxWeight, t.snap.unit)))
			}
			rows = append(rows, fmt.Sprintf("      %-18s %10s %10s  %s%s",
				ex, formatLoad(d.PreviousLoad), formatLoad(d.CurrentLoad), formatToGo(d.LoadToGo), detail))
		}
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todayModel) renderSetsPanel(w int) string {
	title := titleStyle.Render(fmt.Sprintf("Sets (%d)", len(t.sets)))
	if len(t.sets) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No sets today"),
		))
	}

	rows := []string{title}
	for i, set := range t.sets {
		e := analysis.Normalize(set.Record())
		cursor, render := cursorPrefix(i == t.cursor)
		rows = append(rows, render(fmt.Sprintf("%s%s  %-20s %-10s %3d × %-8s = %s",
			cursor,
			set.CreatedAt.Local().Format("15:04"),
			e.Exercise,
			e.Section,
			e.Reps,
			formatWeight(e.Weight, t.snap.unit),
			formatLoad(e.Load),
		)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: log set  enter: edit  d: delete"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
