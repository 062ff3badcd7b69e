package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftr/internal/analysis"
	"github.com/sadopc/liftr/internal/store"
)

var defaultSections = []string{"Legs", "Back", "Chest", "Arms", "Shoulders", "Core"}

const otherSection = "__other__"

type exercisesModel struct {
	store  *store.Store
	width  int
	height int

	snap   *snapshot
	cursor int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName    *string
	formSection *string
	formOther   *string
}

func newExercisesModel(s *store.Store) exercisesModel {
	name, section, other := "", "", ""
	return exercisesModel{
		store:       s,
		formName:    &name,
		formSection: &section,
		formOther:   &other,
	}
}

func (e *exercisesModel) setSize(w, h int) {
	e.width = w
	e.height = h
}

func (e *exercisesModel) setSnapshot(s *snapshot) {
	e.snap = s
	if e.cursor >= len(s.exercises) {
		e.cursor = max(0, len(s.exercises)-1)
	}
}

func (e exercisesModel) exercises() []store.Exercise {
	if e.snap == nil {
		return nil
	}
	return e.snap.exercises
}

func (e exercisesModel) update(msg tea.Msg) (exercisesModel, tea.Cmd) {
	if e.formActive && e.form != nil {
		return e.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		list := e.exercises()
		switch {
		case key.Matches(msg, keys.Up):
			if e.cursor > 0 {
				e.cursor--
			}
		case key.Matches(msg, keys.Down):
			if e.cursor < len(list)-1 {
				e.cursor++
			}
		case key.Matches(msg, keys.New):
			return e.showNewExerciseForm()
		case key.Matches(msg, keys.Delete):
			if len(list) > 0 {
				ex := list[e.cursor]
				return e, e.setHidden(ex.ID, ex.Name, !ex.Hidden)
			}
		}
	}
	return e, nil
}

// sectionOptions lists the default sections plus any custom ones already in
// the catalogue.
func (e exercisesModel) sectionOptions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range defaultSections {
		seen[s] = true
		out = append(out, s)
	}
	var extra []string
	for _, ex := range e.exercises() {
		if !seen[ex.Section] {
			seen[ex.Section] = true
			extra = append(extra, ex.Section)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func (e exercisesModel) showNewExerciseForm() (exercisesModel, tea.Cmd) {
	*e.formName = ""
	*e.formSection = defaultSections[0]
	*e.formOther = ""

	sections := e.sectionOptions()
	options := make([]huh.Option[string], 0, len(sections)+1)
	for _, s := range sections {
		options = append(options, huh.NewOption(s, s))
	}
	options = append(options, huh.NewOption("Other...", otherSection))

	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Exercise Name").Value(e.formName),
			huh.NewSelect[string]().Title("Section").Options(options...).Value(e.formSection),
			huh.NewInput().Title("Other section (when Other is picked)").Value(e.formOther),
		),
	).WithShowHelp(true).WithShowErrors(true)

	e.formActive = true
	return e, e.form.Init()
}

func (e exercisesModel) updateForm(msg tea.Msg) (exercisesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			e.formActive = false
			e.form = nil
			return e, nil
		}
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State == huh.StateCompleted {
		e.formActive = false
		section := *e.formSection
		if section == otherSection {
			section = strings.TrimSpace(*e.formOther)
		}
		if strings.TrimSpace(*e.formName) == "" {
			return e, nil
		}
		return e, e.createExercise(*e.formName, section)
	}

	return e, cmd
}

func (e exercisesModel) createExercise(name, section string) tea.Cmd {
	s := e.store
	return func() tea.Msg {
		ex, err := s.CreateExercise(name, section)
		if err != nil {
			return errStatus("Exercise error", err)
		}
		return dataChangedMsg{status: fmt.Sprintf("Added %s (%s)", ex.Name, ex.Section)}
	}
}

func (e exercisesModel) setHidden(id int64, name string, hidden bool) tea.Cmd {
	s := e.store
	return func() tea.Msg {
		if err := s.SetExerciseHidden(id, hidden); err != nil {
			return errStatus("Exercise error", err)
		}
		if hidden {
			return dataChangedMsg{status: "Hid " + name}
		}
		return dataChangedMsg{status: "Restored " + name}
	}
}

func (e exercisesModel) view() string {
	w := e.width - 4

	if e.formActive && e.form != nil {
		title := titleStyle.Render("New Exercise")
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", e.form.View()))
	}

	title := titleStyle.Render("Exercises")
	list := e.exercises()
	if len(list) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No exercises yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-26s %-12s", "Name", "Section")))

	for i, ex := range list {
		cursor, render := cursorPrefix(i == e.cursor)
		row := render(fmt.Sprintf("%s%-26s %-12s", cursor, ex.Name, ex.Section))
		if ex.Hidden {
			row += mutedStyle.Render(" (hidden)")
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, e.renderHistory(list[e.cursor]))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: hide/restore"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderHistory shows the most recent daily loads of the selected exercise.
func (e exercisesModel) renderHistory(ex store.Exercise) string {
	series := analysis.ExerciseHistory(e.snap.entries, ex.Name, ex.Section)
	if len(series) == 0 {
		return mutedStyle.Render("  Not logged yet")
	}
	if len(series) > 5 {
		series = series[len(series)-5:]
	}
	rows := []string{subtitleStyle.Render("  Recent " + ex.Name)}
	for _, d := range series {
		rows = append(rows, fmt.Sprintf("    %s %10s  %d sets", d.DayKey, formatLoad(d.Load), d.Sets))
	}
	return strings.Join(rows, "\n")
}
