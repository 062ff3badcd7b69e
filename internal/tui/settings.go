package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftr/internal/store"
	"go.uber.org/multierr"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	unit      *string
	tolerance *string
	showTips  *string
}

func newSettingsModel(s *store.Store) settingsModel {
	u, t, st := "", "", ""
	return settingsModel{
		store:     s,
		unit:      &u,
		tolerance: &t,
		showTips:  &st,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.unit = s.getVal("unit", "kg")
	*s.tolerance = fractionToPercent(s.getVal("balance_tolerance", "0.05"))
	*s.showTips = s.getVal("show_tips", "on")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Weight unit").
				Options(
					huh.NewOption("Kilograms", "kg"),
					huh.NewOption("Pounds", "lb"),
				).Value(s.unit),
			huh.NewInput().Title("Balance tolerance (%)").Value(s.tolerance).Validate(validateTolerance),
			huh.NewSelect[string]().Title("Show tips").
				Options(
					huh.NewOption("On", "on"),
					huh.NewOption("Off", "off"),
				).Value(s.showTips),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg { return errStatus("Settings error", err) }
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return dataChangedMsg{status: "Settings saved"} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	return multierr.Combine(
		s.store.SetSetting("unit", *s.unit),
		s.store.SetSetting("balance_tolerance", percentToFraction(*s.tolerance)),
		s.store.SetSetting("show_tips", *s.showTips),
	)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "balance_tolerance":
		return fractionToPercent(v) + "%"
	case "unit":
		if v == "lb" {
			return "pounds"
		}
		return "kilograms"
	}
	return v
}

func validateTolerance(s string) error {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || p <= 0 || p >= 100 {
		return fmt.Errorf("enter a percentage between 0 and 100")
	}
	return nil
}

func fractionToPercent(s string) string {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(math.Round(f*10000)/100, 'f', -1, 64)
	}
	return s
}

func percentToFraction(s string) string {
	if p, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return strconv.FormatFloat(p/100, 'f', -1, 64)
	}
	return s
}
