package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftr/internal/analysis"
	"github.com/sadopc/liftr/internal/export"
	"github.com/sadopc/liftr/internal/store"
	"github.com/sirupsen/logrus"
)

// Options configures the app. Zero values fall back to sensible defaults.
type Options struct {
	UserID    string
	Tolerance float64
	ExportDir string
	Now       func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	loader loader
	width  int
	height int

	exportDir string

	snap          *snapshot
	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today     todayModel
	history   historyModel
	reports   reportsModel
	balance   balanceModel
	exercises exercisesModel
	settings  settingsModel

	help        help.Model
	status      string
	statusError bool
}

type tickMsg time.Time

func NewApp(s *store.Store, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.UserID == "" {
		opts.UserID = "local"
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = analysis.DefaultTolerance
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}

	return App{
		store: s,
		loader: loader{
			store:     s,
			userID:    opts.UserID,
			tolerance: opts.Tolerance,
			now:       opts.Now,
		},
		exportDir:  opts.ExportDir,
		activeView: viewToday,
		today:      newTodayModel(s, opts.UserID),
		history:    newHistoryModel(),
		reports:    newReportsModel(),
		balance:    newBalanceModel(s, opts.UserID),
		exercises:  newExercisesModel(s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loader.cmd(),
		a.settings.refresh(),
		tickCmd(),
	)
}

// tickCmd wakes the app once a minute so the snapshot follows the UTC day.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.balance.setSize(a.width, contentHeight)
		a.exercises.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReports
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewBalance
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewExercises
			return a, nil
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewSettings {
				return a, a.settings.refresh()
			}
			return a, nil
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.snap != nil && analysis.DayKey(time.Time(msg)) != a.snap.report.DayKey {
			cmds = append(cmds, a.loader.cmd())
		}
		return a, tea.Batch(cmds...)

	case snapshotMsg:
		if msg.err != nil {
			a.setStatus(fmt.Sprintf("Load error: %v", msg.err), true)
			return a, nil
		}
		a.applySnapshot(msg.snap)
		return a, nil

	case dataChangedMsg:
		a.setStatus(msg.status, false)
		return a, a.loader.cmd()

	case statusMsg:
		if msg.isError {
			logrus.Warn(msg.text)
		}
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		logrus.Infof("exported workouts to %s", msg.path)
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusError = isError
}

func (a *App) applySnapshot(s *snapshot) {
	a.snap = s
	a.today.setSnapshot(s)
	a.history.setSnapshot(s)
	a.reports.setSnapshot(s)
	a.balance.setSnapshot(s)
	a.exercises.setSnapshot(s)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	// settingsDataMsg can arrive while another view is active.
	if _, ok := msg.(settingsDataMsg); ok {
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewBalance:
		a.balance, cmd = a.balance.update(msg)
	case viewExercises:
		a.exercises, cmd = a.exercises.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.formActive
	case viewBalance:
		return a.balance.formActive
	case viewExercises:
		return a.exercises.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewHistory:
		content = a.history.view()
	case viewReports:
		content = a.reports.view()
	case viewBalance:
		content = a.balance.view()
	case viewExercises:
		content = a.exercises.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("liftr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Today's load in the footer, visible from every tab.
	loadInfo := ""
	if a.snap != nil && a.snap.report.TodayLoad > 0 {
		loadInfo = successStyle.Render(" ● " + formatLoad(a.snap.report.TodayLoad) + " today")
	}

	left := footerStyle.Render(helpView)
	right := loadInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor, render := cursorPrefix(i == a.exportCursor)
		rows = append(rows, render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	snap, dir := a.snap, a.exportDir
	return func() tea.Msg {
		if snap == nil {
			return statusMsg{text: "Export error: workouts not loaded yet", isError: true}
		}
		dateStr := snap.loadedAt.Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("liftr-export-%s.csv", dateStr))
			if err := export.ToCSV(snap.workouts, path); err != nil {
				return errStatus("CSV error", err)
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("liftr-export-%s.json", dateStr))
			report := snap.report
			if err := export.ToJSON(snap.workouts, &report, path); err != nil {
				return errStatus("JSON error", err)
			}
		}

		return exportDoneMsg{path: path}
	}
}
