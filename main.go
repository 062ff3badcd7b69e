package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/liftr/internal/config"
	"github.com/sadopc/liftr/internal/logging"
	"github.com/sadopc/liftr/internal/store"
	"github.com/sadopc/liftr/internal/tui"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the TOML config file")
	exportDir := flag.String("export-dir", "", "directory for CSV/JSON exports (default: home directory)")
	flag.Parse()

	if err := run(*configPath, *exportDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, exportDir string) (err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logging.Setup(logging.SetupParams{
		LogFileName: cfg.LogFile,
		LogToStdout: cfg.LogToStdout,
		LogLevel:    cfg.LogLevel,
	})
	logrus.Infof("liftr starting, db %s, user %s", cfg.DBPath, cfg.UserID)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { err = multierr.Append(err, s.Close()) }()

	seeded, err := s.SeedMuscleTargets(cfg.UserID, storeTargets(cfg.DefaultTargets))
	if err != nil {
		return fmt.Errorf("seeding muscle targets: %w", err)
	}
	if seeded {
		logrus.Infof("seeded %d default muscle targets for %s", len(cfg.DefaultTargets), cfg.UserID)
	}

	app := tui.NewApp(s, tui.Options{
		UserID:    cfg.UserID,
		Tolerance: cfg.BalanceTolerance,
		ExportDir: exportDir,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	logrus.Info("liftr stopped")
	return nil
}

func storeTargets(targets []config.Target) []store.MuscleTarget {
	out := make([]store.MuscleTarget, 0, len(targets))
	for _, t := range targets {
		out = append(out, store.MuscleTarget{Section: t.Section, Ratio: t.Ratio})
	}
	return out
}
