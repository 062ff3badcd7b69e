// Package config loads liftr's TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const appDir = "liftr"

type Target struct {
	Section string  `toml:"section"`
	Ratio   float64 `toml:"ratio"`
}

type Config struct {
	DBPath string `toml:"db_path"`
	UserID string `toml:"user_id"`
	// logging
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
	LogToStdout bool   `toml:"log_to_stdout"`
	// analysis
	BalanceTolerance float64  `toml:"balance_tolerance"`
	DefaultTargets   []Target `toml:"default_targets"`
}

// DefaultTargets is the ratio set new users start with.
func DefaultTargets() []Target {
	return []Target{
		{Section: "Legs", Ratio: 2},
		{Section: "Back", Ratio: 1},
		{Section: "Chest", Ratio: 1},
		{Section: "Arms", Ratio: 0.5},
		{Section: "Shoulders", Ratio: 0.5},
	}
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	dir := configDir()
	return &Config{
		DBPath:           filepath.Join(dir, "liftr.db"),
		UserID:           "local",
		LogLevel:         "info",
		LogFile:          filepath.Join(dir, "liftr.log"),
		BalanceTolerance: 0.05,
		DefaultTargets:   DefaultTargets(),
	}
}

// DefaultPath returns ~/.config/liftr/config.toml
func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appDir)
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	var file Config
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		logrus.Warnf("config: unknown key %q in %s", key.String(), path)
	}

	if file.DBPath != "" {
		cfg.DBPath = file.DBPath
	}
	if file.UserID != "" {
		cfg.UserID = file.UserID
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if md.IsDefined("log_file") {
		cfg.LogFile = file.LogFile
	}
	if md.IsDefined("log_to_stdout") {
		cfg.LogToStdout = file.LogToStdout
	}
	if md.IsDefined("balance_tolerance") {
		cfg.BalanceTolerance = file.BalanceTolerance
	}
	if md.IsDefined("default_targets") {
		cfg.DefaultTargets = file.DefaultTargets
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal"}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var err error
	if strings.TrimSpace(c.DBPath) == "" {
		err = multierr.Append(err, errors.New("db_path is required"))
	}
	if strings.TrimSpace(c.UserID) == "" {
		err = multierr.Append(err, errors.New("user_id is required"))
	}
	if !validLevel(c.LogLevel) {
		err = multierr.Append(err, fmt.Errorf("log_level %q is not one of %s", c.LogLevel, strings.Join(logLevels, ", ")))
	}
	if math.IsNaN(c.BalanceTolerance) || c.BalanceTolerance <= 0 || c.BalanceTolerance >= 1 {
		err = multierr.Append(err, fmt.Errorf("balance_tolerance %v must be between 0 and 1", c.BalanceTolerance))
	}
	for i, t := range c.DefaultTargets {
		if strings.TrimSpace(t.Section) == "" {
			err = multierr.Append(err, fmt.Errorf("default_targets[%d]: section is required", i))
		}
		if math.IsNaN(t.Ratio) || math.IsInf(t.Ratio, 0) || t.Ratio <= 0 {
			err = multierr.Append(err, fmt.Errorf("default_targets[%d]: ratio must be positive", i))
		}
	}
	return err
}

func validLevel(level string) bool {
	for _, l := range logLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}
