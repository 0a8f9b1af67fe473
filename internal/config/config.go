// Package config resolves where taskz keeps its files and how it renders.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	appName       = "taskz"
	storeFileName = "tasks.json"
	undoFileName  = "undo.json"
	lockFileName  = "taskz.lock"
)

// Sort modes accepted by the `sort` key.
const (
	SortCreated = "created"
	SortAlpha   = "alpha"
)

// Config is built once at startup and handed to every component.
type Config struct {
	DataDir     string `toml:"data_dir"`
	InstallPath string `toml:"install_path"`
	Theme       string `toml:"theme"`
	Sort        string `toml:"sort"`
	LogLevel    string `toml:"log_level"`

	// Derived from DataDir by Load.
	StorePath string `toml:"-"`
	UndoPath  string `toml:"-"`
	LockPath  string `toml:"-"`

	// File the settings were read from, empty when none was found.
	Source string `toml:"-"`
}

// Load builds a Config from platform defaults, the TOML file at path
// (or the default location when path is empty) and TASKZ_* variables,
// in that order of increasing precedence.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:     DefaultDataDir(runtime.GOOS, os.Getenv),
		InstallPath: DefaultInstallPath(runtime.GOOS),
		Theme:       "classic",
		Sort:        SortCreated,
		LogLevel:    "warn",
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) || explicit {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else {
			cfg.Source = path
		}
	}

	if v := os.Getenv("TASKZ_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TASKZ_INSTALL_PATH"); v != "" {
		cfg.InstallPath = v
	}
	if v := os.Getenv("TASKZ_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TASKZ_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.Sort = strings.ToLower(strings.TrimSpace(cfg.Sort))
	switch cfg.Sort {
	case "", SortCreated:
		cfg.Sort = SortCreated
	case SortAlpha:
	default:
		return nil, fmt.Errorf("invalid sort %q: want %q or %q", cfg.Sort, SortCreated, SortAlpha)
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.InstallPath = expandPath(cfg.InstallPath)
	cfg.StorePath = filepath.Join(cfg.DataDir, storeFileName)
	cfg.UndoPath = filepath.Join(cfg.DataDir, undoFileName)
	cfg.LockPath = filepath.Join(cfg.DataDir, lockFileName)
	return cfg, nil
}

// DefaultDataDir mirrors the platform's local-data directory. A missing
// LOCALAPPDATA falls back to C:\temp, a missing HOME to the working dir.
func DefaultDataDir(goos string, getenv func(string) string) string {
	if goos == "windows" {
		base := getenv("LOCALAPPDATA")
		if base == "" {
			base = `C:\temp`
		}
		return base + `\` + appName
	}
	home := getenv("HOME")
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultInstallPath is where -i copies the binary.
func DefaultInstallPath(goos string) string {
	if goos == "windows" {
		return `C:\Windows\System32\` + appName + ".exe"
	}
	return "/usr/local/bin/" + appName
}

// DefaultConfigPath honours XDG_CONFIG_HOME and falls back to ~/.config.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// expandPath expands ~/ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}
