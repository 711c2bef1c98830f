// Package config holds the viewer settings and loads them from an optional
// TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"gview/pkg/api"
	"gview/pkg/viewer"
	"gview/pkg/viewport"
)

// EnvPath names the environment variable that overrides the config file
// location.
const EnvPath = "GVIEW_CONFIG"

// DefaultDocument is opened when no document is named on the command line.
const DefaultDocument = "GhostPrinter.pcl"

// Config is the viewer configuration.
type Config struct {
	StartingRes     float64 `toml:"starting_res"`
	ZoomWindowRatio float64 `toml:"zoom_window_ratio"`
	TextAlpha       bool    `toml:"text_alpha"`
	RTL             bool    `toml:"rtl"`
	PopupMenu       bool    `toml:"popup_menu"`
	DropStale       bool    `toml:"drop_stale"`
	DefaultDocument string  `toml:"default_document"`
	LogLevel        string  `toml:"log_level"`

	Renderer Renderer `toml:"renderer"`
}

// Renderer names the external renderer programs.
type Renderer struct {
	PCL string `toml:"pcl"`
	PS  string `toml:"ps"`
	// NativeView passes the view transform to the renderer instead of
	// applying it to the rendered page.
	NativeView bool `toml:"native_view"`
}

// Default returns the built-in configuration.
func Default() Config {
	cmds := api.DefaultCommands()
	return Config{
		StartingRes:     100,
		ZoomWindowRatio: 3,
		TextAlpha:       true,
		PopupMenu:       true,
		DefaultDocument: DefaultDocument,
		LogLevel:        "info",
		Renderer: Renderer{
			PCL: cmds.PCL,
			PS:  cmds.PS,
		},
	}
}

// Path returns the config file location: $GVIEW_CONFIG if set, otherwise
// gview/config.toml in the user config directory.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "gview", "config.toml"), nil
}

// Load reads the config file at Path. A missing file yields the defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(p)
}

// LoadFile reads the config file at path over the defaults. A missing file
// yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.StartingRes < viewport.MinStartingRes || c.StartingRes > viewport.MaxStartingRes {
		return fmt.Errorf("starting_res %v outside [%v, %v]: %w",
			c.StartingRes, viewport.MinStartingRes, viewport.MaxStartingRes, viewport.ErrInvalidResolution)
	}
	if c.ZoomWindowRatio <= 0 {
		return fmt.Errorf("zoom_window_ratio must be positive, got %v", c.ZoomWindowRatio)
	}
	return nil
}

// Session returns the view settings of a session.
func (c Config) Session() viewer.Settings {
	return viewer.Settings{
		StartingRes:     c.StartingRes,
		ZoomWindowRatio: c.ZoomWindowRatio,
		TextAlpha:       c.TextAlpha,
		RTL:             c.RTL,
	}
}

// Commands returns the renderer commands.
func (c Config) Commands() api.Commands {
	return api.Commands{PCL: c.Renderer.PCL, PS: c.Renderer.PS, NativeView: c.Renderer.NativeView}
}
