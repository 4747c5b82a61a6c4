// There
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of There.
//
// There is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// There is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with There.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/there/pkg/helpers/syncutil"
	"github.com/fsnotify/fsnotify"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1

	SortTimeAscending  = "time-ascending"
	SortTimeDescending = "time-descending"

	DefaultGeocoderURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultIdleTimeout = 30 * time.Second
	DefaultResults     = 10
	DefaultTheme       = "default"
	maxResults         = 100
)

type Values struct {
	Display      Display `toml:"display"`
	Search       Search  `toml:"search"`
	TUI          TUI     `toml:"tui"`
	ConfigSchema int     `toml:"config_schema"`
	DebugLogging bool    `toml:"debug_logging"`
}

// Display controls how entries are listed by every host.
type Display struct {
	SortOrder string `toml:"sort_order"`
	Clock24h  bool   `toml:"clock_24h"`
}

// Search configures the city search used by the add flow and flag backfill.
type Search struct {
	GeocoderURL string `toml:"geocoder_url,omitempty"`
	Language    string `toml:"language,omitempty"`
	Results     int    `toml:"results,omitempty"`
	Geocoder    bool   `toml:"geocoder"`
}

type TUI struct {
	// IdleTimeout is a Go duration string after which the terminal UI drops
	// to the background refresh cadence.
	IdleTimeout string `toml:"idle_timeout,omitempty"`
	Theme       string `toml:"theme,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Display: Display{
		SortOrder: SortTimeAscending,
	},
	Search: Search{
		Geocoder:    true,
		GeocoderURL: DefaultGeocoderURL,
		Language:    "en",
		Results:     DefaultResults,
	},
	TUI: TUI{
		IdleTimeout: DefaultIdleTimeout.String(),
		Theme:       DefaultTheme,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file from configDir, or from THERE_CFG when it
// is set, writing the defaults to disk first if no file exists yet.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

// SortOrder returns the configured sort order, falling back to ascending for
// anything unrecognised.
func (c *Instance) SortOrder() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Display.SortOrder == SortTimeDescending {
		return SortTimeDescending
	}
	return SortTimeAscending
}

func (c *Instance) SetSortOrder(order string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Display.SortOrder = order
}

func (c *Instance) Clock24h() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.Clock24h
}

func (c *Instance) SetClock24h(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Display.Clock24h = enabled
}

func (c *Instance) GeocoderEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Search.Geocoder
}

func (c *Instance) GeocoderURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Search.GeocoderURL == "" {
		return DefaultGeocoderURL
	}
	return c.vals.Search.GeocoderURL
}

func (c *Instance) SearchLanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Search.Language == "" {
		return "en"
	}
	return c.vals.Search.Language
}

// SearchResults is the maximum number of geocoder results, between 1 and 100.
func (c *Instance) SearchResults() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch n := c.vals.Search.Results; {
	case n <= 0:
		return DefaultResults
	case n > maxResults:
		return maxResults
	default:
		return n
	}
}

// IdleTimeout returns the TUI idle timeout. Missing, unparseable or
// non-positive values use the default.
func (c *Instance) IdleTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.TUI.IdleTimeout == "" {
		return DefaultIdleTimeout
	}
	d, err := time.ParseDuration(c.vals.TUI.IdleTimeout)
	if err != nil || d <= 0 {
		log.Warn().Str("idle_timeout", c.vals.TUI.IdleTimeout).Msg("invalid idle timeout, using default")
		return DefaultIdleTimeout
	}
	return d
}

// TUITheme is the terminal UI theme name. Unknown names are resolved by the
// TUI itself.
func (c *Instance) TUITheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.TUI.Theme == "" {
		return DefaultTheme
	}
	return c.vals.TUI.Theme
}

// Watch reloads the config whenever the file changes on disk and calls
// onChange after each successful reload. The directory is watched rather
// than the file so editors that replace the file on save are picked up.
// Watch returns once the watcher is running; it stops when ctx is done.
func (c *Instance) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(c.cfgPath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close config watcher")
		}
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	target := filepath.Clean(c.cfgPath)

	go func() {
		defer func() {
			if closeErr := watcher.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("failed to close config watcher")
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := c.Load(); err != nil {
					log.Error().Err(err).Msg("failed to reload config")
					continue
				}
				log.Info().Str("path", target).Msg("config reloaded")
				if onChange != nil {
					onChange()
				}
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(watchErr).Msg("error in config watcher")
			}
		}
	}()

	return nil
}
