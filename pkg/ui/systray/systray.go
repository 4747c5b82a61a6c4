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

package systray

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"fyne.io/systray"
	"github.com/ZaparooProject/there/pkg/assets"
	"github.com/ZaparooProject/there/pkg/config"
	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/service/presenter"
	"github.com/ZaparooProject/there/pkg/service/refresh"
	"github.com/jonboulle/clockwork"
	"github.com/nixinwang/dialog"
	"github.com/rs/zerolog/log"
	"golang.design/x/clipboard"
)

type Options struct {
	Config *config.Instance
	Store  database.EntryStore
	Clock  clockwork.Clock
	// Local is the zone deltas are measured against. Nil means UTC.
	Local   *time.Location
	LogPath string
	Icon    []byte
}

var (
	clipboardOnce sync.Once
	errClipboard  error
)

func copyToClipboard(text string) error {
	clipboardOnce.Do(func() {
		errClipboard = clipboard.Init()
	})
	if errClipboard != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", errClipboard)
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func openCommand() string {
	switch runtime.GOOS {
	case "windows":
		return "explorer"
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}

func openPath(path string) error {
	//nolint:gosec // path comes from our own config and log locations
	if err := exec.Command(openCommand(), path).Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}

func sessionOptions(cfg *config.Instance, local *time.Location) presenter.Options {
	return presenter.Options{Local: local, Clock24: cfg.Clock24h()}
}

func sortOrder(cfg *config.Instance) presenter.SortOrder {
	order, err := presenter.ParseSortOrder(cfg.SortOrder())
	if err != nil {
		log.Warn().Err(err).Msg("invalid sort order in config")
	}
	return order
}

//nolint:gocritic // options passed by value
func systrayOnReady(ctx context.Context, opts Options) func() {
	return func() {
		icon := opts.Icon
		if len(icon) == 0 {
			icon = assets.TrayIcon
		}
		systray.SetIcon(icon)
		if runtime.GOOS != "darwin" {
			systray.SetTitle("There")
		}
		systray.SetTooltip("There")

		items := make([]*systray.MenuItem, MaxItems)
		pool := make([]menuItem, MaxItems)
		for i := range items {
			items[i] = systray.AddMenuItem("", "Copy to clipboard")
			items[i].Hide()
			pool[i] = items[i]
		}
		mEmpty := systray.AddMenuItem("No entries yet", "")
		mEmpty.Disable()
		menu := newEntryMenu(pool, mEmpty)

		systray.AddSeparator()
		mEditConfig := systray.AddMenuItem("Edit Config", "Edit config file")
		mOpenLog := systray.AddMenuItem("View Log", "View log file")

		systray.AddSeparator()
		mVersion := systray.AddMenuItem("Version "+config.AppVersion, "")
		mVersion.Disable()
		mAbout := systray.AddMenuItem("About There", "")

		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Quit There")

		clock := opts.Clock
		if clock == nil {
			clock = clockwork.NewRealClock()
		}

		// A menu bar app has no visibility signal, so it stays active.
		session := presenter.NewSession(
			opts.Store,
			clock,
			refresh.Active,
			sortOrder(opts.Config),
			sessionOptions(opts.Config, opts.Local),
			menu.update,
		)
		session.Start(ctx)

		err := opts.Config.Watch(ctx, func() {
			session.SetSortOrder(sortOrder(opts.Config))
			session.SetOptions(sessionOptions(opts.Config, opts.Local))
		})
		if err != nil {
			log.Warn().Err(err).Msg("config changes will need a restart")
		}

		for i, item := range items {
			go func() {
				for range item.ClickedCh {
					line, ok := menu.line(i)
					if !ok {
						continue
					}
					if err := copyToClipboard(line); err != nil {
						log.Error().Err(err).Msg("failed to copy entry")
						continue
					}
					log.Debug().Str("line", line).Msg("copied entry to clipboard")
				}
			}()
		}

		go func() {
			for {
				select {
				case <-ctx.Done():
					session.Close()
					systray.Quit()
					return
				case <-mEditConfig.ClickedCh:
					if err := openPath(opts.Config.Path()); err != nil {
						log.Error().Err(err).Msg("failed to open config file")
					}
				case <-mOpenLog.ClickedCh:
					if err := openPath(opts.LogPath); err != nil {
						log.Error().Err(err).Msg("failed to open log file")
					}
				case <-mAbout.ClickedCh:
					dialog.Message("%s", assets.AboutText(time.Now())).Title("About There").Info()
				case <-mQuit.ClickedCh:
					session.Close()
					systray.Quit()
					return
				}
			}
		}()
	}
}

// Run shows the menu bar item and blocks until Quit is chosen or ctx is
// done. exit runs after the menu has been torn down.
//
//nolint:gocritic // options passed by value
func Run(ctx context.Context, opts Options, exit func()) {
	systray.Run(systrayOnReady(ctx, opts), exit)
}
