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

package cli

import (
	"github.com/ZaparooProject/there/pkg/config"
	"github.com/ZaparooProject/there/pkg/service/presenter"
	"github.com/ZaparooProject/there/pkg/ui/systray"
	"github.com/ZaparooProject/there/pkg/ui/tui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (a *app) newWatchCmd() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show live clocks in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(env *Env) error {
				name := theme
				if name == "" {
					name = env.Config.TUITheme()
				}
				if !tui.SetCurrentTheme(name) {
					log.Warn().Str("theme", name).Msg("unknown theme, using default")
				}

				order, err := presenter.ParseSortOrder(env.Config.SortOrder())
				if err != nil {
					log.Warn().Err(err).Msg("invalid sort order in config")
				}

				return tui.Run(cmd.Context(), tui.Options{
					Store:        env.Store,
					Photos:       env.Photos,
					Clock:        env.Clock,
					Local:        env.Local,
					Theme:        tui.CurrentTheme(),
					Order:        order,
					IdleTimeout:  env.Config.IdleTimeout(),
					Clock24:      env.Config.Clock24h(),
					OnSortChange: saveSortOrder(env.Config),
				})
			})
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "color theme (default from config)")

	return cmd
}

// saveSortOrder persists a sort toggle so every host starts with it.
func saveSortOrder(cfg *config.Instance) func(presenter.SortOrder) {
	return func(order presenter.SortOrder) {
		cfg.SetSortOrder(string(order))
		if err := cfg.Save(); err != nil {
			log.Error().Err(err).Msg("failed to save sort order")
		}
	}
}

func (a *app) newTrayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tray",
		Short: "Show live clocks in the menu bar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(env *Env) error {
				systray.Run(cmd.Context(), systray.Options{
					Config:  env.Config,
					Store:   env.Store,
					Clock:   env.Clock,
					Local:   env.Local,
					LogPath: env.LogPath,
				}, func() {
					log.Info().Msg("menu bar exited")
				})
				return nil
			})
		},
	}
}
