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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaparooProject/there/pkg/config"
	"github.com/ZaparooProject/there/pkg/database"
	"github.com/ZaparooProject/there/pkg/database/userdb"
	"github.com/ZaparooProject/there/pkg/helpers"
	"github.com/ZaparooProject/there/pkg/photos"
	"github.com/ZaparooProject/there/pkg/search"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Globals are the flags shared by every command.
type Globals struct {
	ConfigPath string
	Debug      bool
}

// Env is everything a command works with. It is built once per invocation
// and handed down; nothing in it is global.
type Env struct {
	Config   *config.Instance
	Store    database.UserDBI
	Photos   *photos.Store
	Searcher *search.Searcher
	Clock    clockwork.Clock
	// Local is the zone deltas are measured against.
	Local   *time.Location
	LogPath string
	close   func() error
}

func (e *Env) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}

// Opener builds the Env for a command. Tests swap in one backed by
// temporary stores.
type Opener func(ctx context.Context, g *Globals) (*Env, error)

// Setup initializes logging, loads the config and opens the entry database.
// The returned Env must be closed.
func Setup(ctx context.Context, g *Globals) (*Env, error) {
	if g.ConfigPath != "" {
		if err := os.Setenv(config.CfgEnv, g.ConfigPath); err != nil {
			return nil, fmt.Errorf("failed to set config path: %w", err)
		}
	}

	var logWriters []io.Writer
	if g.Debug {
		logWriters = []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	}
	if err := helpers.InitLogging(helpers.LogDir(), g.Debug, logWriters); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), config.BaseDefaults)
	if err != nil {
		log.Error().Err(err).Msg("error loading config")
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DebugLogging() {
		helpers.SetDebugLogging(true)
	}
	log.Info().Msgf("There v%s", config.AppVersion)
	log.Debug().Str("config", cfg.Path()).Str("data", helpers.DataDir()).Msg("paths")

	dataDir := helpers.DataDir()
	if err := helpers.EnsureDirectories(dataDir, helpers.PhotosDir()); err != nil {
		return nil, err
	}

	db, err := userdb.OpenUserDB(ctx, dataDir)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close database after open error")
		}
		return nil, fmt.Errorf("failed to open entry database: %w", err)
	}

	return &Env{
		Config:   cfg,
		Store:    db,
		Photos:   photos.NewStore(afero.NewOsFs(), dataDir),
		Searcher: search.NewSearcherFromConfig(cfg),
		Clock:    clockwork.NewRealClock(),
		Local:    time.Local,
		LogPath:  helpers.LogFilePath(),
		close:    db.Close,
	}, nil
}

type app struct {
	open    Opener
	globals Globals
}

// withEnv opens the Env for one command run and closes it afterwards.
func (a *app) withEnv(cmd *cobra.Command, fn func(env *Env) error) error {
	env, err := a.open(cmd.Context(), &a.globals)
	if err != nil {
		return err
	}
	defer func() {
		if err := env.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close environment")
		}
	}()
	return fn(env)
}

// NewRootCmd assembles the command tree. A nil opener uses Setup.
func NewRootCmd(open Opener) *cobra.Command {
	if open == nil {
		open = Setup
	}
	a := &app{open: open}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Keep track of what time it is for the places and people you care about",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.globals.ConfigPath, "config", "", "path to config file")
	root.PersistentFlags().BoolVar(&a.globals.Debug, "debug", false, "enable debug logging to stderr")

	root.AddCommand(
		a.newListCmd(),
		a.newAddCmd(),
		a.newEditCmd(),
		a.newDeleteCmd(),
		a.newSearchCmd(),
		a.newBackfillCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newWatchCmd(),
		a.newTrayCmd(),
		newVersionCmd(),
	)

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCmd(nil)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "There v%s\n", config.AppVersion)
		},
	}
}
