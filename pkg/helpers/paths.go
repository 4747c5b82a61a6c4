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

package helpers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZaparooProject/there/pkg/config"
	"github.com/adrg/xdg"
)

// userDirCache caches the result of HasUserDir to avoid repeated filesystem checks
var (
	userDirCache       string
	userDirCacheExists bool
	userDirOnce        sync.Once
)

// HasUserDir checks if a "user" directory exists next to the binary and
// returns true and the absolute path to it. This directory is used as the
// parent for all app directories if it exists, for a portable install.
// The result is cached after the first call.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exePath := os.Getenv(config.AppEnv)
		if exePath == "" {
			var err error
			exePath, err = os.Executable()
			if err != nil {
				return
			}
		}

		userDir := filepath.Join(filepath.Dir(exePath), config.UserDir)
		info, err := os.Stat(userDir)
		if err != nil || !info.IsDir() {
			return
		}

		userDirCache = userDir
		userDirCacheExists = true
	})

	return userDirCache, userDirCacheExists
}

// DataDir is where the entry database, photos and logs live. THERE_DATA_DIR
// takes priority over a portable user dir, which takes priority over XDG.
func DataDir() string {
	if v := os.Getenv(config.DataDirEnv); v != "" {
		return v
	}
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.DataHome, config.AppName)
}

func ConfigDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// ConfigPath is the config file location, overridable with THERE_CFG.
func ConfigPath() string {
	if v := os.Getenv(config.CfgEnv); v != "" {
		return v
	}
	return filepath.Join(ConfigDir(), config.CfgFile)
}

func LogDir() string {
	return filepath.Join(DataDir(), config.LogsDir)
}

func PhotosDir() string {
	return filepath.Join(DataDir(), config.PhotosDir)
}

// EnsureDirectories creates every directory the app writes to.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			return errors.New("directory path is empty")
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// PathHasPrefix checks if path is within root directory, handling separator
// boundaries correctly so "photos2/a.png" does not match root "photos".
func PathHasPrefix(path, root string) bool {
	normPath := filepath.ToSlash(filepath.Clean(path))
	normRoot := filepath.ToSlash(filepath.Clean(root))

	if normPath == normRoot {
		return true
	}
	if root == "" {
		return false
	}
	if !strings.HasSuffix(normRoot, "/") {
		normRoot += "/"
	}
	return strings.HasPrefix(normPath, normRoot)
}

func LogFilePath() string {
	return filepath.Join(LogDir(), config.LogFile)
}
